package locate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
)

// recordingSink implements driven.EngineSink for testing.
type recordingSink struct {
	mu       sync.Mutex
	batches  [][]domain.Hit
	finished int
	errors   []string
	done     chan struct{}
	once     sync.Once
}

func newRecordingSink() *recordingSink {
	return &recordingSink{done: make(chan struct{})}
}

func (s *recordingSink) HitsAdded(hits []domain.Hit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, append([]domain.Hit(nil), hits...))
}

func (s *recordingSink) HitsSubtracted(_ []domain.Hit) {}

func (s *recordingSink) Finished() {
	s.mu.Lock()
	s.finished++
	s.mu.Unlock()
	s.once.Do(func() { close(s.done) })
}

func (s *recordingSink) Error(message string) {
	s.mu.Lock()
	s.errors = append(s.errors, message)
	s.mu.Unlock()
	s.once.Do(func() { close(s.done) })
}

func (s *recordingSink) wait(t *testing.T) {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not complete")
	}
}

func (s *recordingSink) uris() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var uris []string
	for _, batch := range s.batches {
		for _, hit := range batch {
			uris = append(uris, hit.URI)
		}
	}
	return uris
}

// fakeLocate writes a shell script named name that records its arguments,
// prints lines and exits with code.
func fakeLocate(t *testing.T, name string, lines []string, code int) (command, argsFile string) {
	t.Helper()
	dir := t.TempDir()
	outFile := filepath.Join(dir, "out.txt")
	argsFile = filepath.Join(dir, "args.txt")
	require.NoError(t, os.WriteFile(outFile, []byte(strings.Join(lines, "\n")+"\n"), 0600))

	script := fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' \"$@\" > '%s'\ncat '%s'\necho 'locate failed' >&2\nexit %d\n",
		argsFile, outFile, code)
	command = filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(command, []byte(script), 0700))
	return command, argsFile
}

func readArgs(t *testing.T, argsFile string) []string {
	t.Helper()
	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	return strings.Fields(string(data))
}

func TestEngine_FiltersAndFinishes(t *testing.T) {
	root := t.TempDir()
	report := filepath.Join(root, "docs", "report-2023.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(report), 0700))
	require.NoError(t, os.WriteFile(report, []byte("x"), 0600))

	command, argsFile := fakeLocate(t, "plocate", []string{
		report,
		filepath.Join(root, "other.txt"),
		"/elsewhere/report-2023.txt",
		filepath.Join(root, "Reports", "2023", "summary.md"),
	}, 0)

	e := NewEngine(Config{Command: command, Limit: 100})
	e.SetQuery(domain.NewQuery([]string{"report", "2023"}, domain.FileURI(root)))
	sink := newRecordingSink()
	e.Start(sink)
	sink.wait(t)

	assert.Empty(t, sink.errors)
	assert.Equal(t, 1, sink.finished)
	assert.Equal(t, []string{
		domain.FileURI(report),
		domain.FileURI(filepath.Join(root, "Reports", "2023", "summary.md")),
	}, sink.uris())
	assert.False(t, sink.batches[0][0].ModTime.IsZero(), "existing files carry a modification time")
	assert.Equal(t, domain.SourceEngine, sink.batches[0][0].Source)

	assert.Equal(t, []string{"-i", "-l", "400", "--", "report", "2023"}, readArgs(t, argsFile))
}

func TestEngine_RequireAllFlagForOtherLocates(t *testing.T) {
	root := t.TempDir()
	command, argsFile := fakeLocate(t, "mlocate", nil, 1)

	e := NewEngine(Config{Command: command, Limit: 10})
	e.SetQuery(domain.NewQuery([]string{"notes"}, domain.FileURI(root)))
	sink := newRecordingSink()
	e.Start(sink)
	sink.wait(t)

	assert.Contains(t, readArgs(t, argsFile), "-A")
}

func TestEngine_NoMatchesIsNotAnError(t *testing.T) {
	root := t.TempDir()
	command, _ := fakeLocate(t, "plocate", nil, 1)

	e := NewEngine(Config{Command: command})
	e.SetQuery(domain.NewQuery([]string{"nothing"}, domain.FileURI(root)))
	sink := newRecordingSink()
	e.Start(sink)
	sink.wait(t)

	assert.Empty(t, sink.errors)
	assert.Equal(t, 1, sink.finished)
	assert.Empty(t, sink.uris())
}

func TestEngine_CommandFailure(t *testing.T) {
	root := t.TempDir()
	command, _ := fakeLocate(t, "plocate", nil, 2)

	e := NewEngine(Config{Command: command})
	e.SetQuery(domain.NewQuery([]string{"notes"}, domain.FileURI(root)))
	sink := newRecordingSink()
	e.Start(sink)
	sink.wait(t)

	require.Len(t, sink.errors, 1)
	assert.Contains(t, sink.errors[0], "locate failed")
	assert.Zero(t, sink.finished)
}

func TestEngine_MissingCommand(t *testing.T) {
	e := NewEngine(Config{Command: filepath.Join(t.TempDir(), "no-such-locate")})
	e.SetQuery(domain.NewQuery([]string{"notes"}, domain.FileURI(t.TempDir())))
	sink := newRecordingSink()
	e.Start(sink)
	sink.wait(t)

	assert.Len(t, sink.errors, 1)
}

func TestEngine_UnsupportedLocation(t *testing.T) {
	e := NewEngine(Config{Command: "plocate"})
	e.SetQuery(domain.NewQuery([]string{"notes"}, "sftp://host/home"))
	sink := newRecordingSink()
	e.Start(sink)
	sink.wait(t)

	require.Len(t, sink.errors, 1)
	assert.Contains(t, sink.errors[0], domain.ErrUnsupportedURI.Error())
}

func TestEngine_Limit(t *testing.T) {
	root := t.TempDir()
	var lines []string
	for i := 0; i < 10; i++ {
		lines = append(lines, filepath.Join(root, fmt.Sprintf("notes-%d.txt", i)))
	}
	command, _ := fakeLocate(t, "plocate", lines, 0)

	e := NewEngine(Config{Command: command, Limit: 3, BatchSize: 2, BatchInterval: time.Hour})
	e.SetQuery(domain.NewQuery([]string{"notes"}, domain.FileURI(root)))
	sink := newRecordingSink()
	e.Start(sink)
	sink.wait(t)

	assert.Equal(t, 1, sink.finished)
	assert.Len(t, sink.uris(), 3)
}

func TestEngine_StopBeforeStart(t *testing.T) {
	root := t.TempDir()
	command, argsFile := fakeLocate(t, "plocate", []string{filepath.Join(root, "notes")}, 0)

	e := NewEngine(Config{Command: command})
	e.SetQuery(domain.NewQuery([]string{"notes"}, domain.FileURI(root)))
	e.Stop()
	sink := newRecordingSink()
	e.Start(sink)
	e.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, sink.uris())
	assert.Zero(t, sink.finished)
	_, err := os.Stat(argsFile)
	assert.True(t, os.IsNotExist(err), "command must not run")
}

func TestEngine_StopWhileRunning(t *testing.T) {
	dir := t.TempDir()
	command := filepath.Join(dir, "plocate")
	require.NoError(t, os.WriteFile(command, []byte("#!/bin/sh\nexec sleep 5\n"), 0700))

	e := NewEngine(Config{Command: command})
	e.SetQuery(domain.NewQuery([]string{"notes"}, domain.FileURI(dir)))
	sink := newRecordingSink()
	e.Start(sink)

	time.Sleep(50 * time.Millisecond)
	e.Stop()
	e.Stop()

	select {
	case <-sink.done:
		t.Fatal("stopped engine must not report completion")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestPathFilter(t *testing.T) {
	f := newPathFilter("/home/user/", []string{"Report", " ", "2023"})

	assert.True(t, f.accept("/home/user/report-2023.pdf"))
	assert.True(t, f.accept("/home/user/2023/REPORTS"))
	assert.False(t, f.accept("/home/user/report.pdf"))
	assert.False(t, f.accept("/home/username/report-2023.pdf"))
	assert.False(t, f.accept("/home/user"))
}
