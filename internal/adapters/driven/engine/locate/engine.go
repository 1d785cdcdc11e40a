package locate

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-search-provider/internal/logger"
)

// Ensure Engine implements the interface.
var _ driven.SearchEngine = (*Engine)(nil)

// Default batching values.
const (
	DefaultBatchSize     = 50
	DefaultBatchInterval = 100 * time.Millisecond
)

// Config configures the locate engine.
type Config struct {
	// Command is the locate binary (plocate, mlocate, locate).
	Command string

	// Limit caps the number of hits reported per query.
	Limit int

	// BatchSize is the largest batch passed to HitsAdded.
	BatchSize int

	// BatchInterval is the minimum spacing between partial batches.
	BatchInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.Command == "" {
		c.Command = domain.DefaultLocateCommand
	}
	if c.Limit <= 0 {
		c.Limit = domain.DefaultEngineHitLimit
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.BatchInterval <= 0 {
		c.BatchInterval = DefaultBatchInterval
	}
	return c
}

// Engine runs one locate query. Engines are single use.
type Engine struct {
	cfg Config

	mu      sync.Mutex
	query   domain.Query
	started bool
	stopped bool
	cancel  context.CancelFunc
}

// NewEngine creates a locate engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

// Factory returns an engine factory producing locate engines.
func Factory(cfg Config) driven.EngineFactory {
	return func() driven.SearchEngine {
		return NewEngine(cfg)
	}
}

// SetQuery sets the query to run.
func (e *Engine) SetQuery(query domain.Query) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.query = query
}

// Start runs the query in the background.
// It does nothing if the engine was already started or stopped.
func (e *Engine) Start(sink driven.EngineSink) {
	e.mu.Lock()
	if e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.started = true
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	query := e.query
	e.mu.Unlock()

	go e.run(ctx, query, sink)
}

// Stop cancels the running query without waiting for it.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopped = true
	if e.cancel != nil {
		e.cancel()
	}
}

func (e *Engine) run(ctx context.Context, query domain.Query, sink driven.EngineSink) {
	defer e.Stop()
	start := time.Now()

	root, err := domain.PathFromURI(query.Location)
	if err != nil {
		sink.Error(err.Error())
		return
	}

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	cmd := exec.CommandContext(runCtx, e.cfg.Command, e.args(query)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		sink.Error(err.Error())
		return
	}
	if err := cmd.Start(); err != nil {
		sink.Error(fmt.Sprintf("start %s: %v", e.cfg.Command, err))
		return
	}

	filter := newPathFilter(root, query.Terms)
	batcher := newBatcher(sink, e.cfg.BatchSize, e.cfg.BatchInterval)
	total := 0
	limited := false

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		path := scanner.Text()
		if !filter.accept(path) {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		batcher.add(newHit(path))
		total++
		if total >= e.cfg.Limit {
			limited = true
			cancelRun()
			break
		}
	}
	// Drain so the child never blocks on a full pipe before it is reaped.
	_, _ = io.Copy(io.Discard, stdout)
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		logger.Debug("locate: stopped after %d hits", total)
		return
	}
	batcher.flush()

	if !limited && waitErr != nil && !noMatches(waitErr, total) {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = waitErr.Error()
		}
		sink.Error(fmt.Sprintf("%s: %s", e.cfg.Command, msg))
		return
	}

	logger.Elapsed(fmt.Sprintf("locate: %d hits for %q", total, query.Text), start)
	sink.Finished()
}

// args builds the locate command line: case-insensitive, limited, and
// requiring every term to match.
func (e *Engine) args(query domain.Query) []string {
	args := []string{"-i", "-l", strconv.Itoa(e.cfg.Limit * 4)}
	if filepath.Base(e.cfg.Command) != "plocate" {
		args = append(args, "-A")
	}
	args = append(args, "--")
	return append(args, query.Terms...)
}

// noMatches reports whether err is locate's "nothing found" exit status.
func noMatches(err error, total int) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && total == 0
}

func newHit(path string) domain.Hit {
	hit := domain.NewHit(domain.FileURI(path), domain.SourceEngine)
	if info, err := os.Lstat(path); err == nil {
		hit.ModTime = info.ModTime()
		hit.AccessTime = accessTime(info)
	}
	return hit
}

// pathFilter keeps paths under root whose text contains every term.
type pathFilter struct {
	prefix string
	terms  []string
}

func newPathFilter(root string, terms []string) pathFilter {
	prefix := filepath.Clean(root)
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}

	lowered := make([]string, 0, len(terms))
	for _, term := range terms {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
			lowered = append(lowered, term)
		}
	}
	return pathFilter{prefix: prefix, terms: lowered}
}

func (f pathFilter) accept(path string) bool {
	if !strings.HasPrefix(path, f.prefix) {
		return false
	}
	rel := strings.ToLower(path[len(f.prefix):])
	for _, term := range f.terms {
		if !strings.Contains(rel, term) {
			return false
		}
	}
	return true
}

// batcher groups hits so the sink is not called once per line.
// A partial batch is flushed when the limiter allows it.
type batcher struct {
	sink    driven.EngineSink
	size    int
	limiter *rate.Limiter
	pending []domain.Hit
}

func newBatcher(sink driven.EngineSink, size int, interval time.Duration) *batcher {
	return &batcher{
		sink:    sink,
		size:    size,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (b *batcher) add(hit domain.Hit) {
	b.pending = append(b.pending, hit)
	if len(b.pending) >= b.size || b.limiter.Allow() {
		b.flush()
	}
}

func (b *batcher) flush() {
	if len(b.pending) == 0 {
		return
	}
	b.sink.HitsAdded(b.pending)
	b.pending = nil
}
