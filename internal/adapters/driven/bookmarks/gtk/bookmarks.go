// Package gtk reads the GTK bookmarks file shared by desktop file managers
// and keeps it current as the file changes.
package gtk

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driven"
)

// Ensure List implements the interface.
var _ driven.BookmarkSource = (*List)(nil)

const reloadDelay = 100 * time.Millisecond

// DefaultPath returns the GTK 3 bookmarks file location,
// $XDG_CONFIG_HOME/gtk-3.0/bookmarks.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gtk-3.0", "bookmarks"), nil
}

// List is the user's bookmark list.
type List struct {
	path string

	mu    sync.RWMutex
	items []domain.Bookmark
	byURI map[string]domain.Bookmark

	watchMu sync.Mutex
	watcher *fsnotify.Watcher
	stop    chan struct{}
}

// NewList loads the bookmarks file at path.
// A missing file yields an empty list.
func NewList(path string) (*List, error) {
	l := &List{path: path}
	if err := l.Load(); err != nil {
		return nil, err
	}
	return l, nil
}

// Path returns the bookmarks file path.
func (l *List) Path() string {
	return l.path
}

// Load re-reads the bookmarks file.
func (l *List) Load() error {
	data, err := os.ReadFile(l.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read bookmarks: %w", err)
	}

	items := Parse(data)
	byURI := make(map[string]domain.Bookmark, len(items))
	for _, item := range items {
		if _, dup := byURI[item.URI]; !dup {
			byURI[item.URI] = item
		}
	}

	l.mu.Lock()
	l.items = items
	l.byURI = byURI
	l.mu.Unlock()
	return nil
}

// Bookmarks returns a snapshot of the list.
func (l *List) Bookmarks() []domain.Bookmark {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Bookmark(nil), l.items...)
}

// BookmarkWithURI returns the first bookmark for uri.
func (l *List) BookmarkWithURI(uri string) (domain.Bookmark, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.byURI[uri]
	return b, ok
}

// Watch reloads the list whenever the bookmarks file changes, until ctx is
// done or Close is called. The parent directory is watched because the
// file is usually replaced rather than rewritten.
func (l *List) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		fsw.Close()
		return err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	stop := make(chan struct{})

	l.watchMu.Lock()
	defer l.watchMu.Unlock()
	if err := l.stopWatching(); err != nil {
		log.Printf("bookmarks: close previous watcher: %v", err)
	}
	l.watcher = fsw
	l.stop = stop
	go l.processEvents(ctx, fsw, stop)
	return nil
}

// Close stops watching. It is safe to call more than once.
func (l *List) Close() error {
	l.watchMu.Lock()
	defer l.watchMu.Unlock()
	return l.stopWatching()
}

// stopWatching requires watchMu.
func (l *List) stopWatching() error {
	if l.watcher == nil {
		return nil
	}
	close(l.stop)
	err := l.watcher.Close()
	l.watcher = nil
	l.stop = nil
	return err
}

func (l *List) processEvents(ctx context.Context, fsw *fsnotify.Watcher, stop <-chan struct{}) {
	var reload <-chan time.Time
	name := filepath.Clean(l.path)

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) == name {
				reload = time.After(reloadDelay)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			log.Printf("bookmarks: watch error: %v", err)
		case <-reload:
			reload = nil
			if err := l.Load(); err != nil {
				log.Printf("bookmarks: reload failed: %v", err)
			}
		}
	}
}

// Parse reads GTK bookmarks file content: one "URI [label]" per line.
// Unlabelled bookmarks are named after the last path segment.
func Parse(data []byte) []domain.Bookmark {
	var items []domain.Bookmark

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		uri, label, _ := strings.Cut(line, " ")
		label = strings.TrimSpace(label)
		if label == "" {
			label = defaultName(uri)
		}
		items = append(items, domain.Bookmark{
			Name:     label,
			URI:      uri,
			IconName: iconName(uri),
		})
	}
	return items
}

func defaultName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	p := strings.TrimRight(u.Path, "/")
	if p == "" {
		if u.Host != "" {
			return u.Host
		}
		return "/"
	}
	return path.Base(p)
}

// specialFolders maps XDG user directory names to their themed icons.
var specialFolders = map[string]string{
	"Desktop":   "user-desktop",
	"Documents": "folder-documents",
	"Downloads": "folder-download",
	"Music":     "folder-music",
	"Pictures":  "folder-pictures",
	"Public":    "folder-publicshare",
	"Templates": "folder-templates",
	"Videos":    "folder-videos",
}

func iconName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return "folder-remote"
	}
	if icon, ok := specialFolders[path.Base(strings.TrimRight(u.Path, "/"))]; ok {
		return icon
	}
	return "folder"
}
