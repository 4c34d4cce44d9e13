package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/factory-analyzer/pkg/logging"
)

// ChangeEvent is a batch of changes to the watched template file.
type ChangeEvent struct {
	Paths     []string
	Timestamp time.Time
}

// TemplateWatcher watches one template file for changes. The parent
// directory is watched rather than the file itself because editors
// often replace files via rename, which drops a file-level watch.
type TemplateWatcher struct {
	watcher  *fsnotify.Watcher
	template string
	events   chan ChangeEvent
}

// NewTemplateWatcher creates a watcher for the given template path.
func NewTemplateWatcher(template string) (*TemplateWatcher, error) {
	abs, err := filepath.Abs(template)
	if err != nil {
		return nil, fmt.Errorf("resolve template path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &TemplateWatcher{
		watcher:  watcher,
		template: abs,
		events:   make(chan ChangeEvent, 100),
	}, nil
}

// Start begins watching. Events are delivered on Events() until the
// context is cancelled.
func (tw *TemplateWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(tw.template)
	if err := tw.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logging.Info("watching template", "path", tw.template)

	go tw.processEvents(ctx)
	return nil
}

func (tw *TemplateWatcher) processEvents(ctx context.Context) {
	var pending []string

	flushTimer := time.NewTimer(100 * time.Millisecond)
	flushTimer.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		tw.events <- ChangeEvent{Paths: pending, Timestamp: time.Now()}
		pending = nil
	}

	for {
		select {
		case <-ctx.Done():
			tw.watcher.Close()
			close(tw.events)
			return

		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if !tw.relevant(event) {
				continue
			}
			pending = append(pending, event.Name)
			flushTimer.Reset(100 * time.Millisecond)

		case <-flushTimer.C:
			flush()

		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// relevant reports whether an fsnotify event concerns the template.
func (tw *TemplateWatcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return abs == tw.template
}

// Events returns the channel of change events.
func (tw *TemplateWatcher) Events() <-chan ChangeEvent {
	return tw.events
}

// Stop stops the watcher.
func (tw *TemplateWatcher) Stop() error {
	return tw.watcher.Close()
}
