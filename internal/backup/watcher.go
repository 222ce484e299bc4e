package backup

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-claude-backup/internal/core/model"
	"github.com/penwyp/go-claude-backup/internal/util"
)

// SourceWatcher reports session-file changes under the projects
// directory so callers can trigger incremental runs.
type SourceWatcher struct {
	watcher *fsnotify.Watcher
	events  chan model.FileEvent
}

// NewSourceWatcher watches the directory tree rooted at path.
func NewSourceWatcher(path string) (*SourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	sw := &SourceWatcher{
		watcher: watcher,
		events:  make(chan model.FileEvent, 100),
	}

	if err := sw.addTree(path); err != nil {
		watcher.Close()
		return nil, err
	}

	go sw.processEvents()

	return sw, nil
}

func (sw *SourceWatcher) addTree(path string) error {
	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return sw.watcher.Add(p)
		}
		return nil
	})
}

func (sw *SourceWatcher) processEvents() {
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}

			// New project directories must join the watch set.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					sw.addTree(event.Name)
					continue
				}
			}

			if strings.HasSuffix(strings.ToLower(event.Name), ".jsonl") {
				sw.events <- model.FileEvent{
					Path:      event.Name,
					Operation: event.Op.String(),
				}
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

// Events returns the change stream.
func (sw *SourceWatcher) Events() <-chan model.FileEvent {
	return sw.events
}

// Close stops the watcher.
func (sw *SourceWatcher) Close() error {
	return sw.watcher.Close()
}
