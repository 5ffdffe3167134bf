package watcher

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 500 * time.Millisecond

// ConfigChangedMsg is sent once writes to the watched file settle.
type ConfigChangedMsg struct {
	Path string
}

// Watch returns a command that blocks until path changes. The parent
// directory is watched so editors that replace the file are still seen.
// The command must be re-issued after each message.
func Watch(path string) tea.Cmd {
	return func() tea.Msg {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil
		}
		defer w.Close()

		if err := w.Add(filepath.Dir(path)); err != nil {
			return nil
		}
		return wait(w, path, debounceDelay)
	}
}

func wait(w *fsnotify.Watcher, path string, delay time.Duration) tea.Msg {
	target := filepath.Clean(path)

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			debounce.Reset(delay)
		case <-debounce.C:
			return ConfigChangedMsg{Path: path}
		case <-w.Errors:
			continue
		}
	}
}
