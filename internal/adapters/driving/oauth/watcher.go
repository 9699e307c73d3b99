package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/forlark/larkfetch/internal/logger"
)

// CaptureFileName is the file a hosted redirect page's companion
// script writes the callback parameters to when the browser cannot
// reach the local callback server (remote shells, containers).
const CaptureFileName = "oauth_capture.json"

// capturePayload is the JSON shape written to the capture file.
type capturePayload struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// CaptureWatcher watches a directory for the capture file and
// delivers the callback it carries. It is the fallback observation
// channel when the redirect cannot hit the local server.
type CaptureWatcher struct {
	dir          string
	watcher      *fsnotify.Watcher
	callbackChan chan Callback
	errChan      chan error
}

// NewCaptureWatcher creates a watcher over dir. The directory must
// exist; the capture file need not.
func NewCaptureWatcher(dir string) (*CaptureWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &CaptureWatcher{
		dir:          dir,
		watcher:      watcher,
		callbackChan: make(chan Callback, 1),
		errChan:      make(chan error, 1),
	}
	go w.run()
	return w, nil
}

// run consumes filesystem events until the watcher is closed.
func (w *CaptureWatcher) run() {
	target := filepath.Join(w.dir, CaptureFileName)

	// The file may predate the watcher (user completed auth before
	// the CLI started waiting).
	w.tryDeliver(target)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != target {
				continue
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
				w.tryDeliver(target)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errChan <- err:
			default:
			}
		}
	}
}

// tryDeliver parses the capture file and delivers its callback. A
// partial write is skipped; the next event retries.
func (w *CaptureWatcher) tryDeliver(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var payload capturePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Code == "" {
		return
	}

	logger.Debug("oauth capture file delivered a callback")
	select {
	case w.callbackChan <- Callback{Code: payload.Code, State: payload.State}:
	default:
	}
}

// WaitForCallback blocks until a callback is captured or the context
// expires.
func (w *CaptureWatcher) WaitForCallback(ctx context.Context) (Callback, error) {
	select {
	case cb := <-w.callbackChan:
		return cb, nil
	case err := <-w.errChan:
		return Callback{}, err
	case <-ctx.Done():
		return Callback{}, fmt.Errorf("waiting for capture file: %w", ctx.Err())
	}
}

// Close stops the watcher and removes any consumed capture file.
func (w *CaptureWatcher) Close() error {
	err := w.watcher.Close()
	// Stale captures must not complete a future attempt.
	if removeErr := os.Remove(filepath.Join(w.dir, CaptureFileName)); removeErr != nil && !os.IsNotExist(removeErr) {
		logger.Warn("removing capture file: %v", removeErr)
	}
	return err
}
