package oauth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCaptureWatcher_DeliversWrittenFile tests delivery after a write
func TestCaptureWatcher_DeliversWrittenFile(t *testing.T) {
	dir := t.TempDir()
	watcher, err := NewCaptureWatcher(dir)
	require.NoError(t, err)
	defer watcher.Close()

	payload := []byte(`{"code":"captured-code","state":"nonce-1"}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, CaptureFileName), payload, 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cb, err := watcher.WaitForCallback(ctx)
	require.NoError(t, err)
	assert.Equal(t, "captured-code", cb.Code)
	assert.Equal(t, "nonce-1", cb.State)
}

// TestCaptureWatcher_PreexistingFile tests delivery of a file written
// before the watcher started
func TestCaptureWatcher_PreexistingFile(t *testing.T) {
	dir := t.TempDir()
	payload := []byte(`{"code":"early-code","state":"nonce-2"}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, CaptureFileName), payload, 0o600))

	watcher, err := NewCaptureWatcher(dir)
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cb, err := watcher.WaitForCallback(ctx)
	require.NoError(t, err)
	assert.Equal(t, "early-code", cb.Code)
}

// TestCaptureWatcher_IgnoresOtherFiles tests that unrelated files in
// the directory deliver nothing
func TestCaptureWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	watcher, err := NewCaptureWatcher(dir)
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte(`{"code":"x"}`), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = watcher.WaitForCallback(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestCaptureWatcher_IgnoresMalformedPayload tests that junk content
// is skipped rather than delivered
func TestCaptureWatcher_IgnoresMalformedPayload(t *testing.T) {
	dir := t.TempDir()
	watcher, err := NewCaptureWatcher(dir)
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, CaptureFileName), []byte("not json"), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = watcher.WaitForCallback(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestCaptureWatcher_CloseRemovesCaptureFile tests stale capture cleanup
func TestCaptureWatcher_CloseRemovesCaptureFile(t *testing.T) {
	dir := t.TempDir()
	watcher, err := NewCaptureWatcher(dir)
	require.NoError(t, err)

	target := filepath.Join(dir, CaptureFileName)
	require.NoError(t, os.WriteFile(target, []byte(`{"code":"c","state":"s"}`), 0o600))

	// Give the event loop a moment to consume the write.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, watcher.Close())

	_, err = os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}
