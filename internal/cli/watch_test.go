package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherCallsOnChange(t *testing.T) {
	dir := t.TempDir()
	file := writeTestFile(t, dir, "app.js", "1")

	changed := make(chan struct{}, 1)
	w := NewWatcher([]string{file}, func() error {
		select {
		case changed <- struct{}{}:
		default:
		}
		return nil
	})
	w.SetDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(file, []byte("2"), 0o644)
		select {
		case <-changed:
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	file := writeTestFile(t, dir, "app.js", "1")
	other := filepath.Join(dir, "other.js")

	calls := make(chan struct{}, 16)
	w := NewWatcher([]string{file}, func() error {
		calls <- struct{}{}
		return nil
	})
	w.SetDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	for i := range 5 {
		require.NoError(t, os.WriteFile(other, []byte{byte('0' + i)}, 0o644))
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done
	assert.Empty(t, calls)
}

func TestWatcherMissingDirectory(t *testing.T) {
	w := NewWatcher([]string{filepath.Join(t.TempDir(), "missing", "app.js")}, func() error { return nil })
	err := w.Watch(context.Background())
	require.Error(t, err)
}

func TestTransformWatchRecompiles(t *testing.T) {
	dir := t.TempDir()
	file := writeTestFile(t, dir, "app.js", arrowSource)
	outFile := filepath.Join(dir, "out.js")

	cmd := NewTransformCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{file, "--watch", "-o", outFile,
		"--plugins", "transform-es2015-arrow-functions", "--no-babelrc"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(outFile)
		return err == nil && string(data) == arrowOutput
	}, 5*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		_ = os.WriteFile(file, []byte(`const f = () => 1`), 0o644)
		data, err := os.ReadFile(outFile)
		return err == nil && strings.Contains(string(data), "const f = function () {")
	}, 5*time.Second, 200*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
