// Package testutil provides helpers shared by upkeep's tests.
package testutil

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
)

// SkipIfNoCommand skips the test if any of the named programs is not in PATH.
func SkipIfNoCommand(t *testing.T, names ...string) {
	t.Helper()

	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not found in PATH, skipping test", name)
		}
	}
}

// WriteFileModified writes content to path on fs, creating parent
// directories, and sets the file's modification time.
func WriteFileModified(t *testing.T, fs afero.Fs, path, content string, modified time.Time) {
	t.Helper()

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	if err := fs.Chtimes(path, modified, modified); err != nil {
		t.Fatalf("failed to set times on %s: %v", path, err)
	}
}

// SyncBuffer is a bytes.Buffer that is safe for concurrent writers, such as
// a bubbletea program's renderer.
type SyncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (b *SyncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything written so far.
func (b *SyncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
