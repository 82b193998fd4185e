// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sysctlconf

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	terrors "github.com/mchmarny/host-tuner/pkg/errors"
)

const (
	// BeginMarker opens the managed block.
	BeginMarker = "# BEGIN host-tuner managed block"
	// EndMarker closes the managed block.
	EndMarker = "# END host-tuner managed block"

	backupLayout = "20060102-150405"
)

// Entry is one persisted kernel parameter.
type Entry struct {
	Key   string
	Value string
}

// Writer persists entries into a sysctl file.
type Writer struct {
	path   string
	backup bool
	now    func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithBackup toggles the timestamped copy taken before each write.
func WithBackup(enabled bool) Option {
	return func(w *Writer) {
		w.backup = enabled
	}
}

// WithClock overrides the clock used for backup names.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// NewWriter returns a Writer for path.
func NewWriter(path string, opts ...Option) *Writer {
	w := &Writer{path: path, backup: true, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns the target file.
func (w *Writer) Path() string {
	return w.path
}

// Render returns the managed block for entries sorted by key.
func Render(entries []Entry) string {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b Entry) int {
		return strings.Compare(a.Key, b.Key)
	})

	var b strings.Builder
	b.WriteString(BeginMarker + "\n")
	for _, e := range sorted {
		fmt.Fprintf(&b, "%s = %s\n", e.Key, e.Value)
	}
	b.WriteString(EndMarker + "\n")
	return b.String()
}

// Merge returns content with the managed block replaced in place, or
// appended when content has none. Everything outside the block is kept.
func Merge(content, block string) string {
	begin := strings.Index(content, BeginMarker)
	if begin >= 0 {
		rest := content[begin:]
		if end := strings.Index(rest, EndMarker); end >= 0 {
			after := rest[end+len(EndMarker):]
			after = strings.TrimPrefix(after, "\n")
			return content[:begin] + block + after
		}
		// an unterminated block runs to end of file
		return content[:begin] + block
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if content != "" {
		content += "\n"
	}
	return content + block
}

// Write merges the block for entries into the file. It writes only when
// the content changes, taking a backup first, and reports whether it wrote.
func (w *Writer) Write(entries []Entry) (bool, error) {
	current, err := os.ReadFile(w.path)
	if err != nil && !os.IsNotExist(err) {
		return false, terrors.WrapWithContext(terrors.ErrCodeInternal,
			"failed to read sysctl file", err, map[string]any{"path": w.path})
	}
	exists := err == nil

	next := []byte(Merge(string(current), Render(entries)))
	if bytes.Equal(current, next) {
		slog.Debug("sysctl block unchanged", "path", w.path)
		return false, nil
	}

	mode := os.FileMode(0o644)
	if exists {
		if fi, statErr := os.Stat(w.path); statErr == nil {
			mode = fi.Mode().Perm()
		}
		if w.backup {
			bak, bakErr := w.writeBackup(current, mode)
			if bakErr != nil {
				return false, bakErr
			}
			slog.Info("sysctl file backed up", "backup", bak)
		}
	}

	if err := writeAtomic(w.path, next, mode); err != nil {
		return false, terrors.WrapWithContext(terrors.ErrCodeInternal,
			"failed to write sysctl file", err, map[string]any{"path": w.path})
	}
	slog.Info("sysctl block written", "path", w.path, "entries", len(entries))
	return true, nil
}

// BackupPath returns the backup name for a write at t.
func BackupPath(path string, t time.Time) string {
	return fmt.Sprintf("%s.host-tuner.%s.bak", path, t.Format(backupLayout))
}

func (w *Writer) writeBackup(content []byte, mode os.FileMode) (string, error) {
	bak := BackupPath(w.path, w.now())
	if err := os.WriteFile(bak, content, mode); err != nil {
		return "", terrors.WrapWithContext(terrors.ErrCodeInternal,
			"failed to back up sysctl file", err, map[string]any{"backup": bak})
	}
	return bak, nil
}

func writeAtomic(path string, data []byte, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
