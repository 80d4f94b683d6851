// Copyright 2025 walteh LLC
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

package status

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus is what happened to one input
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusUnchanged            // Scoped and processed, output equals input
	StatusModified             // Output differs from input
	StatusMatched              // Search mode found in-scope text
	StatusSkipped              // No language applies to the input
	StatusFailed               // Processing the input failed
)

func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusModified:
		return "modified"
	case StatusMatched:
		return "matched"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📝 FileInfo describes the outcome for one input
type FileInfo struct {
	Path     string     // Path of the input, empty for stdin
	Status   FileStatus // Outcome
	Language string     // Language used for scoping, if any
	Lines    int        // Lines with in-scope text
	Size     int64      // Output size in bytes
	Checksum string     // Hash of the output
	Error    error      // Any error associated with this input
}

// 💾 FileManager reads inputs and writes results back
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
}

// 📋 StatusReporter tracks outcomes and progress
type StatusReporter interface {
	TrackFile(ctx context.Context, info FileInfo)
	GetFileInfo(ctx context.Context, path string) (FileInfo, error)
	ListFiles(ctx context.Context) ([]FileInfo, error)

	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

var (
	_ FileManager    = (*Manager)(nil)
	_ StatusReporter = (*Manager)(nil)
)

// 🎯 Manager implements FileManager and StatusReporter on top of an afero
// filesystem
type Manager struct {
	fs        afero.Fs
	logger    *zerolog.Logger
	formatter FileFormatter

	mu    sync.RWMutex
	files map[string]FileInfo

	total     int
	processed int
}

func New(fs afero.Fs, logger *zerolog.Logger) *Manager {
	return &Manager{
		fs:        fs,
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
		files:     make(map[string]FileInfo),
	}
}

// WithFormatter replaces the formatter used for log messages
func (m *Manager) WithFormatter(f FileFormatter) *Manager {
	m.formatter = f
	return m
}

// Checksum hashes content the way FileInfo.Checksum expects
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// ✍️ WriteFileAtomic replaces path through a temp file and a rename. The
// file keeps its permissions.
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	mode := os.FileMode(0o644)
	if fi, err := m.fs.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	} else if !os.IsNotExist(err) {
		return errors.Errorf("checking file: %w", err)
	}

	tempPath := path + ".tmp"
	if err := afero.WriteFile(m.fs, tempPath, content, mode); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := m.fs.Rename(tempPath, path); err != nil {
		_ = m.fs.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(content)).Msg("wrote file")
	return nil
}

func (m *Manager) TrackFile(ctx context.Context, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[info.Path] = info

	msg := m.formatter.FormatFileResult(info)
	if info.Error != nil {
		m.logger.Warn().Str("path", info.Path).Err(info.Error).Msg(msg)
		return
	}
	m.logger.Debug().
		Str("path", info.Path).
		Stringer("status", info.Status).
		Str("language", info.Language).
		Msg(msg)
}

func (m *Manager) GetFileInfo(ctx context.Context, path string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.files[path]
	if !ok {
		return FileInfo{}, errors.Errorf("file not tracked: %s", path)
	}
	return info, nil
}

// ListFiles returns all tracked outcomes sorted by path
func (m *Manager) ListFiles(ctx context.Context) ([]FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Counts tallies tracked outcomes by status
func (m *Manager) Counts() map[FileStatus]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := map[FileStatus]int{}
	for _, info := range m.files {
		counts[info.Status]++
	}
	return counts
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	m.logger.Debug().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	m.logger.Trace().
		Int("processed", processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(processed, m.total))
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Debug().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.total, m.total))
}
