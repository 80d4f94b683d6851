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
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func newTestManager(t *testing.T) (*Manager, afero.Fs) {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	fs := afero.NewMemMapFs()
	return New(fs, &logger), fs
}

func TestWriteFileAtomic(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, fs afero.Fs)
		check func(t *testing.T, fs afero.Fs)
	}{
		{
			name: "replaces_existing_file_keeping_mode",
			setup: func(t *testing.T, fs afero.Fs) {
				require.NoError(t, afero.WriteFile(fs, "src/a.py", []byte("old"), 0o755))
			},
			check: func(t *testing.T, fs afero.Fs) {
				content, err := afero.ReadFile(fs, "src/a.py")
				require.NoError(t, err)
				assert.Equal(t, "new", string(content), "content should be replaced")

				fi, err := fs.Stat("src/a.py")
				require.NoError(t, err)
				assert.Equal(t, "-rwxr-xr-x", fi.Mode().Perm().String(), "mode should be kept")
			},
		},
		{
			name: "creates_missing_file",
			check: func(t *testing.T, fs afero.Fs) {
				content, err := afero.ReadFile(fs, "src/a.py")
				require.NoError(t, err)
				assert.Equal(t, "new", string(content))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, fs := newTestManager(t)
			require.NoError(t, fs.MkdirAll("src", 0o755))
			if tt.setup != nil {
				tt.setup(t, fs)
			}

			err := mgr.WriteFileAtomic(context.Background(), "src/a.py", []byte("new"))
			require.NoError(t, err)
			tt.check(t, fs)

			exists, err := afero.Exists(fs, "src/a.py.tmp")
			require.NoError(t, err)
			assert.False(t, exists, "temp file should be gone")
		})
	}
}

func TestReadFile(t *testing.T) {
	mgr, fs := newTestManager(t)
	require.NoError(t, afero.WriteFile(fs, "a.txt", []byte("hi"), 0o644))

	content, err := mgr.ReadFile(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hi", string(content))

	_, err = mgr.ReadFile(context.Background(), "missing.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading file")
}

func TestTracking(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager(t)

	mgr.StartOperation(ctx, 3)
	mgr.TrackFile(ctx, FileInfo{Path: "b.go", Status: StatusModified, Language: "go"})
	mgr.TrackFile(ctx, FileInfo{Path: "a.go", Status: StatusMatched, Lines: 2})
	mgr.TrackFile(ctx, FileInfo{Path: "c.go", Status: StatusFailed, Error: errors.New("boom")})
	mgr.UpdateProgress(ctx, 3)
	mgr.FinishOperation(ctx)

	files, err := mgr.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "a.go", files[0].Path, "files should be sorted by path")
	assert.Equal(t, "c.go", files[2].Path)

	info, err := mgr.GetFileInfo(ctx, "b.go")
	require.NoError(t, err)
	assert.Equal(t, StatusModified, info.Status)

	_, err = mgr.GetFileInfo(ctx, "nope.go")
	require.Error(t, err)

	assert.Equal(t, map[FileStatus]int{
		StatusModified: 1,
		StatusMatched:  1,
		StatusFailed:   1,
	}, mgr.Counts())
}

func TestFileStatusString(t *testing.T) {
	tests := []struct {
		status FileStatus
		want   string
	}{
		{StatusUnknown, "unknown"},
		{StatusUnchanged, "unchanged"},
		{StatusModified, "modified"},
		{StatusMatched, "matched"},
		{StatusSkipped, "skipped"},
		{StatusFailed, "failed"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestChecksum(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Checksum(nil), "empty input should hash like sha256")
	assert.NotEqual(t, Checksum([]byte("a")), Checksum([]byte("b")))
}
