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

package provider

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/scopegrep/pkg/langs"
	"gitlab.com/tozd/go/errors"
)

// bytes read to find a shebang
const sniffSize = 256

func init() {
	Register("fs", func(ctx context.Context, args Args) (Provider, error) {
		return NewFS(args)
	})
}

// 📁 FS provides files from a filesystem, either matching a glob or
// belonging to one of the given languages
type FS struct {
	fs        afero.Fs
	root      string
	glob      string
	languages []*langs.Language
}

func NewFS(args Args) (*FS, error) {
	if args.Fs == nil {
		args.Fs = afero.NewOsFs()
	}
	if args.Root == "" {
		args.Root = "."
	}

	glob := args.Glob
	if glob != "" {
		glob = path.Clean(filepath.ToSlash(glob))
		if !doublestar.ValidatePattern(glob) {
			return nil, errors.Errorf("invalid glob %q", args.Glob)
		}
	}

	if glob == "" && len(args.Languages) == 0 {
		return nil, errors.New("file discovery needs a glob or at least one language")
	}

	return &FS{
		fs:        args.Fs,
		root:      filepath.Clean(args.Root),
		glob:      glob,
		languages: args.Languages,
	}, nil
}

// 📂 ListUnits walks the tree in lexical order. Hidden entries are skipped
// unless a glob names them.
func (f *FS) ListUnits(ctx context.Context) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	root := f.root
	if f.glob != "" {
		base, _ := doublestar.SplitPattern(f.glob)
		root = filepath.FromSlash(base)
	}

	var units []string
	err := afero.Walk(f.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == root {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if info.IsDir() {
			if p != root && f.glob == "" && isHidden(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		ok, err := f.wants(p, info)
		if err != nil {
			return err
		}
		if ok {
			units = append(units, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", root, err)
	}

	logger.Debug().Str("root", root).Str("glob", f.glob).Int("units", len(units)).Msg("discovered files")
	return units, nil
}

func (f *FS) wants(p string, info os.FileInfo) (bool, error) {
	if f.glob != "" {
		return doublestar.Match(f.glob, filepath.ToSlash(p))
	}

	if isHidden(info.Name()) {
		return false, nil
	}

	for _, l := range f.languages {
		if l.MatchesPath(p) {
			return true, nil
		}
	}

	head, err := f.sniff(p)
	if err != nil {
		return false, err
	}
	for _, l := range f.languages {
		if l.Matches(p, head) {
			return true, nil
		}
	}
	return false, nil
}

func (f *FS) sniff(p string) ([]byte, error) {
	file, err := f.fs.Open(p)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", p, err)
	}
	defer file.Close()

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("reading %s: %w", p, err)
	}
	return head[:n], nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func (f *FS) GetUnit(ctx context.Context, p string) (io.ReadCloser, error) {
	file, err := f.fs.Open(p)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", p, err)
	}
	return file, nil
}

func (f *FS) Writable() bool {
	return true
}
