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
	"sync"

	"gitlab.com/tozd/go/errors"
)

func init() {
	Register("stdin", func(ctx context.Context, args Args) (Provider, error) {
		return NewStdin(args.Stdin)
	})
}

// 📥 Stdin provides a single unit read from a stream. The stream can be
// opened once.
type Stdin struct {
	r    io.Reader
	once sync.Once
}

func NewStdin(r io.Reader) (*Stdin, error) {
	if r == nil {
		return nil, errors.New("stdin provider needs a reader")
	}
	return &Stdin{r: r}, nil
}

func (s *Stdin) ListUnits(ctx context.Context) ([]string, error) {
	return []string{StdinPath}, nil
}

func (s *Stdin) GetUnit(ctx context.Context, path string) (io.ReadCloser, error) {
	if path != StdinPath {
		return nil, errors.Errorf("stdin has no unit %q", path)
	}

	var rc io.ReadCloser
	s.once.Do(func() {
		rc = io.NopCloser(s.r)
	})
	if rc == nil {
		return nil, errors.New("stdin was already consumed")
	}
	return rc, nil
}

func (s *Stdin) Writable() bool {
	return false
}
