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
	"sort"

	"github.com/spf13/afero"
	"github.com/walteh/scopegrep/pkg/langs"
	"gitlab.com/tozd/go/errors"
)

// StdinPath is the unit name of standard input
const StdinPath = ""

// 🔌 Provider lists and opens input units
type Provider interface {
	// 📂 ListUnits returns the inputs in discovery order
	ListUnits(ctx context.Context) ([]string, error)

	// 📄 GetUnit opens one input
	GetUnit(ctx context.Context, path string) (io.ReadCloser, error)

	// ✍️ Writable reports whether results belong back in the inputs
	Writable() bool
}

// 📦 Args configures a provider
type Args struct {
	// Fs is the filesystem files are discovered on
	Fs afero.Fs
	// Root is where discovery starts, "." when empty
	Root string
	// Glob selects files explicitly; hidden files are included then
	Glob string
	// Languages filter discovered files when no glob is given
	Languages []*langs.Language
	// Stdin is read by the stdin provider
	Stdin io.Reader
}

type Factory func(ctx context.Context, args Args) (Provider, error)

var (
	// 🗺️ providers is a map of provider names to factories
	providers = make(map[string]Factory)
)

func Register(name string, factory Factory) {
	providers[name] = factory
}

// Get builds the named provider
func Get(ctx context.Context, name string, args Args) (Provider, error) {
	factory, ok := providers[name]
	if !ok {
		return nil, errors.Errorf("unknown provider: %s", name)
	}
	return factory(ctx, args)
}

// Names lists registered providers
func Names() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReadUnit reads a whole unit
func ReadUnit(ctx context.Context, p Provider, path string) ([]byte, error) {
	rc, err := p.GetUnit(ctx, path)
	if err != nil {
		return nil, errors.Errorf("opening %q: %w", path, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Errorf("reading %q: %w", path, err)
	}
	return content, nil
}
