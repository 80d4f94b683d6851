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
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/scopegrep/pkg/langs"
)

func testTree(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"main.go":             "package main\n",
		"README.md":           "# hi\n",
		"scripts/run":         "#!/usr/bin/env python3\nprint(1)\n",
		"scripts/run.sh":      "#!/bin/sh\necho\n",
		"src/a.py":            "x = 1\n",
		"src/b/c.py":          "y = 2\n",
		".hidden/secret.py":   "z = 3\n",
		"src/.dot.py":         "w = 4\n",
		"vendor/lib/dep.go":   "package dep\n",
		"infra/main.tf":       "resource \"a\" \"b\" {}\n",
		"infra/.terraform/x.tf": "module \"m\" {}\n",
	}
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func mustLangs(t *testing.T, names ...string) []*langs.Language {
	t.Helper()
	out := make([]*langs.Language, 0, len(names))
	for _, n := range names {
		l, err := langs.Lookup(n)
		require.NoError(t, err)
		out = append(out, l)
	}
	return out
}

func TestFSListUnits(t *testing.T) {
	tests := []struct {
		name  string
		args  func(t *testing.T) Args
		want  []string
	}{
		{
			name: "python_by_extension_and_shebang",
			args: func(t *testing.T) Args { return Args{Languages: mustLangs(t, "python")} },
			want: []string{"scripts/run", "src/a.py", "src/b/c.py"},
		},
		{
			name: "go_skips_vendor",
			args: func(t *testing.T) Args { return Args{Languages: mustLangs(t, "go")} },
			want: []string{"main.go"},
		},
		{
			name: "hcl_skips_terraform_dir",
			args: func(t *testing.T) Args { return Args{Languages: mustLangs(t, "hcl")} },
			want: []string{"infra/main.tf"},
		},
		{
			name: "several_languages",
			args: func(t *testing.T) Args { return Args{Languages: mustLangs(t, "go", "python")} },
			want: []string{"main.go", "scripts/run", "src/a.py", "src/b/c.py"},
		},
		{
			name: "glob",
			args: func(t *testing.T) Args { return Args{Glob: "src/**/*.py"} },
			want: []string{"src/.dot.py", "src/a.py", "src/b/c.py"},
		},
		{
			name: "glob_with_dot_prefix",
			args: func(t *testing.T) Args { return Args{Glob: "./**/*.md"} },
			want: []string{"README.md"},
		},
		{
			name: "glob_missing_base",
			args: func(t *testing.T) Args { return Args{Glob: "nope/*.py"} },
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args(t)
			args.Fs = testTree(t)

			p, err := Get(context.Background(), "fs", args)
			require.NoError(t, err)
			assert.True(t, p.Writable())

			units, err := p.ListUnits(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, units)
		})
	}
}

func TestFSReadUnit(t *testing.T) {
	p, err := NewFS(Args{Fs: testTree(t), Glob: "**/*.go"})
	require.NoError(t, err)

	content, err := ReadUnit(context.Background(), p, "main.go")
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(content))

	_, err = ReadUnit(context.Background(), p, "missing.go")
	require.Error(t, err)
}

func TestNewFSErrors(t *testing.T) {
	_, err := NewFS(Args{Fs: afero.NewMemMapFs()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "glob or at least one language")

	_, err = NewFS(Args{Fs: afero.NewMemMapFs(), Glob: "[a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid glob")
}

func TestStdin(t *testing.T) {
	p, err := Get(context.Background(), "stdin", Args{Stdin: strings.NewReader("hello")})
	require.NoError(t, err)
	assert.False(t, p.Writable())

	units, err := p.ListUnits(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{StdinPath}, units)

	content, err := ReadUnit(context.Background(), p, StdinPath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	_, err = p.GetUnit(context.Background(), StdinPath)
	require.Error(t, err, "stdin can only be read once")

	_, err = p.GetUnit(context.Background(), "other")
	require.Error(t, err)
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"fs", "stdin"}, Names())

	_, err := Get(context.Background(), "github", Args{})
	require.Error(t, err)

	_, err = Get(context.Background(), "stdin", Args{})
	require.Error(t, err, "stdin needs a reader")
}
