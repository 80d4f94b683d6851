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

package config

import (
	"context"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "valid_yaml",
			filename: "run.yaml",
			config: `
scope: '\w+'
replacement: x
languages:
  - name: py
    queries: [comments, strings]
  - name: go
    custom: ['(comment) @c']
join_language_scopes: true
actions:
  upper: true
  german:
    prefer_original: true
glob: "**/*.py"
fail_any: true
threads: 3
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, `\w+`, cfg.Scope, "scope should match")
				require.NotNil(t, cfg.Replacement, "replacement should be set")
				assert.Equal(t, "x", *cfg.Replacement, "replacement should match")
				require.Len(t, cfg.Languages, 2, "should have 2 languages")
				assert.Equal(t, "python", cfg.Languages[0].Name, "alias should be resolved")
				assert.Equal(t, []string{"comments", "strings"}, cfg.Languages[0].Queries)
				assert.Equal(t, []string{"(comment) @c"}, cfg.Languages[1].Custom)
				assert.True(t, cfg.JoinLanguageScopes, "join should be true")
				assert.True(t, cfg.Actions.Upper, "upper should be true")
				require.NotNil(t, cfg.Actions.German, "german should be enabled")
				assert.True(t, cfg.Actions.German.PreferOriginal)
				assert.Equal(t, "**/*.py", cfg.Glob)
				assert.True(t, cfg.FailAny)
				assert.Equal(t, 3, cfg.Threads, "threads should be kept")
			},
		},
		{
			name:     "minimal_yaml",
			filename: "run.yml",
			config:   "scope: foo\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "foo", cfg.Scope)
				assert.Nil(t, cfg.Replacement, "replacement should be nil")
				assert.Nil(t, cfg.Actions.German, "german should be disabled")
				assert.Equal(t, runtime.NumCPU(), cfg.Threads, "threads should default to cpu count")
			},
		},
		{
			name:     "empty_replacement_is_kept",
			filename: "run.yaml",
			config:   "scope: foo\nreplacement: \"\"\n",
			check: func(t *testing.T, cfg *Config) {
				require.NotNil(t, cfg.Replacement)
				assert.Equal(t, "", *cfg.Replacement)
			},
		},
		{
			name:     "valid_json",
			filename: "run.json",
			config:   `{"scope": "a", "literal": true, "actions": {"delete": true}, "sorted": true}`,
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Literal)
				assert.True(t, cfg.Actions.Delete)
				assert.True(t, cfg.Sorted)
			},
		},
		{
			name:        "unknown_yaml_field",
			filename:    "run.yaml",
			config:      "scope: a\nnope: true\n",
			wantErr:     true,
			errContains: "nope",
		},
		{
			name:        "unknown_json_field",
			filename:    "run.json",
			config:      `{"nope": true}`,
			wantErr:     true,
			errContains: "nope",
		},
		{
			name:        "unknown_language",
			filename:    "run.yaml",
			config:      "languages:\n  - name: cobol\n    queries: [comments]\n",
			wantErr:     true,
			errContains: "cobol",
		},
		{
			name:        "unknown_query",
			filename:    "run.yaml",
			config:      "languages:\n  - name: go\n    queries: [nope]\n",
			wantErr:     true,
			errContains: "nope",
		},
		{
			name:        "language_without_queries",
			filename:    "run.yaml",
			config:      "languages:\n  - name: go\n",
			wantErr:     true,
			errContains: "no queries",
		},
		{
			name:        "empty_literal",
			filename:    "run.yaml",
			config:      "literal: true\n",
			wantErr:     true,
			errContains: "literal",
		},
		{
			name:        "conflicting_fail_flags",
			filename:    "run.yaml",
			config:      "fail_any: true\nfail_none: true\n",
			wantErr:     true,
			errContains: "fail_any",
		},
		{
			name:        "negative_threads",
			filename:    "run.yaml",
			config:      "threads: -1\n",
			wantErr:     true,
			errContains: "threads",
		},
		{
			name:        "bad_glob",
			filename:    "run.yaml",
			config:      "glob: '[a'\n",
			wantErr:     true,
			errContains: "glob",
		},
		{
			name:        "no_parser",
			filename:    "run.toml",
			config:      "scope = 'a'",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, tt.filename, []byte(tt.config), 0o644))

			cfg, err := Load(ctx, fs, tt.filename)
			if tt.wantErr {
				require.Error(t, err, "Load should fail")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Load should succeed")
			require.NotNil(t, cfg, "config should not be nil")
			tt.check(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), afero.NewMemMapFs(), "missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestValidateErrorsAreTyped(t *testing.T) {
	cfg := &Config{Threads: -2}
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestConfigString(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "global", cfg: Config{}, want: "global"},
		{name: "regex", cfg: Config{Scope: "a+"}, want: `regex "a+"`},
		{name: "literal", cfg: Config{Scope: "a+", Literal: true}, want: `literal "a+"`},
		{
			name: "languages_and_regex",
			cfg: Config{
				Scope:     "x",
				Languages: []Language{{Name: "python", Queries: []string{"comments"}, Custom: []string{"(a) @a"}}},
			},
			want: `python(comments,custom) & regex "x"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.String())
		})
	}
}

func TestScoped(t *testing.T) {
	assert.False(t, (&Config{}).Scoped())
	assert.True(t, (&Config{Scope: "a"}).Scoped())
	assert.True(t, (&Config{Languages: []Language{{Name: "go"}}}).Scoped())
}
