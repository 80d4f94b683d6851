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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHCLParser(t *testing.T) {
	p := &HCLParser{Environ: func() []string {
		return []string{"AUTHOR=walteh", "WITH-DASH=x", "=skipped"}
	}}

	tests := []struct {
		name        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "full",
			config: `
scope       = "TODO"
replacement = format("TODO(%s)", env.AUTHOR)

language "python" {
  queries = ["comments"]
}

language "rust" {
  queries = ["comments", "doc-comments"]
  custom  = ["(line_comment) @c"]
}

join_language_scopes = true

actions {
  upper = true
  german {
    naive = true
  }
}

fail_none = true
threads   = 2
per_group = true
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "TODO", cfg.Scope)
				require.NotNil(t, cfg.Replacement)
				assert.Equal(t, "TODO(walteh)", *cfg.Replacement, "env and functions should evaluate")
				require.Len(t, cfg.Languages, 2)
				assert.Equal(t, "python", cfg.Languages[0].Name)
				assert.Equal(t, []string{"comments", "doc-comments"}, cfg.Languages[1].Queries)
				assert.Equal(t, []string{"(line_comment) @c"}, cfg.Languages[1].Custom)
				assert.True(t, cfg.JoinLanguageScopes)
				assert.True(t, cfg.Actions.Upper)
				require.NotNil(t, cfg.Actions.German)
				assert.True(t, cfg.Actions.German.Naive)
				assert.True(t, cfg.FailNone)
				assert.Equal(t, 2, cfg.Threads)
				assert.True(t, cfg.PerGroup)
			},
		},
		{
			name:   "no_replacement_is_nil",
			config: `scope = "a"`,
			check: func(t *testing.T, cfg *Config) {
				assert.Nil(t, cfg.Replacement)
				assert.Nil(t, cfg.Actions.German)
				assert.False(t, cfg.Actions.Upper)
			},
		},
		{
			name:   "functions",
			config: `scope = lower("ABC")` + "\n" + `replacement = upper(join("-", ["a", "b"]))`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "abc", cfg.Scope)
				assert.Equal(t, "A-B", *cfg.Replacement)
			},
		},
		{
			name:        "syntax_error",
			config:      `scope = `,
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name:        "unknown_attribute",
			config:      `nope = true`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name:        "unknown_env",
			config:      `scope = env.MISSING`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name:        "invalid_language",
			config:      "language \"cobol\" {\n  queries = [\"comments\"]\n}\n",
			wantErr:     true,
			errContains: "cobol",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := p.Parse(context.Background(), []byte(tt.config))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestGetParser(t *testing.T) {
	tests := []struct {
		filename string
		want     Parser
	}{
		{filename: "a.yaml", want: &YAMLParser{}},
		{filename: "a.yml", want: &YAMLParser{}},
		{filename: "a.hcl", want: &HCLParser{}},
		{filename: "A.JSON", want: &JSONParser{}},
		{filename: "a.toml", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}
