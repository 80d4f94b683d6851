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

package operation

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/scopegrep/pkg/config"
	"github.com/walteh/scopegrep/pkg/span"
	"github.com/walteh/scopegrep/pkg/status"
	"gitlab.com/tozd/go/errors"
)

const pythonSource = `"""GNU is not Unix."""

GNU = "GNU"


def gnu():
    """Calls GNU."""
    return GNU
`

const rustSource = `use good_company::x;

fn main() {
    let s = "good_company is here";
}
`

func TestEngineProcess(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.Config
		unit       Unit
		wantOutput string
		wantStatus status.FileStatus
		wantReport []ReportLine
		wantLang   string
		wantErr    error
	}{
		{
			name: "python_doc_strings_only",
			cfg: config.Config{
				Scope:       "GNU",
				Replacement: ptr("GNU 🐂"),
				Languages:   []config.Language{{Name: "python", Queries: []string{"doc-strings"}}},
			},
			unit: Unit{Path: "gnu.py", Content: pythonSource},
			wantOutput: `"""GNU 🐂 is not Unix."""

GNU = "GNU"


def gnu():
    """Calls GNU 🐂."""
    return GNU
`,
			wantStatus: status.StatusModified,
			wantLang:   "python",
		},
		{
			name: "rust_uses_only",
			cfg: config.Config{
				Scope:       "^good_company",
				Replacement: ptr("better_company"),
				Languages:   []config.Language{{Name: "rust", Queries: []string{"uses"}}},
			},
			unit: Unit{Path: "main.rs", Content: rustSource},
			wantOutput: `use better_company::x;

fn main() {
    let s = "good_company is here";
}
`,
			wantStatus: status.StatusModified,
			wantLang:   "rust",
		},
		{
			name:       "zero_matches_is_unchanged",
			cfg:        config.Config{Scope: "nothing here"},
			unit:       Unit{Content: "abc\n"},
			wantOutput: "abc\n",
			wantStatus: status.StatusUnchanged,
		},
		{
			name:       "fail_any",
			cfg:        config.Config{Scope: "b", FailAny: true, Actions: config.Actions{Upper: true}},
			unit:       Unit{Content: "abc"},
			wantOutput: "abc",
			wantStatus: status.StatusFailed,
			wantErr:    ErrFailAny,
		},
		{
			name:       "fail_any_without_match",
			cfg:        config.Config{Scope: "z", FailAny: true},
			unit:       Unit{Content: "abc"},
			wantOutput: "abc",
			wantStatus: status.StatusUnchanged,
		},
		{
			name:       "search_mode_reports_lines",
			cfg:        config.Config{Scope: "b+"},
			unit:       Unit{Path: "x.txt", Content: "abb\nc\nb"},
			wantOutput: "abb\nc\nb",
			wantStatus: status.StatusMatched,
			wantReport: []ReportLine{
				{Number: 1, Text: "abb", Ranges: span.Ranges{{Start: 1, End: 3}}},
				{Number: 3, Text: "b", Ranges: span.Ranges{{Start: 0, End: 1}}},
			},
		},
		{
			name: "language_does_not_fit",
			cfg: config.Config{
				Actions:   config.Actions{Upper: true},
				Languages: []config.Language{{Name: "go", Queries: []string{"comments"}}},
			},
			unit:       Unit{Path: "a.py", Content: "# hi\n"},
			wantOutput: "# hi\n",
			wantStatus: status.StatusSkipped,
		},
		{
			name:       "crlf_numbered_capture",
			cfg:        config.Config{Scope: "(.*)", Replacement: ptr("[$1]")},
			unit:       Unit{Content: "a\r\nb"},
			wantOutput: "[a]\r\n[b]",
			wantStatus: status.StatusModified,
		},
		{
			name:       "crlf_whole_match",
			cfg:        config.Config{Scope: ".*", Replacement: ptr("[$0]")},
			unit:       Unit{Content: "a\r\nb"},
			wantOutput: "[a]\r\n[b]",
			wantStatus: status.StatusModified,
		},
		{
			name:       "backtracking_groups_numbered_in_order",
			cfg:        config.Config{Scope: "(?<=x)(?<n>a)(b)", Replacement: ptr("[$1|$2|${n}]")},
			unit:       Unit{Content: "xab"},
			wantOutput: "x[a|b|a]",
			wantStatus: status.StatusModified,
		},
		{
			name: "stdin_uses_first_language",
			cfg: config.Config{
				Actions:   config.Actions{Upper: true},
				Languages: []config.Language{{Name: "python", Queries: []string{"comments"}}},
			},
			unit:       Unit{Content: "x = 1  # note\n"},
			wantOutput: "x = 1  # NOTE\n",
			wantStatus: status.StatusModified,
			wantLang:   "python",
		},
		{
			name: "joined_language_scopes",
			cfg: config.Config{
				Actions:            config.Actions{Upper: true},
				Languages:          []config.Language{{Name: "python", Queries: []string{"comments", "strings"}}},
				JoinLanguageScopes: true,
			},
			unit:       Unit{Path: "a.py", Content: "x = 'abc'  # def\ny = 1\n"},
			wantOutput: "x = 'ABC'  # DEF\ny = 1\n",
			wantStatus: status.StatusModified,
			wantLang:   "python",
		},
		{
			name: "intersected_language_scopes",
			cfg: config.Config{
				Actions:   config.Actions{Upper: true},
				Languages: []config.Language{{Name: "python", Queries: []string{"comments", "strings"}}},
			},
			unit:       Unit{Path: "a.py", Content: "x = 'abc'  # def\n"},
			wantOutput: "x = 'abc'  # def\n",
			wantStatus: status.StatusUnchanged,
			wantLang:   "python",
		},
		{
			name:       "literal_scope",
			cfg:        config.Config{Scope: "a.b", Literal: true, Replacement: ptr("[$0]")},
			unit:       Unit{Content: "a.b axb"},
			wantOutput: "[a.b] axb",
			wantStatus: status.StatusModified,
		},
		{
			name: "per_group",
			cfg: config.Config{
				Scope:       `(\w+)=(\w+)`,
				PerGroup:    true,
				Replacement: ptr("x"),
			},
			unit:       Unit{Content: "key=value;"},
			wantOutput: "x=x;",
			wantStatus: status.StatusModified,
		},
		{
			name:       "global_scope_action",
			cfg:        config.Config{Actions: config.Actions{Symbols: true}},
			unit:       Unit{Content: "a -> b"},
			wantOutput: "a → b",
			wantStatus: status.StatusModified,
		},
		{
			name:       "action_without_visible_change",
			cfg:        config.Config{Scope: "[A-Z]", Actions: config.Actions{Upper: true}},
			unit:       Unit{Content: "ABc"},
			wantOutput: "ABc",
			wantStatus: status.StatusUnchanged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			cfg := tt.cfg
			require.NoError(t, cfg.Validate())

			engine, err := NewEngine(ctx, &cfg, afero.NewMemMapFs())
			require.NoError(t, err)

			res := engine.Process(ctx, tt.unit)
			assert.Equal(t, tt.wantStatus, res.Status, "status")
			assert.Equal(t, tt.wantOutput, res.Output, "output")
			assert.Equal(t, tt.wantLang, res.Language, "language")
			assert.Equal(t, tt.wantReport, res.Report, "report")
			if tt.wantErr != nil {
				require.Error(t, res.Err)
				assert.True(t, errors.Is(res.Err, tt.wantErr), "got %v", res.Err)
			} else {
				assert.NoError(t, res.Err)
			}
		})
	}
}

func TestNewEngineErrors(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.Config
		errContains string
	}{
		{
			name:        "bad_regex",
			cfg:         config.Config{Scope: "(", Actions: config.Actions{Upper: true}},
			errContains: "compiling scope",
		},
		{
			name:        "delete_without_scope",
			cfg:         config.Config{Actions: config.Actions{Delete: true}},
			errContains: "building actions",
		},
		{
			name:        "unknown_group",
			cfg:         config.Config{Scope: "(a)", Replacement: ptr("$2")},
			errContains: "building actions",
		},
		{
			name: "bad_custom_query",
			cfg: config.Config{
				Languages: []config.Language{{Name: "go", Custom: []string{"(nope"}}},
			},
			errContains: "custom query",
		},
		{
			name: "missing_german_words",
			cfg: config.Config{
				Actions: config.Actions{German: &config.German{Words: "missing.txt"}},
			},
			errContains: "german words",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(testContext(t), &tt.cfg, afero.NewMemMapFs())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestEngineGermanWordsFile(t *testing.T) {
	ctx := testContext(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "words.txt", []byte("# extra\nSchröder\n"), 0o644))

	cfg := config.Config{Actions: config.Actions{German: &config.German{Words: "words.txt"}}}
	require.NoError(t, cfg.Validate())

	engine, err := NewEngine(ctx, &cfg, fs)
	require.NoError(t, err)

	res := engine.Process(ctx, Unit{Content: "Herr Schroeder ist gruen"})
	require.NoError(t, res.Err)
	assert.Equal(t, "Herr Schröder ist grün", res.Output)
}

func TestPlanStepsFor(t *testing.T) {
	ctx := testContext(t)
	cfg := config.Config{
		Scope:              "x",
		Languages:          []config.Language{{Name: "go", Queries: []string{"comments", "strings"}}},
		JoinLanguageScopes: true,
	}
	require.NoError(t, cfg.Validate())
	engine, err := NewEngine(ctx, &cfg, afero.NewMemMapFs())
	require.NoError(t, err)

	steps, lang, ok := engine.Plan().StepsFor(Unit{Path: "main.go"})
	require.True(t, ok)
	assert.Equal(t, "go", lang)
	require.Len(t, steps, 3)
	assert.Equal(t, ModeIntersect, steps[0].Mode)
	assert.Equal(t, ModeUnion, steps[1].Mode)
	assert.Equal(t, ModeIntersect, steps[2].Mode)
	assert.Equal(t, "scope", steps[2].Name)

	_, _, ok = engine.Plan().StepsFor(Unit{Path: "main.rs"})
	assert.False(t, ok)

	assert.True(t, engine.Plan().Scoped())
	assert.True(t, engine.Plan().Search())
}
