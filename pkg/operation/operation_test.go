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
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/scopegrep/pkg/actions"
	"github.com/walteh/scopegrep/pkg/scoping"
	"github.com/walteh/scopegrep/pkg/span"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel).WithContext(context.Background())
}

func failingScoper(err error) scoping.Scoper {
	return scoping.ScoperFunc(func(context.Context, string) ([]scoping.Match, error) {
		return nil, err
	})
}

func TestBuildView(t *testing.T) {
	parseErr := errors.Errorf("%w: broken", scoping.ErrParse)

	tests := []struct {
		name         string
		input        string
		steps        []Step
		wantInScope  span.Ranges
		wantWarnings int
		wantErr      bool
	}{
		{
			name:        "no_steps_is_global",
			input:       "abc",
			wantInScope: span.Ranges{{Start: 0, End: 3}},
		},
		{
			name:  "intersect_narrows",
			input: "a1b22c",
			steps: []Step{
				{Name: "digits", Scoper: scoping.MustRegex(`\d+`)},
			},
			wantInScope: span.Ranges{{Start: 1, End: 2}, {Start: 3, End: 5}},
		},
		{
			name:  "intersect_twice",
			input: "foo_bar baz_qux",
			steps: []Step{
				{Scoper: scoping.MustRegex(`\w+`)},
				{Scoper: scoping.MustRegex(`_\w`)},
			},
			wantInScope: span.Ranges{{Start: 3, End: 5}, {Start: 11, End: 13}},
		},
		{
			name:  "union_adds",
			input: "one two three",
			steps: []Step{
				{Scoper: scoping.MustRegex(`one`)},
				{Scoper: scoping.MustRegex(`three`), Mode: ModeUnion},
			},
			wantInScope: span.Ranges{{Start: 0, End: 3}, {Start: 8, End: 13}},
		},
		{
			name:  "parse_failure_is_a_warning",
			input: "abc",
			steps: []Step{
				{Scoper: failingScoper(parseErr)},
			},
			wantWarnings: 1,
		},
		{
			name:  "other_failure_is_an_error",
			input: "abc",
			steps: []Step{
				{Scoper: failingScoper(errors.New("boom"))},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, warnings, err := BuildView(testContext(t), tt.input, tt.steps)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "boom")
				return
			}
			require.NoError(t, err)
			assert.Len(t, warnings, tt.wantWarnings)
			assert.Equal(t, tt.input, view.String(), "view must cover the input")
			assert.Equal(t, tt.wantInScope, view.InScopeRanges())
			assert.Equal(t, len(tt.steps), view.State().Steps())
		})
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		pattern   string
		opts      actions.Options
		wantOut   string
		wantMatch bool
	}{
		{
			name:      "replace",
			input:     "Hello, World!",
			pattern:   "[a-z]",
			opts:      actions.Options{Replacement: ptr("_")},
			wantOut:   "H____, W____!",
			wantMatch: true,
		},
		{
			name:      "delete",
			input:     "Hello, World!",
			pattern:   "(H|W|!)",
			opts:      actions.Options{Delete: true},
			wantOut:   "ello, orld",
			wantMatch: true,
		},
		{
			name:      "squeeze",
			input:     "Helloooo Woooorld!!!",
			pattern:   "(o|!)",
			opts:      actions.Options{Squeeze: true},
			wantOut:   "Hello World!",
			wantMatch: true,
		},
		{
			name:      "squeeze_then_upper",
			input:     "a\n\n\nb",
			pattern:   `\n`,
			opts:      actions.Options{Squeeze: true, Upper: true},
			wantOut:   "a\nb",
			wantMatch: true,
		},
		{
			name:    "nothing_in_scope_is_untouched",
			input:   "Hello",
			pattern: "[0-9]",
			opts:    actions.Options{Delete: true},
			wantOut: "Hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			pipeline, err := actions.Build(tt.opts, true)
			require.NoError(t, err)

			view, _, err := BuildView(ctx, tt.input, []Step{{Scoper: scoping.MustRegex(tt.pattern)}})
			require.NoError(t, err)

			out, hadMatch, err := Render(view, pipeline, tt.opts.Squeeze)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOut, out)
			assert.Equal(t, tt.wantMatch, hadMatch)
		})
	}
}

func TestRenderSqueezeIsIdempotent(t *testing.T) {
	ctx := testContext(t)
	input := "aa  bb    cc"

	once, _, err := BuildView(ctx, input, []Step{{Scoper: scoping.MustRegex(" ")}})
	require.NoError(t, err)
	first, _, err := Render(once, nil, true)
	require.NoError(t, err)

	twice, _, err := BuildView(ctx, input, []Step{{Scoper: scoping.MustRegex(" ")}})
	require.NoError(t, err)
	twice.Squeeze()
	second, _, err := Render(twice, nil, true)
	require.NoError(t, err)

	assert.Equal(t, "aa bb cc", first)
	assert.Equal(t, first, second)
}

func TestRenderActionError(t *testing.T) {
	view := scoping.NewView("x")
	boom := scoping.ActionFunc(func(string, scoping.Captures) (string, error) {
		return "", errors.New("boom")
	})

	_, hadMatch, err := Render(view, []scoping.Action{boom}, false)
	require.Error(t, err)
	assert.True(t, hadMatch)
	assert.Equal(t, "x", view.String(), "failed action leaves the view unchanged")
}

func TestSearchReport(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		pattern string
		want    []ReportLine
	}{
		{
			name:    "lines_with_matches",
			input:   "a GNU\nb\nGNU c GNU",
			pattern: "GNU",
			want: []ReportLine{
				{Number: 1, Text: "a GNU", Ranges: span.Ranges{{Start: 2, End: 5}}},
				{Number: 3, Text: "GNU c GNU", Ranges: span.Ranges{{Start: 0, End: 3}, {Start: 6, End: 9}}},
			},
		},
		{
			name:    "match_spanning_lines",
			input:   "ab\ncd\nef",
			pattern: `b\ncd\ne`,
			want: []ReportLine{
				{Number: 1, Text: "ab", Ranges: span.Ranges{{Start: 1, End: 2}}},
				{Number: 2, Text: "cd", Ranges: span.Ranges{{Start: 0, End: 2}}},
				{Number: 3, Text: "ef", Ranges: span.Ranges{{Start: 0, End: 1}}},
			},
		},
		{
			name:    "crlf_is_not_reported",
			input:   "x\r\ny\r\n",
			pattern: `y`,
			want: []ReportLine{
				{Number: 2, Text: "y", Ranges: span.Ranges{{Start: 0, End: 1}}},
			},
		},
		{
			name:    "only_newline_in_scope",
			input:   "a\nb",
			pattern: `\n`,
			want:    nil,
		},
		{
			name:    "no_match",
			input:   "abc",
			pattern: "z",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, _, err := BuildView(testContext(t), tt.input, []Step{{Scoper: scoping.MustRegex(tt.pattern)}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, SearchReport(view))
		})
	}
}

func TestCoverageInvariant(t *testing.T) {
	inputs := []string{"", "x", "Hello, World!", "a\r\nb\r\n", "äöü ß", strings.Repeat("ab ", 50)}
	patterns := []string{`.`, `\w+`, `(a)|(b)`, `\s`, `$`, `x*`}

	for _, input := range inputs {
		for _, pattern := range patterns {
			view, _, err := BuildView(testContext(t), input, []Step{
				{Scoper: scoping.MustRegex(pattern)},
				{Scoper: scoping.MustRegex(`[^ ]`), Mode: ModeUnion},
			})
			require.NoError(t, err)
			assert.Equal(t, input, view.String(), "pattern %q over %q", pattern, input)
		}
	}
}

func ptr(s string) *string { return &s }
