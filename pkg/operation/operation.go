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

	"github.com/rs/zerolog"
	"github.com/walteh/scopegrep/pkg/scoping"
	"github.com/walteh/scopegrep/pkg/span"
	"gitlab.com/tozd/go/errors"
)

// 🔀 Mode is how a scoping step combines with the view built so far
type Mode int

const (
	// ModeIntersect narrows the current scope to the step's matches
	ModeIntersect Mode = iota
	// ModeUnion adds the step's matches to the current scope
	ModeUnion
)

func (m Mode) String() string {
	if m == ModeUnion {
		return "union"
	}
	return "intersect"
}

// 🪜 Step is one scoping pass
type Step struct {
	Name   string
	Scoper scoping.Scoper
	Mode   Mode
}

// Warnings are recoverable problems met while scoping a unit, such as input
// a grammar could not parse
type Warnings []error

// 🏗️ BuildView applies steps in order to a fresh view over input. Without
// steps the view keeps the global scope. Parse failures are collected as
// warnings and leave the affected text out of scope; any other failure is
// returned.
func BuildView(ctx context.Context, input string, steps []Step) (*scoping.View, Warnings, error) {
	logger := zerolog.Ctx(ctx)
	view := scoping.NewView(input)

	var warnings Warnings
	for i, step := range steps {
		var err error
		switch step.Mode {
		case ModeUnion:
			err = view.Union(ctx, step.Scoper)
		default:
			err = view.Intersect(ctx, step.Scoper)
		}

		if err != nil {
			if !errors.Is(err, scoping.ErrParse) {
				return nil, warnings, errors.Errorf("step %d (%s): %w", i, step.Name, err)
			}
			warnings = append(warnings, err)
		}

		logger.Trace().
			Int("step", i).
			Str("name", step.Name).
			Stringer("mode", step.Mode).
			Stringer("state", view.State()).
			Int("in_scope_bytes", view.InScopeBytes()).
			Msg("applied scope")
	}

	return view, warnings, nil
}

// 🎨 Render squeezes the view if asked and maps every action over it in
// order. A view with nothing in scope is returned as is and hadMatch is
// false; no action runs in that case.
func Render(view *scoping.View, pipeline []scoping.Action, squeeze bool) (output string, hadMatch bool, err error) {
	if view.IsEmptyScope() {
		return view.String(), false, nil
	}

	if squeeze {
		view.Squeeze()
	}
	for _, action := range pipeline {
		if err := view.Map(action); err != nil {
			return "", true, errors.Errorf("rendering: %w", err)
		}
	}
	return view.String(), true, nil
}

// 📋 ReportLine is a line holding at least one in-scope byte. Ranges are
// byte offsets into Text.
type ReportLine struct {
	Number int
	Text   string
	Ranges span.Ranges
}

// 🔎 SearchReport lists, in input order, every line that has in-scope text
// together with the in-scope parts of it. Line breaks are not part of Text.
func SearchReport(view *scoping.View) []ReportLine {
	input := view.String()
	ranges := view.InScopeRanges()

	var lines []ReportLine
	next := 0
	for number, start := 1, 0; ; number++ {
		end := strings.IndexByte(input[start:], '\n')
		if end < 0 {
			end = len(input)
		} else {
			end += start
		}
		line := span.Span{Start: start, End: end}

		// ranges ending before this line are done
		for next < len(ranges) && ranges[next].End <= line.Start {
			next++
		}

		var hits span.Ranges
		for i := next; i < len(ranges) && ranges[i].Start < line.End; i++ {
			if clipped, ok := ranges[i].Intersect(line); ok {
				hits = append(hits, clipped.Shift(-line.Start))
			}
		}

		text := strings.TrimSuffix(input[line.Start:line.End], "\r")
		if hits = hits.Clip(span.Span{Start: 0, End: len(text)}); len(hits) > 0 {
			lines = append(lines, ReportLine{Number: number, Text: text, Ranges: hits})
		}

		if end == len(input) {
			break
		}
		start = end + 1
	}
	return lines
}
