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

package scoping

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/scopegrep/pkg/span"
	"gitlab.com/tozd/go/errors"
)

// 📜 State records the scoping history of a view
type State struct {
	steps int
}

// NeverScoped is true for a view that still covers the whole input as the
// global scope
func (s State) NeverScoped() bool {
	return s.steps == 0
}

// Steps is the number of scoping passes applied
func (s State) Steps() int {
	return s.steps
}

func (s State) String() string {
	if s.NeverScoped() {
		return "never scoped"
	}
	return fmt.Sprintf("scoped(%d)", s.steps)
}

// 🔭 View partitions its text into in-scope and out-of-scope segments.
// Concatenating all segments always yields the current text.
type View struct {
	segments []Segment
	state    State
}

// 🏭 NewView wraps input in the global scope: a single in-scope segment
func NewView(input string) *View {
	return &View{segments: []Segment{{Scope: In, Text: input}}}
}

// 🏭 FromScoper builds a view holding exactly the scoper's matches in scope.
// Zero matches yield a single out-of-scope segment.
func FromScoper(ctx context.Context, input string, scoper Scoper) (*View, error) {
	v := NewView(input)
	if err := v.Intersect(ctx, scoper); err != nil {
		return v, err
	}
	return v, nil
}

// 🏭 FromSegments builds a view from an explicit partition
func FromSegments(segments []Segment) *View {
	v := &View{segments: compact(segments), state: State{steps: 1}}
	return v
}

func (v *View) State() State {
	return v.state
}

// Segments returns a copy of the partition
func (v *View) Segments() []Segment {
	out := make([]Segment, len(v.segments))
	copy(out, v.segments)
	return out
}

func (v *View) String() string {
	var b strings.Builder
	for _, s := range v.segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// HasAnyInScope reports whether at least one segment is in scope
func (v *View) HasAnyInScope() bool {
	for _, s := range v.segments {
		if s.Scope == In {
			return true
		}
	}
	return false
}

// IsEmptyScope is the negation of HasAnyInScope
func (v *View) IsEmptyScope() bool {
	return !v.HasAnyInScope()
}

// InScopeBytes counts the bytes currently in scope
func (v *View) InScopeBytes() int {
	n := 0
	for _, s := range v.segments {
		if s.Scope == In {
			n += len(s.Text)
		}
	}
	return n
}

// 📍 InScopeRanges returns the offsets of in-scope segments in String()
func (v *View) InScopeRanges() span.Ranges {
	var r span.Ranges
	offset := 0
	for _, s := range v.segments {
		if s.Scope == In {
			r = append(r, span.Span{Start: offset, End: offset + len(s.Text)})
		}
		offset += len(s.Text)
	}
	return r
}

// ✂️ Intersect narrows every in-scope segment to the scoper's matches inside
// it. Out-of-scope segments are never searched. A parse failure turns the
// affected segment out of scope and is returned (wrapping ErrParse) after the
// whole view was processed; any other error leaves the view untouched.
func (v *View) Intersect(ctx context.Context, scoper Scoper) error {
	before := v.String()

	var parseErr error
	next := make([]Segment, 0, len(v.segments))
	for _, seg := range v.segments {
		if seg.Scope == Out {
			next = append(next, seg)
			continue
		}

		matches, err := scoper.Scope(ctx, seg.Text)
		if err != nil {
			if !errors.Is(err, ErrParse) {
				return errors.Errorf("scoping segment: %w", err)
			}
			zerolog.Ctx(ctx).Warn().Err(err).Msg("segment could not be parsed, treating as no match")
			if parseErr == nil {
				parseErr = err
			}
			matches = nil
		}

		next = append(next, partition(seg.Text, matches)...)
	}

	v.replace(before, next)
	v.state.steps++
	if parseErr != nil {
		return errors.Errorf("intersecting scope: %w", parseErr)
	}
	return nil
}

// 🔗 Union runs the scoper over the whole current text and brings every
// newly matched byte into scope. In-scope segments are never split, merged
// or demoted; new matches are clipped to the out-of-scope segments they hit.
func (v *View) Union(ctx context.Context, scoper Scoper) error {
	before := v.String()

	matches, err := scoper.Scope(ctx, before)
	if err != nil {
		if errors.Is(err, ErrParse) {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("input could not be parsed, union adds nothing")
			v.state.steps++
		}
		return errors.Errorf("joining scope: %w", err)
	}

	next := make([]Segment, 0, len(v.segments))
	offset := 0
	for _, seg := range v.segments {
		window := span.Span{Start: offset, End: offset + len(seg.Text)}
		offset = window.End

		if seg.Scope == In {
			next = append(next, seg)
			continue
		}

		var local []Match
		for _, m := range matches {
			clipped, ok := m.Span.Intersect(window)
			if !ok {
				continue
			}
			lm := Match{Span: clipped.Shift(-window.Start)}
			if clipped == m.Span {
				lm.Captures = m.Captures
				lm.Groups = shiftGroups(m.Groups, -window.Start)
			}
			local = append(local, lm)
		}
		next = append(next, partition(seg.Text, local)...)
	}

	v.replace(before, next)
	v.state.steps++
	return nil
}

// 🪄 Map applies the action to every in-scope segment. Out-of-scope text is
// passed through byte for byte. On error the view is left unchanged.
func (v *View) Map(action Action) error {
	next := make([]Segment, len(v.segments))
	for i, seg := range v.segments {
		next[i] = seg
		if seg.Scope == Out {
			continue
		}
		out, err := action.Act(seg.Text, seg.Captures)
		if err != nil {
			return errors.Errorf("applying action to %q: %w", seg.Text, err)
		}
		next[i].Text = out
		next[i].groups = nil
	}
	v.segments = next
	return nil
}

// 🗜️ Squeeze drops every in-scope segment that directly follows another
// in-scope segment, so runs of matches collapse to their first occurrence.
func (v *View) Squeeze() {
	next := make([]Segment, 0, len(v.segments))
	prevIn := false
	for _, seg := range v.segments {
		isIn := seg.Scope == In
		if !(prevIn && isIn) {
			next = append(next, seg)
		}
		prevIn = isIn
	}
	v.segments = compact(next)
}

// 💥 ExplodeCaptures splits every in-scope segment that came from a match with
// capture groups into its captured parts (in scope) and the text between them
// (out of scope). Groups that did not participate contribute nothing; nested
// groups are covered by their outermost group. Each part keeps the captures
// of the whole match.
func (v *View) ExplodeCaptures() {
	before := v.String()

	next := make([]Segment, 0, len(v.segments))
	for _, seg := range v.segments {
		if seg.Scope == Out || !hasSubgroups(seg.groups) {
			next = append(next, seg)
			continue
		}

		var candidates span.Ranges
		for _, g := range seg.groups {
			if g.Number != 0 && !g.Span.IsEmpty() {
				candidates = append(candidates, g.Span)
			}
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].Start != candidates[j].Start {
				return candidates[i].Start < candidates[j].Start
			}
			return candidates[i].End > candidates[j].End
		})

		var parts span.Ranges
		for _, c := range candidates {
			if n := len(parts); n > 0 && c.Start < parts[n-1].End {
				continue
			}
			parts = append(parts, c)
		}

		cursor := 0
		for _, p := range parts {
			if p.Start > cursor {
				next = append(next, Segment{Scope: Out, Text: seg.Text[cursor:p.Start]})
			}
			next = append(next, Segment{Scope: In, Text: seg.Text[p.Start:p.End], Captures: seg.Captures})
			cursor = p.End
		}
		if cursor < len(seg.Text) {
			next = append(next, Segment{Scope: Out, Text: seg.Text[cursor:]})
		}
	}

	v.replace(before, next)
}

// replace swaps in a new partition after checking that it still covers
// exactly the previous text
func (v *View) replace(before string, next []Segment) {
	next = fixDOSLineEndings(compact(next))

	var b strings.Builder
	for _, s := range next {
		b.WriteString(s.Text)
	}
	if b.String() != before {
		panic(fmt.Sprintf("inconsistent view: segments reproduce %q, expected %q", b.String(), before))
	}

	v.segments = next
}

// partition turns sorted, disjoint matches into a total cover of input
func partition(input string, matches []Match) []Segment {
	segments := make([]Segment, 0, len(matches)*2+1)
	cursor := 0
	for _, m := range matches {
		if m.Span.Start < cursor || m.Span.End > len(input) {
			panic(fmt.Sprintf("inconsistent view: match %s overlaps previous match or exceeds input of %d bytes", m.Span, len(input)))
		}
		if m.Span.IsEmpty() {
			continue
		}
		if m.Span.Start > cursor {
			segments = append(segments, Segment{Scope: Out, Text: input[cursor:m.Span.Start]})
		}
		segments = append(segments, Segment{
			Scope:    In,
			Text:     input[m.Span.Start:m.Span.End],
			Captures: m.Captures,
			groups:   shiftGroups(m.Groups, -m.Span.Start),
		})
		cursor = m.Span.End
	}
	if cursor < len(input) {
		segments = append(segments, Segment{Scope: Out, Text: input[cursor:]})
	}
	return segments
}

// compact removes empty segments and joins neighbouring out-of-scope ones.
// Neighbouring in-scope segments stay apart; squeezing depends on them.
// At least one segment always remains.
func compact(segments []Segment) []Segment {
	out := segments[:0:0]
	for _, s := range segments {
		if s.Text == "" {
			continue
		}
		if n := len(out); n > 0 && s.Scope == Out && out[n-1].Scope == Out {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return []Segment{{Scope: Out}}
	}
	return out
}

func shiftGroups(groups []Group, delta int) []Group {
	if len(groups) == 0 {
		return nil
	}
	out := make([]Group, len(groups))
	for i, g := range groups {
		g.Span = g.Span.Shift(delta)
		out[i] = g
	}
	return out
}

func hasSubgroups(groups []Group) bool {
	for _, g := range groups {
		if g.Number != 0 {
			return true
		}
	}
	return false
}
