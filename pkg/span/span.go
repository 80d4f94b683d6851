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

package span

import (
	"fmt"
	"sort"

	"gitlab.com/tozd/go/errors"
)

// 📏 Span is a half-open byte interval [Start, End) over some input
type Span struct {
	Start int
	End   int
}

// 🏭 New creates a span, rejecting inverted bounds
func New(start, end int) (Span, error) {
	if start > end {
		return Span{}, errors.Errorf("invalid span: start %d is after end %d", start, end)
	}
	if start < 0 {
		return Span{}, errors.Errorf("invalid span: negative start %d", start)
	}
	return Span{Start: start, End: end}, nil
}

// 🏭 Must is New for spans known to be valid; it panics otherwise
func Must(start, end int) Span {
	s, err := New(start, end)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// 🔍 Overlaps reports whether the two spans share at least one byte
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// 🤝 Touches reports whether the spans overlap or sit directly next to each other
func (s Span) Touches(other Span) bool {
	return s.Start <= other.End && other.Start <= s.End
}

// 🔍 Contains reports whether offset falls inside the span
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// 🔗 MergeAdjacent joins two touching or overlapping spans. The second return
// value is false (and the receiver is returned unchanged) when they are apart.
func (s Span) MergeAdjacent(other Span) (Span, bool) {
	if !s.Touches(other) {
		return s, false
	}
	return Span{Start: min(s.Start, other.Start), End: max(s.End, other.End)}, true
}

// ⚖️ Compare orders spans by start, then by end
func (s Span) Compare(other Span) int {
	switch {
	case s.Start < other.Start:
		return -1
	case s.Start > other.Start:
		return 1
	case s.End < other.End:
		return -1
	case s.End > other.End:
		return 1
	default:
		return 0
	}
}

// ➡️ Shift moves the span by delta bytes
func (s Span) Shift(delta int) Span {
	return Span{Start: s.Start + delta, End: s.End + delta}
}

// ✂️ Intersect returns the common part of both spans, if any
func (s Span) Intersect(other Span) (Span, bool) {
	start, end := max(s.Start, other.Start), min(s.End, other.End)
	if start >= end {
		return Span{}, false
	}
	return Span{Start: start, End: end}, true
}

func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End)
}

// 📚 Ranges is a collection of spans
type Ranges []Span

// 🔀 Sort orders the ranges in place with Compare
func (r Ranges) Sort() {
	sort.SliceStable(r, func(i, j int) bool {
		return r[i].Compare(r[j]) < 0
	})
}

// 🔗 Merge returns a sorted copy where overlapping and touching spans are
// coalesced and empty spans are dropped.
func (r Ranges) Merge() Ranges {
	sorted := make(Ranges, 0, len(r))
	for _, s := range r {
		if !s.IsEmpty() {
			sorted = append(sorted, s)
		}
	}
	sorted.Sort()

	merged := make(Ranges, 0, len(sorted))
	for _, s := range sorted {
		if n := len(merged); n > 0 {
			if joined, ok := merged[n-1].MergeAdjacent(s); ok {
				merged[n-1] = joined
				continue
			}
		}
		merged = append(merged, s)
	}
	return merged
}

// ➖ Subtract removes every byte covered by other. Both sides are merged first.
func (r Ranges) Subtract(other Ranges) Ranges {
	left, right := r.Merge(), other.Merge()
	result := make(Ranges, 0, len(left))

	j := 0
	for _, s := range left {
		cur := s
		for j < len(right) && right[j].End <= cur.Start {
			j++
		}
		k := j
		for k < len(right) && right[k].Start < cur.End {
			hole := right[k]
			if hole.Start > cur.Start {
				result = append(result, Span{Start: cur.Start, End: hole.Start})
			}
			if hole.End >= cur.End {
				cur.Start = cur.End
				break
			}
			cur.Start = hole.End
			k++
		}
		if !cur.IsEmpty() {
			result = append(result, cur)
		}
	}
	return result
}

// ✂️ Clip keeps only the parts of the ranges inside window
func (r Ranges) Clip(window Span) Ranges {
	result := make(Ranges, 0, len(r))
	for _, s := range r {
		if clipped, ok := s.Intersect(window); ok {
			result = append(result, clipped)
		}
	}
	return result
}

// 🧮 Total sums the lengths of all spans
func (r Ranges) Total() int {
	total := 0
	for _, s := range r {
		total += s.Len()
	}
	return total
}

// 🔍 IsSortedDisjoint reports whether the spans are ascending and non-overlapping
func (r Ranges) IsSortedDisjoint() bool {
	for i := 1; i < len(r); i++ {
		if r[i].Start < r[i-1].End {
			return false
		}
	}
	return true
}
