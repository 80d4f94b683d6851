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
	"strconv"

	"github.com/walteh/scopegrep/pkg/span"
	"gitlab.com/tozd/go/errors"
)

// ErrParse marks input a grammar could not parse. Callers treat it as zero
// matches for that input and keep going.
var ErrParse = errors.Base("input could not be parsed")

// 🎯 Scope tags a segment as open or closed for actions
type Scope int

const (
	Out Scope = iota
	In
)

func (s Scope) String() string {
	if s == In {
		return "in"
	}
	return "out"
}

// 🏷️ CaptureGroup identifies a regex group either by number or by name
type CaptureGroup struct {
	name   string
	number int
}

func Numbered(n int) CaptureGroup {
	return CaptureGroup{number: n}
}

func Named(name string) CaptureGroup {
	return CaptureGroup{name: name, number: -1}
}

func (g CaptureGroup) IsNamed() bool {
	return g.name != ""
}

func (g CaptureGroup) String() string {
	if g.IsNamed() {
		return g.name
	}
	return strconv.Itoa(g.number)
}

// 📦 Captures maps the groups that took part in a match to their text
type Captures map[CaptureGroup]string

// 🔍 Lookup resolves a template variable: all digits means a numbered group
func (c Captures) Lookup(variable string) (string, bool) {
	if n, err := strconv.Atoi(variable); err == nil {
		v, ok := c[Numbered(n)]
		return v, ok
	}
	v, ok := c[Named(variable)]
	return v, ok
}

// 🧩 Group is a participating capture group of a match
type Group struct {
	Number int
	Name   string
	Span   span.Span
}

// 🎯 Match is one range a scoper selected, with the groups that produced it.
// Groups and Captures are empty for scopers without capture groups.
type Match struct {
	Span     span.Span
	Groups   []Group
	Captures Captures
}

// 🔌 Scoper selects ranges of its input. Returned matches must be sorted and
// must not overlap.
type Scoper interface {
	Scope(ctx context.Context, input string) ([]Match, error)
}

// ScoperFunc adapts a function to the Scoper interface
type ScoperFunc func(ctx context.Context, input string) ([]Match, error)

func (f ScoperFunc) Scope(ctx context.Context, input string) ([]Match, error) {
	return f(ctx, input)
}

// 🔌 Action transforms the text of a single in-scope segment. The captures
// are those of the match that produced the segment and may be nil.
type Action interface {
	Act(input string, captures Captures) (string, error)
}

// ActionFunc adapts a function to the Action interface
type ActionFunc func(input string, captures Captures) (string, error)

func (f ActionFunc) Act(input string, captures Captures) (string, error) {
	return f(input, captures)
}

// 🧱 Segment is one piece of a view's partition
type Segment struct {
	Scope    Scope
	Text     string
	Captures Captures

	// groups are relative to the start of Text
	groups []Group
}
