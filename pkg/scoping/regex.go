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
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog"
	"github.com/walteh/scopegrep/pkg/span"
	"gitlab.com/tozd/go/errors"
)

// GlobalPattern matches any run of non-newline characters
const GlobalPattern = ".*"

// fancyMatchTimeout bounds a single backtracking search
const fancyMatchTimeout = 30 * time.Second

type engine interface {
	findAll(input string) ([]Match, error)
	groupNames() []string
}

// 🔍 Regex scopes input to the non-overlapping matches of a pattern.
// Patterns RE2 accepts run on the standard engine; patterns it rejects
// (lookaround, backreferences) fall back to a backtracking engine, where
// catastrophic patterns are the caller's problem.
type Regex struct {
	pattern string
	engine  engine
	fancy   bool
}

// 🏭 NewRegex compiles pattern once; the result is safe for concurrent use
func NewRegex(pattern string) (*Regex, error) {
	re, err := regexp.Compile(pattern)
	if err == nil {
		return &Regex{pattern: pattern, engine: &re2Engine{re: re}}, nil
	}

	fancy, ferr := regexp2.Compile(pattern, regexp2.RE2)
	if ferr != nil {
		return nil, errors.Errorf("compiling pattern %q: %w", pattern, err)
	}
	fancy.MatchTimeout = fancyMatchTimeout
	return &Regex{pattern: pattern, engine: newFancyEngine(fancy, pattern), fancy: true}, nil
}

// 🏭 MustRegex is NewRegex for patterns known to compile
func MustRegex(pattern string) *Regex {
	r, err := NewRegex(pattern)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Regex) String() string {
	return r.pattern
}

// IsFancy reports whether the backtracking engine is in use
func (r *Regex) IsFancy() bool {
	return r.fancy
}

// 🏷️ GroupNames lists group names by number; unnamed groups are empty
func (r *Regex) GroupNames() []string {
	return r.engine.groupNames()
}

// 🏷️ Groups returns every capture group a match of this pattern can carry
func (r *Regex) Groups() []CaptureGroup {
	names := r.engine.groupNames()
	groups := make([]CaptureGroup, 0, len(names)*2)
	for i, name := range names {
		groups = append(groups, Numbered(i))
		if name != "" {
			groups = append(groups, Named(name))
		}
	}
	return groups
}

func (r *Regex) Scope(ctx context.Context, input string) ([]Match, error) {
	matches, err := r.engine.findAll(input)
	if err != nil {
		return nil, errors.Errorf("matching %q: %w", r.pattern, err)
	}
	zerolog.Ctx(ctx).Trace().Str("pattern", r.pattern).Int("matches", len(matches)).Msg("regex scoped")
	return matches, nil
}

type re2Engine struct {
	re *regexp.Regexp
}

func (e *re2Engine) groupNames() []string {
	return e.re.SubexpNames()
}

func (e *re2Engine) findAll(input string) ([]Match, error) {
	names := e.re.SubexpNames()
	all := e.re.FindAllStringSubmatchIndex(input, -1)
	matches := make([]Match, 0, len(all))
	for _, loc := range all {
		m := Match{
			Span:     span.Span{Start: loc[0], End: loc[1]},
			Captures: Captures{},
		}
		for g := 0; g*2 < len(loc); g++ {
			start, end := loc[g*2], loc[g*2+1]
			if start < 0 {
				continue
			}
			m.addGroup(g, names[g], start, end, input[start:end])
		}
		matches = append(matches, m)
	}
	return matches, nil
}

type fancyEngine struct {
	re *regexp2.Regexp
	// numbers maps the backtracking engine's group numbers, which put named
	// groups after all unnamed ones, to numbers by order of appearance
	numbers map[int]int
	names   []string
}

func newFancyEngine(re *regexp2.Regexp, pattern string) *fancyEngine {
	e := &fancyEngine{re: re, numbers: map[int]int{0: 0}, names: []string{""}}

	openers := groupOpeners(pattern)
	if len(openers) != len(re.GetGroupNumbers())-1 {
		// unexpected syntax; keep the engine's own numbering
		for _, n := range re.GetGroupNumbers()[1:] {
			e.numbers[n] = len(e.names)
			e.names = append(e.names, publicName(re.GroupNameFromNumber(n)))
		}
		return e
	}

	unnamed := 0
	for _, name := range openers {
		var n int
		if name == "" {
			unnamed++
			n = unnamed
		} else {
			n = re.GroupNumberFromName(name)
		}
		if _, seen := e.numbers[n]; seen {
			continue
		}
		e.numbers[n] = len(e.names)
		e.names = append(e.names, publicName(name))
	}
	return e
}

func (e *fancyEngine) groupNames() []string {
	return e.names
}

func (e *fancyEngine) findAll(input string) ([]Match, error) {
	// the backtracking engine reports rune offsets
	offsets := runeByteOffsets(input)

	var matches []Match
	m, err := e.re.FindStringMatch(input)
	for ; m != nil && err == nil; m, err = e.re.FindNextMatch(m) {
		start, end := offsets[m.Index], offsets[m.Index+m.Length]
		if len(matches) > 0 && start < matches[len(matches)-1].Span.End {
			continue
		}
		match := Match{
			Span:     span.Span{Start: start, End: end},
			Captures: Captures{},
		}
		for _, g := range m.Groups() {
			if len(g.Captures) == 0 {
				continue
			}
			number, ok := e.numbers[e.re.GroupNumberFromName(g.Name)]
			if !ok {
				continue
			}
			gs, ge := offsets[g.Index], offsets[g.Index+g.Length]
			match.addGroup(number, publicName(g.Name), gs, ge, input[gs:ge])
		}
		matches = append(matches, match)
	}
	if err != nil {
		return nil, errors.Errorf("backtracking match: %w", err)
	}
	return matches, nil
}

func (m *Match) addGroup(number int, name string, start, end int, text string) {
	m.Groups = append(m.Groups, Group{
		Number: number,
		Name:   name,
		Span:   span.Span{Start: start, End: end},
	})
	m.Captures[Numbered(number)] = text
	if name != "" {
		m.Captures[Named(name)] = text
	}
}

func runeByteOffsets(input string) []int {
	offsets := make([]int, 0, len(input)+1)
	for i := range input {
		offsets = append(offsets, i)
	}
	return append(offsets, len(input))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// publicName hides the names the backtracking engine gives unnamed groups
func publicName(name string) string {
	if isDigits(name) {
		return ""
	}
	return name
}

// groupOpeners lists the capturing groups of pattern in order of their
// opening parenthesis: the name of each named group, "" for unnamed ones.
// Escapes, character classes and non-capturing constructs are skipped.
func groupOpeners(pattern string) []string {
	var openers []string
	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
			// a leading ] (after an optional ^) is a literal
			if i+1 < len(pattern) && pattern[i+1] == '^' {
				i++
			}
			if i+1 < len(pattern) && pattern[i+1] == ']' {
				i++
			}
		case c == '(':
			rest := pattern[i+1:]
			if !strings.HasPrefix(rest, "?") {
				openers = append(openers, "")
				continue
			}
			if name, ok := groupName(rest[1:]); ok {
				openers = append(openers, name)
			}
		}
	}
	return openers
}

// groupName reads the name of a named group from the text following `(?`
func groupName(s string) (string, bool) {
	s = strings.TrimPrefix(s, "P")
	if s == "" {
		return "", false
	}
	closer := byte('>')
	switch s[0] {
	case '<':
		if strings.HasPrefix(s, "<=") || strings.HasPrefix(s, "<!") {
			return "", false
		}
	case '\'':
		closer = '\''
	default:
		return "", false
	}
	end := strings.IndexByte(s[1:], closer)
	if end <= 0 {
		return "", false
	}
	return s[1 : 1+end], true
}
