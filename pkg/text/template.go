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

package text

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

var (
	ErrMismatchedBraces  = errors.Base("mismatched braces in replacement")
	ErrUndefinedVariable = errors.Base("undefined variable in replacement")
)

// 🔍 Lookup resolves a variable name (`1`, `name`) to its value
type Lookup interface {
	Lookup(variable string) (string, bool)
}

// LookupMap is a Lookup over plain strings, handy for tests and static values
type LookupMap map[string]string

func (m LookupMap) Lookup(variable string) (string, bool) {
	v, ok := m[variable]
	return v, ok
}

// 🧩 Fragment is either literal text or a variable reference
type Fragment struct {
	Literal  string
	Variable string
}

func (f Fragment) IsVariable() bool {
	return f.Variable != ""
}

// 📝 Template is a parsed replacement string. It is built once and then
// expanded for every match.
type Template struct {
	raw       string
	fragments []Fragment
}

// 🏭 ParseTemplate unescapes raw and splits it into literals and variables.
//
//	$$        a literal dollar
//	$1 ${1}   numbered capture group
//	$n ${n}   named capture group, [a-zA-Z_][a-zA-Z0-9_]*
//
// A numbered reference ends at the first non-digit, so `$1a` is group 1
// followed by a literal "a".
// A `$` followed by anything else is kept literally. An opened `${name` that
// is never closed is ErrMismatchedBraces.
func ParseTemplate(raw string) (*Template, error) {
	unescaped, err := Unescape(raw)
	if err != nil {
		return nil, errors.Errorf("unescaping replacement: %w", err)
	}

	fragments, err := parseVariables(unescaped)
	if err != nil {
		return nil, err
	}

	return &Template{raw: raw, fragments: fragments}, nil
}

func parseVariables(s string) ([]Fragment, error) {
	var fragments []Fragment
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			fragments = append(fragments, Fragment{Literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); {
		if s[i] != '$' || i+1 >= len(s) {
			lit.WriteByte(s[i])
			i++
			continue
		}

		next := s[i+1]
		switch {
		case next == '$':
			lit.WriteByte('$')
			i += 2
		case next == '{':
			body := s[i+2:]
			n := identLen(body)
			if n == 0 {
				lit.WriteString("${")
				i += 2
				continue
			}
			if n >= len(body) || body[n] != '}' {
				return nil, errors.Errorf("%w: %q", ErrMismatchedBraces, s[i:])
			}
			flush()
			fragments = append(fragments, Fragment{Variable: body[:n]})
			i += 2 + n + 1
		default:
			n := identLen(s[i+1:])
			if n == 0 {
				lit.WriteByte('$')
				i++
				continue
			}
			flush()
			fragments = append(fragments, Fragment{Variable: s[i+1 : i+1+n]})
			i += 1 + n
		}
	}
	flush()

	return fragments, nil
}

// identLen measures a leading variable name: either all digits or an
// identifier. Zero means there is none.
func identLen(s string) int {
	if s == "" {
		return 0
	}
	if isDigit(s[0]) {
		n := 0
		for n < len(s) && isDigit(s[n]) {
			n++
		}
		return n
	}
	if !isIdentStart(s[0]) {
		return 0
	}
	n := 1
	for n < len(s) && (isIdentStart(s[n]) || isDigit(s[n])) {
		n++
	}
	return n
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (t *Template) String() string {
	return t.raw
}

// Fragments returns the parsed pieces in order
func (t *Template) Fragments() []Fragment {
	out := make([]Fragment, len(t.fragments))
	copy(out, t.fragments)
	return out
}

// Variables lists referenced variables in order of appearance, without duplicates
func (t *Template) Variables() []string {
	var vars []string
	seen := map[string]bool{}
	for _, f := range t.fragments {
		if f.IsVariable() && !seen[f.Variable] {
			seen[f.Variable] = true
			vars = append(vars, f.Variable)
		}
	}
	return vars
}

// IsLiteral reports whether the template references no variables
func (t *Template) IsLiteral() bool {
	return len(t.Variables()) == 0
}

// ✅ Validate checks every variable against the groups a pattern can produce
func (t *Template) Validate(known func(variable string) bool) error {
	for _, v := range t.Variables() {
		if !known(v) {
			return errors.Errorf("%w: $%s", ErrUndefinedVariable, v)
		}
	}
	return nil
}

// 🔄 Expand substitutes variables with values from lookup
func (t *Template) Expand(lookup Lookup) (string, error) {
	var b strings.Builder
	for _, f := range t.fragments {
		if !f.IsVariable() {
			b.WriteString(f.Literal)
			continue
		}
		var (
			v  string
			ok bool
		)
		if lookup != nil {
			v, ok = lookup.Lookup(f.Variable)
		}
		if !ok {
			return "", errors.Errorf("%w: $%s", ErrUndefinedVariable, f.Variable)
		}
		b.WriteString(v)
	}
	return b.String(), nil
}
