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
	"strings"

	"github.com/walteh/scopegrep/pkg/span"
	"github.com/walteh/scopegrep/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📝 Literal scopes input to every non-overlapping occurrence of a fixed string
type Literal struct {
	literal string
}

// 🏭 NewLiteral unescapes raw (so `\t` means a tab) and returns the scoper
func NewLiteral(raw string) (*Literal, error) {
	lit, err := text.Unescape(raw)
	if err != nil {
		return nil, errors.Errorf("literal %q: %w", raw, err)
	}
	if lit == "" {
		return nil, errors.Errorf("literal must not be empty")
	}
	return &Literal{literal: lit}, nil
}

func (l *Literal) String() string {
	return l.literal
}

func (l *Literal) Scope(_ context.Context, input string) ([]Match, error) {
	var matches []Match
	offset := 0
	for {
		idx := strings.Index(input[offset:], l.literal)
		if idx < 0 {
			break
		}
		start := offset + idx
		end := start + len(l.literal)
		matches = append(matches, Match{
			Span:     span.Span{Start: start, End: end},
			Groups:   []Group{{Number: 0, Span: span.Span{Start: start, End: end}}},
			Captures: Captures{Numbered(0): l.literal},
		})
		offset = end
	}
	return matches, nil
}
