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

package actions

import (
	"github.com/walteh/scopegrep/pkg/scoping"
	"github.com/walteh/scopegrep/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔄 Replace substitutes each in-scope segment with an expanded template.
// Variables resolve against the captures of the match behind the segment.
type Replace struct {
	template *text.Template
}

// 🏭 NewReplace parses raw. When groups is non-nil every variable must name
// one of them; pass nil when the groups are not known up front.
func NewReplace(raw string, groups []scoping.CaptureGroup) (*Replace, error) {
	tmpl, err := text.ParseTemplate(raw)
	if err != nil {
		return nil, errors.Errorf("parsing replacement %q: %w", raw, err)
	}

	if groups != nil {
		known := make(scoping.Captures, len(groups))
		for _, g := range groups {
			known[g] = ""
		}
		if err := tmpl.Validate(func(v string) bool {
			_, ok := known.Lookup(v)
			return ok
		}); err != nil {
			return nil, errors.Errorf("validating replacement %q: %w", raw, err)
		}
	}

	return &Replace{template: tmpl}, nil
}

func (r *Replace) String() string {
	return r.template.String()
}

// Act fails with text.ErrUndefinedVariable when the match did not produce a
// referenced group, as happens with optional groups that did not participate
func (r *Replace) Act(_ string, captures scoping.Captures) (string, error) {
	out, err := r.template.Expand(captures)
	if err != nil {
		return "", errors.Errorf("expanding replacement: %w", err)
	}
	return out, nil
}

// 🗑️ Delete removes in-scope text
type Delete struct{}

func (Delete) Act(string, scoping.Captures) (string, error) {
	return "", nil
}
