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
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/apparentlymart/go-textseg/v15/textseg"
	"github.com/walteh/scopegrep/pkg/scoping"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// casers are stateful, so every call gets its own

// 🔠 Upper maps in-scope text to upper case
type Upper struct{}

func (Upper) Act(input string, _ scoping.Captures) (string, error) {
	return cases.Upper(language.Und).String(input), nil
}

// 🔡 Lower maps in-scope text to lower case
type Lower struct{}

func (Lower) Act(input string, _ scoping.Captures) (string, error) {
	return cases.Lower(language.Und).String(input), nil
}

// 🏷️ Titlecase capitalizes the first cased character of every
// whitespace-delimited word and leaves the rest of the word alone. Leading
// punctuation is skipped; a word starting with a digit or an uncased letter
// is not changed.
type Titlecase struct{}

func (Titlecase) Act(input string, _ scoping.Captures) (string, error) {
	clusters, err := textseg.AllTokens([]byte(input), textseg.ScanGraphemeClusters)
	if err != nil {
		return "", errors.Errorf("splitting graphemes: %w", err)
	}

	caser := cases.Title(language.Und, cases.NoLower)

	var b strings.Builder
	b.Grow(len(input))
	searching := true
	for _, c := range clusters {
		r, _ := utf8.DecodeRune(c)
		switch {
		case unicode.IsSpace(r):
			searching = true
		case !searching:
		case isCased(r):
			b.WriteString(caser.String(string(c)))
			searching = false
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			searching = false
		}
		b.Write(c)
	}
	return b.String(), nil
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}

// 🧹 Normalize decomposes text (NFD) and drops every combining mark, so
// "Ǻ" becomes "A"
type Normalize struct{}

func (Normalize) Act(input string, _ scoping.Captures) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.M)))
	out, _, err := transform.String(t, input)
	if err != nil {
		return "", errors.Errorf("normalizing: %w", err)
	}
	return out, nil
}
