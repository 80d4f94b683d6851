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

package german

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type wordCasing int

const (
	casingUndecidable wordCasing = iota
	casingLower
	casingUpper
	casingTitle
	casingMixed
)

func (c wordCasing) String() string {
	switch c {
	case casingLower:
		return "lower"
	case casingUpper:
		return "upper"
	case casingTitle:
		return "title"
	case casingMixed:
		return "mixed"
	default:
		return "undecidable"
	}
}

// classify reports the casing of a word made only of cased letters.
// Anything else (digits, marks, emoji, empty input) is undecidable.
func classify(word string) wordCasing {
	if word == "" {
		return casingUndecidable
	}

	hasLower, hasUpper, isTitle := false, false, true
	i := 0
	for _, r := range word {
		switch {
		case unicode.IsLower(r):
			hasLower = true
			if i == 0 {
				isTitle = false
			}
		case unicode.IsUpper(r):
			hasUpper = true
			if i != 0 {
				isTitle = false
			}
		default:
			return casingUndecidable
		}
		i++
	}

	switch {
	case isTitle:
		return casingTitle
	case hasLower && !hasUpper:
		return casingLower
	case hasUpper && !hasLower:
		return casingUpper
	default:
		return casingMixed
	}
}

func titlecaseLowerRest(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToTitle(r)) + lower(word[size:])
}

func lower(word string) string {
	return cases.Lower(language.German).String(word)
}

func startsUpper(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}
