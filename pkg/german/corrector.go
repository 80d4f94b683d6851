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
	"strings"
)

// 🇩🇪 Corrector restores umlauts and eszett in text that spells them out
// ("Ueberfall" becomes "Überfall", "Masse" becomes "Maße").
//
// Every word with at least one candidate spot is tried with growing sets of
// replacements; the first candidate the Oracle accepts wins. Words without an
// accepted candidate are left alone.
type Corrector struct {
	Oracle Oracle

	// PreferOriginal keeps a word as written whenever the word itself is
	// known, even if a replacement would be known too
	PreferOriginal bool

	// Naive skips the Oracle and replaces every candidate spot
	Naive bool
}

// 🏭 NewCorrector uses the embedded word list when oracle is nil
func NewCorrector(oracle Oracle, preferOriginal, naive bool) *Corrector {
	if oracle == nil {
		oracle = Default()
	}
	return &Corrector{Oracle: oracle, PreferOriginal: preferOriginal, Naive: naive}
}

// Correct is safe for concurrent use as long as the Oracle is
func (c *Corrector) Correct(input string) string {
	var out strings.Builder
	out.Grow(len(input))

	var m machine
	for _, r := range input {
		switch m.step(r) {
		case transitionExternal:
			out.WriteRune(r)
		case transitionExited:
			out.WriteString(c.correctWord(&m.word))
			out.WriteRune(r)
		}
	}
	if m.inWord {
		out.WriteString(c.correctWord(&m.word))
	}

	return out.String()
}

func (c *Corrector) correctWord(w *word) string {
	original := w.content.String()
	if len(w.replacements) == 0 {
		return original
	}

	candidates := subsets(len(w.replacements))
	if c.Naive {
		// nothing, or everything
		candidates = [][]int{candidates[0], candidates[len(candidates)-1]}
	}
	if !c.PreferOriginal {
		candidates = candidates[1:]
	}

	for _, set := range candidates {
		chosen := make([]replacement, 0, len(set))
		for _, i := range set {
			chosen = append(chosen, w.replacements[i])
		}
		candidate := w.apply(chosen)
		if c.Naive || c.isValid(candidate) {
			return candidate
		}
	}
	return original
}

// isValid checks a candidate against the Oracle, allowing for the casings a
// word may have in running text
func (c *Corrector) isValid(word string) bool {
	switch classify(word) {
	case casingLower:
		if c.Oracle.IsKnownWord(word) {
			return true
		}
		_, ok := c.Oracle.Decompose(word)
		return ok
	case casingUpper:
		return c.isValid(titlecaseLowerRest(word))
	case casingMixed:
		if startsUpper(word) {
			return c.isValid(titlecaseLowerRest(word))
		}
		return c.isValid(lower(word))
	case casingTitle:
		if c.Oracle.IsKnownWord(word) || c.isValid(lower(word)) {
			return true
		}
		_, ok := c.Oracle.Decompose(word)
		return ok
	default:
		return false
	}
}
