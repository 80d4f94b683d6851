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
	"sort"
	"strings"
	"unicode"
)

// special is the character a replacement produces
type special rune

const (
	aeLower     special = 'ä'
	aeUpper     special = 'Ä'
	oeLower     special = 'ö'
	oeUpper     special = 'Ö'
	ueLower     special = 'ü'
	ueUpper     special = 'Ü'
	eszettLower special = 'ß'
	eszettUpper special = 'ẞ'
)

// potentials maps the first letter of a transliteration to what it becomes
// when followed by its partner letter
var potentials = map[rune]special{
	'a': aeLower, 'A': aeUpper,
	'o': oeLower, 'O': oeUpper,
	'u': ueLower, 'U': ueUpper,
	's': eszettLower, 'S': eszettUpper,
}

// replacement is a byte range of a word that may become a special character
type replacement struct {
	start, end int
	with       special
}

type word struct {
	content      strings.Builder
	replacements []replacement
}

func (w *word) reset() {
	w.content.Reset()
	w.replacements = w.replacements[:0]
}

// apply returns the word with the chosen replacements, which must be sorted
func (w *word) apply(chosen []replacement) string {
	s := w.content.String()
	if len(chosen) == 0 {
		return s
	}
	var b strings.Builder
	cursor := 0
	for _, r := range chosen {
		b.WriteString(s[cursor:r.start])
		b.WriteRune(rune(r.with))
		cursor = r.end
	}
	b.WriteString(s[cursor:])
	return b.String()
}

type transition int

const (
	transitionExternal transition = iota
	transitionEntered
	transitionInternal
	transitionExited
)

// machine walks text rune by rune, collecting words and the spots inside
// them where a transliteration (ae, oe, ue, ss) could be undone
type machine struct {
	inWord    bool
	potential special
	pending   bool
	word      word
}

func (m *machine) step(r rune) transition {
	if !m.inWord {
		m.word.reset()
	}

	wasInWord := m.inWord
	pos := m.word.content.Len()

	switch {
	case m.pending && isUmlautPotential(m.potential) && (r == 'e' || r == 'E'):
		// the previous letter is a single ASCII byte
		m.addReplacement(pos-1, pos+1)
		m.inWord, m.pending = true, false
	case m.pending && isEszettPotential(m.potential) && (r == 's' || r == 'S'):
		m.addReplacement(pos-1, pos+1)
		m.inWord, m.pending = true, false
	default:
		if p, ok := potentials[r]; ok {
			m.inWord, m.pending, m.potential = true, true, p
		} else if unicode.IsLetter(r) {
			m.inWord, m.pending = true, false
		} else {
			m.inWord, m.pending = false, false
		}
	}

	var t transition
	switch {
	case wasInWord && !m.inWord:
		t = transitionExited
	case !wasInWord && m.inWord:
		t = transitionEntered
	case wasInWord && m.inWord:
		t = transitionInternal
	default:
		t = transitionExternal
	}

	if m.inWord {
		m.word.content.WriteRune(r)
	}
	return t
}

func (m *machine) addReplacement(start, end int) {
	m.word.replacements = append(m.word.replacements, replacement{start: start, end: end, with: m.potential})
}

func isUmlautPotential(s special) bool {
	return s != eszettLower && s != eszettUpper
}

func isEszettPotential(s special) bool {
	return s == eszettLower || s == eszettUpper
}

// subsets lists every subset of items ordered by size, then lexicographically
// by index. The empty set comes first.
func subsets(n int) [][]int {
	out := make([][]int, 0, 1<<n)
	for mask := 0; mask < 1<<n; mask++ {
		var set []int
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				set = append(set, i)
			}
		}
		out = append(out, set)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) < len(out[j])
		}
		for k := range out[i] {
			if out[i][k] != out[j][k] {
				return out[i][k] < out[j][k]
			}
		}
		return false
	})
	return out
}
