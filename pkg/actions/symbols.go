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
	"sort"
	"strings"

	"github.com/walteh/scopegrep/pkg/scoping"
)

// Symbol pairs an ASCII spelling with the code point it stands for
type Symbol struct {
	ASCII   string
	Unicode rune
}

// SymbolTable is the full mapping; it is a bijection
var SymbolTable = []Symbol{
	{ASCII: "---", Unicode: '—'},
	{ASCII: "--", Unicode: '–'},
	{ASCII: "->", Unicode: '→'},
	{ASCII: "<-", Unicode: '←'},
	{ASCII: "-->", Unicode: '⟶'},
	{ASCII: "<--", Unicode: '⟵'},
	{ASCII: "<->", Unicode: '↔'},
	{ASCII: "=>", Unicode: '⇒'},
	{ASCII: "!=", Unicode: '≠'},
	{ASCII: "<=", Unicode: '≤'},
	{ASCII: ">=", Unicode: '≥'},
}

const urlPrefix = "https://"

// longest first, so `-->` wins over `--` and `->`
var symbolsByLength = func() []Symbol {
	out := append([]Symbol(nil), SymbolTable...)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i].ASCII) > len(out[j].ASCII) })
	return out
}()

var symbolsByRune = func() map[rune]string {
	m := make(map[rune]string, len(SymbolTable))
	for _, s := range SymbolTable {
		m[s.Unicode] = s.ASCII
	}
	return m
}()

// ➡️ Symbols turns ASCII digraphs and trigraphs into their Unicode symbol.
// The longest spelling at a position wins. URLs starting with https:// are
// copied unchanged up to the next space or double quote.
type Symbols struct{}

func (Symbols) Act(input string, _ scoping.Captures) (string, error) {
	var b strings.Builder
	b.Grow(len(input))

	for i := 0; i < len(input); {
		if strings.HasPrefix(input[i:], urlPrefix) {
			end := strings.IndexAny(input[i:], " \"")
			if end < 0 {
				b.WriteString(input[i:])
				break
			}
			b.WriteString(input[i : i+end])
			i += end
			continue
		}

		matched := false
		for _, s := range symbolsByLength {
			if strings.HasPrefix(input[i:], s.ASCII) {
				b.WriteRune(s.Unicode)
				i += len(s.ASCII)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(input[i])
			i++
		}
	}
	return b.String(), nil
}

// ⬅️ SymbolsInversion is the exact reverse of Symbols
type SymbolsInversion struct{}

func (SymbolsInversion) Act(input string, _ scoping.Captures) (string, error) {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if ascii, ok := symbolsByRune[r]; ok {
			b.WriteString(ascii)
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}
