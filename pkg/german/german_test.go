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
	"testing"
	"testing/iotest"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrect(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		preferOriginal bool
		naive          bool
		want           string
	}{
		{name: "umlaut_at_start", input: "Ueberfall", want: "Überfall"},
		{name: "sentence", input: "Der Fluss ist gruen.", want: "Der Fluss ist grün."},
		{name: "unknown_candidate_keeps_original", input: "Abenteuer", want: "Abenteuer"},
		{name: "eszett_preferred", input: "Masse", want: "Maße"},
		{name: "prefer_original_when_known", input: "Masse", preferOriginal: true, want: "Masse"},
		{name: "prefer_original_still_fixes_unknown", input: "Ueberfall", preferOriginal: true, want: "Überfall"},
		{name: "upper_case_eszett", input: "STRASSE", want: "STRAẞE"},
		{name: "compound_word", input: "Mauerduebel", want: "Mauerdübel"},
		{name: "long_compound", input: "Suesswasserschwimmbaeder", want: "Süßwasserschwimmbäder"},
		{name: "naive_replaces_everything", input: "Frau Schroekedaek", naive: true, want: "Frau Schrökedäk"},
		{name: "naive_prefer_original_is_noop", input: "Frau Schroekedaek", naive: true, preferOriginal: true, want: "Frau Schroekedaek"},
		{name: "no_candidates", input: "Hund und Katze", want: "Hund und Katze"},
		{name: "empty", input: "", want: ""},
		{name: "punctuation_only", input: "?!, 42", want: "?!, 42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCorrector(nil, tt.preferOriginal, tt.naive)
			assert.Equal(t, tt.want, c.Correct(tt.input))
		})
	}
}

func TestIsValid(t *testing.T) {
	c := NewCorrector(nil, false, false)

	tests := []struct {
		word string
		want bool
	}{
		{word: "Koeffizient", want: true},
		{word: "kongruent", want: true},
		{word: "Mauer", want: true},
		{word: "dröge", want: true},
		{word: "DüBeL", want: true},
		{word: "düBeL", want: false},
		{word: "dröGE", want: true},
		{word: "DrÖgE", want: true},
		{word: "????", want: false},
		{word: "Mauer😂", want: false},
		{word: "Duebel", want: false},
		{word: "Maür", want: false},
		{word: "Mauerdübelkübel", want: true},
		{word: "kindergarten", want: false},
		{word: "Kindergarten", want: true},
		{word: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, c.isValid(tt.word))
		})
	}
}

func TestDecompose(t *testing.T) {
	wl := NewWordList("Mauer", "Dübel", "Kübel", "süß", "Wasser")

	parts, ok := wl.Decompose("Mauerdübelkübel")
	require.True(t, ok)
	assert.Equal(t, []string{"Mauer", "Dübel", "Kübel"}, parts)

	parts, ok = wl.Decompose("süßwasser")
	require.True(t, ok)
	assert.Equal(t, []string{"süß", "Wasser"}, parts)

	_, ok = wl.Decompose("Mauer")
	assert.False(t, ok)

	_, ok = wl.Decompose("Maürdübel")
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, casingLower, classify("hund"))
	assert.Equal(t, casingUpper, classify("HUND"))
	assert.Equal(t, casingTitle, classify("Hund"))
	assert.Equal(t, casingTitle, classify("H"))
	assert.Equal(t, casingMixed, classify("hUnD"))
	assert.Equal(t, casingUndecidable, classify("hund1"))
	assert.Equal(t, casingUndecidable, classify(""))
}

func TestLoadWordList(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "extra.txt", []byte("# names\nSchrökedäk\n\n"), 0o644))

	wl, err := LoadWordList(fs, "extra.txt")
	require.NoError(t, err)
	assert.True(t, wl.IsKnownWord("Schrökedäk"))
	assert.True(t, wl.IsKnownWord("Mauer"), "embedded words are kept")
	assert.False(t, Default().IsKnownWord("Schrökedäk"), "default list is not modified")

	c := NewCorrector(wl, false, false)
	assert.Equal(t, "Frau Schrökedäk", c.Correct("Frau Schroekedaek"))

	_, err = LoadWordList(fs, "missing.txt")
	require.Error(t, err)
}

func TestWordListRead(t *testing.T) {
	assert.NotPanics(t, func() { Default() })
	assert.True(t, Default().IsKnownWord("Abenteuer"))

	wl := NewWordList()
	require.NoError(t, wl.Read(iotest.HalfReader(strings.NewReader("# comment\nÄrger\n"))))
	assert.True(t, wl.IsKnownWord("Ärger"))

	err := NewWordList().Read(iotest.ErrReader(assert.AnError))
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
