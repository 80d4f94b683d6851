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
	"bufio"
	_ "embed"
	"io"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 🔮 Oracle knows which German words exist
type Oracle interface {
	IsKnownWord(word string) bool
	// Decompose splits a compound into known words. ok is false for single
	// words and for anything that cannot be split.
	Decompose(word string) (parts []string, ok bool)
}

//go:embed words.txt
var embeddedWords string

// 📖 WordList is an Oracle backed by an in-memory set of words. Lookups are
// case sensitive: nouns are listed capitalized.
type WordList struct {
	words map[string]struct{}
}

// 🏭 NewWordList builds a list from the given words
func NewWordList(words ...string) *WordList {
	wl := &WordList{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		wl.add(w)
	}
	return wl
}

var defaultList = sync.OnceValue(func() *WordList {
	wl := NewWordList()
	if err := wl.Read(strings.NewReader(embeddedWords)); err != nil {
		panic(errors.Errorf("reading embedded word list: %w", err))
	}
	return wl
})

// 📦 Default returns the list shipped with the binary. It is built once and
// shared; callers must not modify it.
func Default() *WordList {
	return defaultList()
}

// 📂 LoadWordList reads the embedded list plus one word per line from path.
// Lines starting with # are comments.
func LoadWordList(fs afero.Fs, path string) (*WordList, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening word list: %w", err)
	}
	defer f.Close()

	wl := NewWordList()
	for w := range Default().words {
		wl.words[w] = struct{}{}
	}
	if err := wl.Read(f); err != nil {
		return nil, errors.Errorf("reading word list %s: %w", path, err)
	}
	return wl, nil
}

// Read adds one word per line from r
func (wl *WordList) Read(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		wl.add(line)
	}
	if err := scanner.Err(); err != nil {
		return errors.Errorf("scanning words: %w", err)
	}
	return nil
}

func (wl *WordList) add(w string) {
	if w = strings.TrimSpace(w); w != "" {
		wl.words[w] = struct{}{}
	}
}

func (wl *WordList) Len() int {
	return len(wl.words)
}

func (wl *WordList) IsKnownWord(word string) bool {
	_, ok := wl.words[word]
	return ok
}

// 🧩 Decompose uses the longest known prefix first. The remainder may be a
// known word as written or in titlecase, since German compounds lowercase
// their inner nouns ("Mauerdübel" is "Mauer" + "Dübel").
func (wl *WordList) Decompose(word string) ([]string, bool) {
	return decompose(wl, word)
}

func decompose(o interface{ IsKnownWord(string) bool }, word string) ([]string, bool) {
	runes := []rune(word)
	for i := len(runes) - 1; i > 0; i-- {
		prefix := string(runes[:i])
		if !o.IsKnownWord(prefix) {
			continue
		}
		if rest, ok := remainder(o, string(runes[i:])); ok {
			return append([]string{prefix}, rest...), true
		}
	}
	return nil, false
}

func remainder(o interface{ IsKnownWord(string) bool }, suffix string) ([]string, bool) {
	for _, candidate := range []string{suffix, titlecaseLowerRest(suffix)} {
		if o.IsKnownWord(candidate) {
			return []string{candidate}, true
		}
		if parts, ok := decompose(o, candidate); ok {
			return parts, true
		}
	}
	return nil, false
}
