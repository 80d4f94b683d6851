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

package langs

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/walteh/scopegrep/pkg/scoping"
	"github.com/walteh/scopegrep/pkg/span"
	"gitlab.com/tozd/go/errors"
)

var ErrInvalidQuery = errors.Base("invalid query")

// 🌳 Query is a compiled tree-sitter query acting as a scoper. Every capture
// not prefixed with IgnorePrefix adds its node's range; ignored captures are
// removed from the result afterwards.
type Query struct {
	lang    *Language
	source  string
	query   *sitter.Query
	ignored map[uint32]bool
}

// 🏭 Compile checks source against the language grammar
func Compile(lang *Language, source string) (*Query, error) {
	q, err := sitter.NewQuery([]byte(source), lang.Grammar())
	if err != nil {
		return nil, errors.Errorf("%w: %s: %v", ErrInvalidQuery, lang.Name, err)
	}

	ignored := map[uint32]bool{}
	for id := uint32(0); id < q.CaptureCount(); id++ {
		if strings.HasPrefix(q.CaptureNameForId(id), IgnorePrefix) {
			ignored[id] = true
		}
	}

	return &Query{lang: lang, source: source, query: q, ignored: ignored}, nil
}

// 🏭 CompilePrepared compiles a prepared query of lang by name
func CompilePrepared(lang *Language, name string) (*Query, error) {
	pq, err := lang.Prepared(name)
	if err != nil {
		return nil, err
	}
	return Compile(lang, pq.Source)
}

func (q *Query) Language() *Language {
	return q.lang
}

func (q *Query) String() string {
	return q.source
}

// Scope parses input and returns the merged ranges of all kept captures.
// A parser is created per call, so a compiled query can be shared.
func (q *Query) Scope(ctx context.Context, input string) ([]scoping.Match, error) {
	src := []byte(input)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(q.lang.Grammar())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Errorf("%w: %s: %v", scoping.ErrParse, q.lang.Name, err)
	}
	if tree == nil {
		return nil, errors.Errorf("%w: %s: parser returned no tree", scoping.ErrParse, q.lang.Name)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		zerolog.Ctx(ctx).Debug().Str("language", q.lang.Name).Msg("syntax errors in input, results may be partial")
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q.query, root)

	var keep, drop span.Ranges
	for {
		m, ok := cursor.NextMatch()
		if !ok {
			break
		}
		m = cursor.FilterPredicates(m, src)
		for _, c := range m.Captures {
			r := span.Span{Start: int(c.Node.StartByte()), End: int(c.Node.EndByte())}
			if q.ignored[c.Index] {
				drop = append(drop, r)
			} else {
				keep = append(keep, r)
			}
		}
	}

	ranges := keep.Merge().Subtract(drop.Merge())
	zerolog.Ctx(ctx).Trace().Str("language", q.lang.Name).Int("ranges", len(ranges)).Msg("query scoped")

	matches := make([]scoping.Match, 0, len(ranges))
	for _, r := range ranges {
		matches = append(matches, scoping.Match{Span: r})
	}
	return matches, nil
}

type cacheKey struct {
	lang   string
	source string
}

type cacheEntry struct {
	once  sync.Once
	query *Query
	err   error
}

// 🗄️ Cache compiles each (language, query) pair at most once and is safe
// for concurrent use
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]*cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: map[cacheKey]*cacheEntry{}}
}

func (c *Cache) Get(lang *Language, source string) (*Query, error) {
	key := cacheKey{lang: lang.Name, source: source}

	c.mu.Lock()
	entry, ok := c.entries[key]
	if !ok {
		entry = &cacheEntry{}
		c.entries[key] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.query, entry.err = Compile(lang, source)
	})
	return entry.query, entry.err
}
