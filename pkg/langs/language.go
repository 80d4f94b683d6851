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
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/hcl"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrUnknownLanguage = errors.Base("unknown language")
	ErrUnknownQuery    = errors.Base("unknown prepared query")
)

// IgnorePrefix marks captures that are needed for matching but must not be
// part of the resulting scope
const IgnorePrefix = "_ignore"

// 📚 PreparedQuery is a named, ready-made query for one language
type PreparedQuery struct {
	Name        string
	Description string
	Source      string
}

// 🌐 Language ties a tree-sitter grammar to its files and prepared queries
type Language struct {
	Name         string
	Aliases      []string
	Extensions   []string
	Interpreters []string

	grammar  func() *sitter.Language
	prepared []PreparedQuery
	skipDirs []string
}

// Grammar returns the tree-sitter language
func (l *Language) Grammar() *sitter.Language {
	return l.grammar()
}

// 📋 Queries lists the prepared queries sorted by name
func (l *Language) Queries() []PreparedQuery {
	out := slices.Clone(l.prepared)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// QueryNames lists the names of the prepared queries, sorted
func (l *Language) QueryNames() []string {
	names := make([]string, 0, len(l.prepared))
	for _, q := range l.Queries() {
		names = append(names, q.Name)
	}
	return names
}

// 🔍 Prepared finds a prepared query by name
func (l *Language) Prepared(name string) (PreparedQuery, error) {
	for _, q := range l.prepared {
		if q.Name == name {
			return q, nil
		}
	}
	return PreparedQuery{}, errors.Errorf("%w: %s has no query %q", ErrUnknownQuery, l.Name, name)
}

// 🎯 MatchesPath reports whether a file belongs to the language by extension
func (l *Language) MatchesPath(p string) bool {
	if l.skipsPath(p) {
		return false
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(p)), ".")
	return ext != "" && slices.Contains(l.Extensions, ext)
}

// 🎯 Matches reports whether a file belongs to the language by extension or,
// failing that, by the interpreter named in its shebang line
func (l *Language) Matches(p string, content []byte) bool {
	if l.MatchesPath(p) {
		return true
	}
	if l.skipsPath(p) || len(l.Interpreters) == 0 {
		return false
	}
	interp, ok := Interpreter(content)
	return ok && slices.Contains(l.Interpreters, interp)
}

func (l *Language) skipsPath(p string) bool {
	for _, part := range strings.Split(filepath.ToSlash(p), "/") {
		if slices.Contains(l.skipDirs, part) {
			return true
		}
	}
	return false
}

// 🐚 Interpreter extracts the program a shebang line runs. `#!/usr/bin/env
// python3` and `#!/usr/bin/env -S python3 -u` both yield "python3".
func Interpreter(content []byte) (string, bool) {
	if len(content) < 2 || content[0] != '#' || content[1] != '!' {
		return "", false
	}

	line := string(content[2:])
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	fields := strings.Fields(strings.TrimSuffix(line, "\r"))
	if len(fields) == 0 {
		return "", false
	}

	prog := path.Base(fields[0])
	if prog != "env" {
		return prog, true
	}

	for _, f := range fields[1:] {
		if strings.HasPrefix(f, "-") || strings.Contains(f, "=") {
			continue
		}
		return path.Base(f), true
	}
	return "", false
}

var registry = []*Language{
	{
		Name:       "go",
		Extensions: []string{"go"},
		grammar:    golang.GetLanguage,
		prepared:   goQueries,
		skipDirs:   []string{"vendor"},
	},
	{
		Name:         "python",
		Aliases:      []string{"py"},
		Extensions:   []string{"py", "pyi"},
		Interpreters: []string{"python", "python3"},
		grammar:      python.GetLanguage,
		prepared:     pythonQueries,
	},
	{
		Name:       "rust",
		Aliases:    []string{"rs"},
		Extensions: []string{"rs"},
		grammar:    rust.GetLanguage,
		prepared:   rustQueries,
		skipDirs:   []string{"target"},
	},
	{
		Name:         "typescript",
		Aliases:      []string{"ts"},
		Extensions:   []string{"ts", "mts", "cts"},
		Interpreters: []string{"deno", "ts-node", "bun"},
		grammar:      typescript.GetLanguage,
		prepared:     typescriptQueries,
		skipDirs:     []string{"node_modules"},
	},
	{
		Name:       "c",
		Extensions: []string{"c", "h"},
		grammar:    c.GetLanguage,
		prepared:   cQueries,
	},
	{
		Name:       "csharp",
		Aliases:    []string{"cs", "c#"},
		Extensions: []string{"cs", "csx"},
		grammar:    csharp.GetLanguage,
		prepared:   csharpQueries,
	},
	{
		Name:       "hcl",
		Aliases:    []string{"tf", "terraform"},
		Extensions: []string{"hcl", "tf", "tfvars"},
		grammar:    hcl.GetLanguage,
		prepared:   hclQueries,
		skipDirs:   []string{".terraform"},
	},
}

// 🔍 Lookup finds a language by name or alias
func Lookup(name string) (*Language, error) {
	name = strings.ToLower(name)
	for _, l := range registry {
		if l.Name == name || slices.Contains(l.Aliases, name) {
			return l, nil
		}
	}
	return nil, errors.Errorf("%w: %q", ErrUnknownLanguage, name)
}

// All returns every supported language
func All() []*Language {
	return slices.Clone(registry)
}

// Names returns the canonical names of all languages
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, l := range registry {
		names = append(names, l.Name)
	}
	return names
}

// 🔎 ForPath picks the language of a file from its extension, falling back to
// its shebang. It returns nil when nothing fits.
func ForPath(p string, content []byte) *Language {
	for _, l := range registry {
		if l.MatchesPath(p) {
			return l
		}
	}
	if _, ok := Interpreter(content); !ok {
		return nil
	}
	for _, l := range registry {
		if l.Matches(p, content) {
			return l
		}
	}
	return nil
}
