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

package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/scopegrep/pkg/langs"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.Base("invalid config")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🌐 Language scopes input with tree-sitter queries of one language.
// Queries name prepared queries, Custom holds raw query sources.
type Language struct {
	Name    string   `json:"name" yaml:"name"`
	Queries []string `json:"queries,omitempty" yaml:"queries,omitempty"`
	Custom  []string `json:"custom,omitempty" yaml:"custom,omitempty"`
}

// 🇩🇪 German configures umlaut and eszett restoration; present means enabled
type German struct {
	PreferOriginal bool `json:"prefer_original,omitempty" yaml:"prefer_original,omitempty"`
	Naive          bool `json:"naive,omitempty" yaml:"naive,omitempty"`
	// Words is a file of extra known words, one per line
	Words string `json:"words,omitempty" yaml:"words,omitempty"`
}

// 🔧 Actions selects what happens to in-scope text
type Actions struct {
	Delete    bool    `json:"delete,omitempty" yaml:"delete,omitempty"`
	Squeeze   bool    `json:"squeeze,omitempty" yaml:"squeeze,omitempty"`
	Upper     bool    `json:"upper,omitempty" yaml:"upper,omitempty"`
	Lower     bool    `json:"lower,omitempty" yaml:"lower,omitempty"`
	Titlecase bool    `json:"titlecase,omitempty" yaml:"titlecase,omitempty"`
	Normalize bool    `json:"normalize,omitempty" yaml:"normalize,omitempty"`
	Symbols   bool    `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	Invert    bool    `json:"invert,omitempty" yaml:"invert,omitempty"`
	German    *German `json:"german,omitempty" yaml:"german,omitempty"`
}

// 📚 Config represents a complete run
type Config struct {
	Scope              string     `json:"scope,omitempty" yaml:"scope,omitempty"`
	Literal            bool       `json:"literal,omitempty" yaml:"literal,omitempty"`
	Replacement        *string    `json:"replacement,omitempty" yaml:"replacement,omitempty"`
	Languages          []Language `json:"languages,omitempty" yaml:"languages,omitempty"`
	JoinLanguageScopes bool       `json:"join_language_scopes,omitempty" yaml:"join_language_scopes,omitempty"`
	Actions            Actions    `json:"actions,omitempty" yaml:"actions,omitempty"`

	Glob        string `json:"glob,omitempty" yaml:"glob,omitempty"`
	FailAny     bool   `json:"fail_any,omitempty" yaml:"fail_any,omitempty"`
	FailNone    bool   `json:"fail_none,omitempty" yaml:"fail_none,omitempty"`
	FailNoFiles bool   `json:"fail_no_files,omitempty" yaml:"fail_no_files,omitempty"`
	Sorted      bool   `json:"sorted,omitempty" yaml:"sorted,omitempty"`
	Threads     int    `json:"threads,omitempty" yaml:"threads,omitempty"`
	DryRun      bool   `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	PerGroup    bool   `json:"per_group,omitempty" yaml:"per_group,omitempty"`
}

// 🎯 Load reads, parses and validates a config file
func Load(ctx context.Context, fs afero.Fs, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	if cfg.Threads < 0 {
		return errors.Errorf("%w: threads must not be negative, got %d", ErrInvalidConfig, cfg.Threads)
	}
	if cfg.Threads == 0 {
		cfg.Threads = runtime.NumCPU()
	}

	if cfg.Literal && cfg.Scope == "" {
		return errors.Errorf("%w: literal scope is empty", ErrInvalidConfig)
	}

	if cfg.FailAny && cfg.FailNone {
		return errors.Errorf("%w: fail_any and fail_none cannot both be set", ErrInvalidConfig)
	}

	if cfg.Glob != "" && !doublestar.ValidatePattern(cfg.Glob) {
		return errors.Errorf("%w: bad glob pattern %q", ErrInvalidConfig, cfg.Glob)
	}

	for i := range cfg.Languages {
		l := &cfg.Languages[i]
		lang, err := langs.Lookup(l.Name)
		if err != nil {
			return errors.Errorf("%w: languages[%d]: %v", ErrInvalidConfig, i, err)
		}
		l.Name = lang.Name

		if len(l.Queries) == 0 && len(l.Custom) == 0 {
			return errors.Errorf("%w: language %s has no queries", ErrInvalidConfig, l.Name)
		}
		for _, name := range l.Queries {
			if _, err := lang.Prepared(name); err != nil {
				return errors.Errorf("%w: %v", ErrInvalidConfig, err)
			}
		}
	}

	return nil
}

// Scoped reports whether the config narrows the input at all
func (cfg *Config) Scoped() bool {
	return cfg.Scope != "" || len(cfg.Languages) > 0
}

// 📝 String returns a short description of the run
func (cfg *Config) String() string {
	parts := []string{}
	for _, l := range cfg.Languages {
		queries := append(append([]string{}, l.Queries...), repeat("custom", len(l.Custom))...)
		parts = append(parts, fmt.Sprintf("%s(%s)", l.Name, strings.Join(queries, ",")))
	}
	if cfg.Scope != "" {
		kind := "regex"
		if cfg.Literal {
			kind = "literal"
		}
		parts = append(parts, fmt.Sprintf("%s %q", kind, cfg.Scope))
	}
	if len(parts) == 0 {
		parts = append(parts, "global")
	}
	return strings.Join(parts, " & ")
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}
