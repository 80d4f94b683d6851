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
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files. Expressions
// can read the environment through `env.NAME` and call a few string
// functions.
type HCLParser struct {
	// Environ replaces os.Environ when set
	Environ func() []string
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

type hclGerman struct {
	PreferOriginal bool   `hcl:"prefer_original,optional"`
	Naive          bool   `hcl:"naive,optional"`
	Words          string `hcl:"words,optional"`
}

type hclActions struct {
	Delete    bool       `hcl:"delete,optional"`
	Squeeze   bool       `hcl:"squeeze,optional"`
	Upper     bool       `hcl:"upper,optional"`
	Lower     bool       `hcl:"lower,optional"`
	Titlecase bool       `hcl:"titlecase,optional"`
	Normalize bool       `hcl:"normalize,optional"`
	Symbols   bool       `hcl:"symbols,optional"`
	Invert    bool       `hcl:"invert,optional"`
	German    *hclGerman `hcl:"german,block"`
}

type hclLanguage struct {
	Name    string   `hcl:"name,label"`
	Queries []string `hcl:"queries,optional"`
	Custom  []string `hcl:"custom,optional"`
}

type hclConfig struct {
	Scope              string        `hcl:"scope,optional"`
	Literal            bool          `hcl:"literal,optional"`
	Replacement        *string       `hcl:"replacement,optional"`
	Languages          []hclLanguage `hcl:"language,block"`
	JoinLanguageScopes bool          `hcl:"join_language_scopes,optional"`
	Actions            *hclActions   `hcl:"actions,block"`
	Glob               string        `hcl:"glob,optional"`
	FailAny            bool          `hcl:"fail_any,optional"`
	FailNone           bool          `hcl:"fail_none,optional"`
	FailNoFiles        bool          `hcl:"fail_no_files,optional"`
	Sorted             bool          `hcl:"sorted,optional"`
	Threads            int           `hcl:"threads,optional"`
	DryRun             bool          `hcl:"dry_run,optional"`
	PerGroup           bool          `hcl:"per_group,optional"`
}

func (p *HCLParser) evalContext() *hcl.EvalContext {
	environ := os.Environ
	if p.Environ != nil {
		environ = p.Environ
	}

	env := map[string]cty.Value{}
	for _, kv := range environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !hclIdentifier(name) {
			continue
		}
		env[name] = cty.StringVal(value)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
		Functions: map[string]function.Function{
			"upper":  stdlib.UpperFunc,
			"lower":  stdlib.LowerFunc,
			"join":   stdlib.JoinFunc,
			"format": stdlib.FormatFunc,
		},
	}
}

func hclIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r == '-' || r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return s != ""
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, p.evalContext(), &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Scope:              hclCfg.Scope,
		Literal:            hclCfg.Literal,
		Replacement:        hclCfg.Replacement,
		JoinLanguageScopes: hclCfg.JoinLanguageScopes,
		Glob:               hclCfg.Glob,
		FailAny:            hclCfg.FailAny,
		FailNone:           hclCfg.FailNone,
		FailNoFiles:        hclCfg.FailNoFiles,
		Sorted:             hclCfg.Sorted,
		Threads:            hclCfg.Threads,
		DryRun:             hclCfg.DryRun,
		PerGroup:           hclCfg.PerGroup,
	}

	for _, l := range hclCfg.Languages {
		cfg.Languages = append(cfg.Languages, Language{
			Name:    l.Name,
			Queries: l.Queries,
			Custom:  l.Custom,
		})
	}

	if a := hclCfg.Actions; a != nil {
		cfg.Actions = Actions{
			Delete:    a.Delete,
			Squeeze:   a.Squeeze,
			Upper:     a.Upper,
			Lower:     a.Lower,
			Titlecase: a.Titlecase,
			Normalize: a.Normalize,
			Symbols:   a.Symbols,
			Invert:    a.Invert,
		}
		if g := a.German; g != nil {
			cfg.Actions.German = &German{
				PreferOriginal: g.PreferOriginal,
				Naive:          g.Naive,
				Words:          g.Words,
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}
