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

package operation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/scopegrep/pkg/actions"
	"github.com/walteh/scopegrep/pkg/config"
	"github.com/walteh/scopegrep/pkg/german"
	"github.com/walteh/scopegrep/pkg/langs"
	"github.com/walteh/scopegrep/pkg/scoping"
	"github.com/walteh/scopegrep/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrFailAny is returned for an input with in-scope text when that is
	// asked to be a failure
	ErrFailAny = errors.Base("input has in-scope text")
	// ErrFailNone is returned when no input had in-scope text and that is
	// asked to be a failure
	ErrFailNone = errors.Base("no input has in-scope text")
	// ErrFailNoFiles is returned when discovery found nothing and that is
	// asked to be a failure
	ErrFailNoFiles = errors.Base("no input files found")
)

// 📄 Unit is one input: a file, or stdin when Path is empty
type Unit struct {
	Path    string
	Content string
}

func (u Unit) String() string {
	if u.Path == "" {
		return "<stdin>"
	}
	return u.Path
}

// 📦 Result is the outcome of processing one unit
type Result struct {
	Unit     Unit
	Language string
	Status   status.FileStatus
	// Output is the rendered text; it equals the input unless Status is
	// StatusModified
	Output string
	// Report holds the in-scope lines in search mode
	Report   []ReportLine
	HadMatch bool
	Warnings Warnings
	Err      error
}

// 🌐 LanguageScope holds the compiled queries of one language
type LanguageScope struct {
	Language *langs.Language
	Queries  []*langs.Query
}

// 🗺️ Plan is everything compiled once and shared by all units
type Plan struct {
	Languages          []LanguageScope
	JoinLanguageScopes bool
	// Scope is the regular expression or literal applied after languages
	Scope    scoping.Scoper
	Pipeline []scoping.Action
	Squeeze  bool
	PerGroup bool
	FailAny  bool
}

// Scoped reports whether the plan narrows the global scope
func (p *Plan) Scoped() bool {
	return len(p.Languages) > 0 || p.Scope != nil
}

// Search reports whether units produce search reports instead of output
func (p *Plan) Search() bool {
	return len(p.Pipeline) == 0 && !p.Squeeze
}

// 🪜 StepsFor returns the scoping steps for unit and the language chosen for
// it. ok is false when languages are configured and none fits the unit.
// Stdin always uses the first language.
func (p *Plan) StepsFor(unit Unit) (steps []Step, language string, ok bool) {
	if len(p.Languages) > 0 {
		ls, found := p.languageFor(unit)
		if !found {
			return nil, "", false
		}
		language = ls.Language.Name

		for i, q := range ls.Queries {
			mode := ModeIntersect
			if p.JoinLanguageScopes && i > 0 {
				mode = ModeUnion
			}
			steps = append(steps, Step{
				Name:   fmt.Sprintf("%s query %d", language, i),
				Scoper: q,
				Mode:   mode,
			})
		}
	}

	if p.Scope != nil {
		steps = append(steps, Step{Name: "scope", Scoper: p.Scope, Mode: ModeIntersect})
	}

	return steps, language, true
}

func (p *Plan) languageFor(unit Unit) (LanguageScope, bool) {
	if unit.Path == "" {
		return p.Languages[0], true
	}
	head := []byte(unit.Content)
	for _, ls := range p.Languages {
		if ls.Language.Matches(unit.Path, head) {
			return ls, true
		}
	}
	return LanguageScope{}, false
}

// ⚙️ Engine turns units into results. It is safe for concurrent use.
type Engine struct {
	plan *Plan
}

func (e *Engine) Plan() *Plan {
	return e.plan
}

// 🏭 NewEngine compiles cfg. fs is used to read an extra German word list.
func NewEngine(ctx context.Context, cfg *config.Config, fs afero.Fs) (*Engine, error) {
	logger := zerolog.Ctx(ctx)

	plan := &Plan{
		JoinLanguageScopes: cfg.JoinLanguageScopes,
		Squeeze:            cfg.Actions.Squeeze,
		PerGroup:           cfg.PerGroup,
		FailAny:            cfg.FailAny,
	}

	cache := langs.NewCache()
	for _, l := range cfg.Languages {
		lang, err := langs.Lookup(l.Name)
		if err != nil {
			return nil, errors.Errorf("compiling languages: %w", err)
		}

		ls := LanguageScope{Language: lang}
		for _, name := range l.Queries {
			prepared, err := lang.Prepared(name)
			if err != nil {
				return nil, errors.Errorf("compiling languages: %w", err)
			}
			q, err := cache.Get(lang, prepared.Source)
			if err != nil {
				return nil, errors.Errorf("compiling %s query %s: %w", lang.Name, name, err)
			}
			ls.Queries = append(ls.Queries, q)
		}
		for i, source := range l.Custom {
			q, err := cache.Get(lang, source)
			if err != nil {
				return nil, errors.Errorf("compiling %s custom query %d: %w", lang.Name, i, err)
			}
			ls.Queries = append(ls.Queries, q)
		}
		plan.Languages = append(plan.Languages, ls)
	}

	// groups the final scope can produce; nil skips the static check
	var groups []scoping.CaptureGroup
	if cfg.Scope != "" {
		if cfg.Literal {
			lit, err := scoping.NewLiteral(cfg.Scope)
			if err != nil {
				return nil, errors.Errorf("compiling literal scope: %w", err)
			}
			plan.Scope = lit
			groups = []scoping.CaptureGroup{scoping.Numbered(0)}
		} else {
			re, err := scoping.NewRegex(cfg.Scope)
			if err != nil {
				return nil, errors.Errorf("compiling scope: %w", err)
			}
			plan.Scope = re
			groups = re.Groups()
			logger.Debug().Str("pattern", re.String()).Bool("fancy", re.IsFancy()).Msg("compiled scope")
		}
	} else {
		groups = []scoping.CaptureGroup{}
	}

	opts := actions.Options{
		Replacement: cfg.Replacement,
		Groups:      groups,
		Delete:      cfg.Actions.Delete,
		Squeeze:     cfg.Actions.Squeeze,
		Upper:       cfg.Actions.Upper,
		Lower:       cfg.Actions.Lower,
		Titlecase:   cfg.Actions.Titlecase,
		Normalize:   cfg.Actions.Normalize,
		Symbols:     cfg.Actions.Symbols,
		Invert:      cfg.Actions.Invert,
	}
	if g := cfg.Actions.German; g != nil {
		opts.German = true
		opts.GermanPreferOriginal = g.PreferOriginal
		opts.GermanNaive = g.Naive
		if g.Words != "" {
			words, err := german.LoadWordList(fs, g.Words)
			if err != nil {
				return nil, errors.Errorf("loading german words: %w", err)
			}
			opts.GermanWords = words
		}
	}

	pipeline, err := actions.Build(opts, plan.Scoped())
	if err != nil {
		return nil, errors.Errorf("building actions: %w", err)
	}
	plan.Pipeline = pipeline

	logger.Debug().
		Int("languages", len(plan.Languages)).
		Bool("scoped", plan.Scoped()).
		Int("actions", len(plan.Pipeline)).
		Bool("search", plan.Search()).
		Msg("compiled plan")

	return &Engine{plan: plan}, nil
}

// 🔄 Process scopes and transforms one unit. Failures are reported in the
// result, never returned.
func (e *Engine) Process(ctx context.Context, unit Unit) Result {
	logger := zerolog.Ctx(ctx).With().Str("unit", unit.String()).Logger()

	res := Result{Unit: unit, Output: unit.Content, Status: status.StatusUnchanged}

	steps, language, ok := e.plan.StepsFor(unit)
	if !ok {
		res.Status = status.StatusSkipped
		logger.Debug().Msg("no language fits, skipping")
		return res
	}
	res.Language = language

	view, warnings, err := BuildView(logger.WithContext(ctx), unit.Content, steps)
	res.Warnings = warnings
	for _, w := range warnings {
		logger.Warn().Err(w).Msg("scoping degraded")
	}
	if err != nil {
		res.Status = status.StatusFailed
		res.Err = errors.Errorf("scoping %s: %w", unit, err)
		return res
	}

	if e.plan.PerGroup {
		view.ExplodeCaptures()
	}

	res.HadMatch = view.HasAnyInScope()

	if e.plan.FailAny && res.HadMatch {
		res.Status = status.StatusFailed
		res.Err = errors.Errorf("%w: %s", ErrFailAny, unit)
		return res
	}

	if !res.HadMatch {
		logger.Trace().Msg("nothing in scope")
		return res
	}

	if e.plan.Search() {
		res.Report = SearchReport(view)
		res.Status = status.StatusMatched
		return res
	}

	output, _, err := Render(view, e.plan.Pipeline, e.plan.Squeeze)
	if err != nil {
		res.Status = status.StatusFailed
		res.Err = errors.Errorf("transforming %s: %w", unit, err)
		return res
	}

	res.Output = output
	if output != unit.Content {
		res.Status = status.StatusModified
	}
	return res
}
