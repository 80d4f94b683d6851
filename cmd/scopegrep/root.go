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

package main

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/walteh/scopegrep/cmd/scopegrep/opts"
	"github.com/walteh/scopegrep/pkg/config"
	"github.com/walteh/scopegrep/pkg/langs"
	"gitlab.com/tozd/go/errors"
)

// rootFlags holds every flag of one root command instance
type rootFlags struct {
	configFile string
	debug      bool
	trace      bool

	literal  bool
	join     bool
	perGroup bool
	glob     string

	failAny     bool
	failNone    bool
	failNoFiles bool
	sorted      bool
	threads     int
	dryRun      bool

	actions              config.Actions
	german               bool
	germanPreferOriginal bool
	germanNaive          bool
	germanWords          string

	// prepared and custom queries keyed by canonical language name
	queries map[string]*[]string
	custom  map[string]*[]string
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, f *rootFlags) {
	cmd.PersistentFlags().StringVarP(&f.configFile, "config", "c", "", "config file path (.yaml, .json or .hcl)")
	cmd.PersistentFlags().BoolVar(&f.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&f.trace, "trace", false, "enable trace logging")

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.BoolVarP(&f.literal, "literal-string", "L", false, "treat SCOPE as a literal string, not a regular expression")
	flags.StringVar(&f.glob, "glob", "", "process files matching this pattern in place instead of stdin")
	flags.BoolVarP(&f.join, "join-language-scopes", "j", false, "join the queries of a language instead of intersecting them")
	flags.BoolVar(&f.perGroup, "per-group", false, "apply actions to each capture group of SCOPE separately")

	flags.BoolVarP(&f.actions.Delete, "delete", "d", false, "delete in-scope text")
	flags.BoolVarP(&f.actions.Squeeze, "squeeze", "s", false, "collapse runs of in-scope text into one")
	flags.BoolVarP(&f.actions.Upper, "upper", "u", false, "upper-case in-scope text")
	flags.BoolVarP(&f.actions.Lower, "lower", "l", false, "lower-case in-scope text")
	flags.BoolVarP(&f.actions.Titlecase, "titlecase", "t", false, "title-case in-scope text")
	flags.BoolVarP(&f.actions.Normalize, "normalize", "n", false, "decompose and strip combining marks")
	flags.BoolVarP(&f.actions.Symbols, "symbols", "S", false, "replace ASCII symbol sequences with their Unicode forms")
	flags.BoolVar(&f.actions.Invert, "invert", false, "invert actions that can be inverted")
	flags.BoolVarP(&f.german, "german", "g", false, "restore German umlauts and eszett")
	flags.BoolVar(&f.germanPreferOriginal, "german-prefer-original", false, "keep words that are valid as written")
	flags.BoolVar(&f.germanNaive, "german-naive", false, "replace every candidate without checking the word list")
	flags.StringVar(&f.germanWords, "german-words", "", "file with extra German words, one per line")

	flags.BoolVar(&f.failAny, "fail-any", false, "fail when any input has in-scope text")
	flags.BoolVar(&f.failNone, "fail-none", false, "fail when no input has in-scope text")
	flags.BoolVar(&f.failNoFiles, "fail-no-files", false, "fail when no files are found")
	flags.BoolVar(&f.sorted, "sorted", false, "process files one by one in path order")
	flags.IntVar(&f.threads, "threads", 0, "number of files processed at once (default: one per CPU)")
	flags.BoolVar(&f.dryRun, "dry-run", false, "print a diff instead of writing files")

	f.queries = map[string]*[]string{}
	f.custom = map[string]*[]string{}
	for _, l := range langs.All() {
		f.queries[l.Name] = flags.StringSlice(l.Name, nil,
			"scope to "+l.Name+" query names, one of: "+strings.Join(l.QueryNames(), ", "))
		f.custom[l.Name] = flags.StringArray(l.Name+"-query", nil,
			"scope to a custom "+l.Name+" tree-sitter query")
	}

	cmd.SetGlobalNormalizationFunc(languageAliases)
}

// languageAliases lets `--py` stand for `--python` and `--py-query` for
// `--python-query`
func languageAliases(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	base, suffix := name, ""
	if b, ok := strings.CutSuffix(name, "-query"); ok {
		base, suffix = b, "-query"
	}
	if l, err := langs.Lookup(base); err == nil {
		return pflag.NormalizedName(l.Name + suffix)
	}
	return pflag.NormalizedName(name)
}

// setupLogging configures zerolog for the process. Logs go to stderr so
// stdout stays the filtered text.
func setupLogging() context.Context {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
	return log.WithContext(context.Background())
}

func (f *rootFlags) applyLogLevel() {
	switch {
	case f.trace:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case f.debug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// buildConfig merges the config file, explicitly set flags and the
// positional SCOPE and REPLACEMENT, in that order of increasing precedence
func buildConfig(ctx context.Context, cmd *cobra.Command, o *opts.RootOpts, f *rootFlags, args []string) (*config.Config, error) {
	cfg := &config.Config{}
	if f.configFile != "" {
		loaded, err := config.Load(ctx, o.Fs, f.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Scope = args[0]
	}
	if len(args) > 1 {
		replacement := args[1]
		cfg.Replacement = &replacement
	}

	flags := cmd.Flags()
	set := func(name string, dst *bool, v bool) {
		if flags.Changed(name) {
			*dst = v
		}
	}

	set("literal-string", &cfg.Literal, f.literal)
	set("join-language-scopes", &cfg.JoinLanguageScopes, f.join)
	set("per-group", &cfg.PerGroup, f.perGroup)
	set("delete", &cfg.Actions.Delete, f.actions.Delete)
	set("squeeze", &cfg.Actions.Squeeze, f.actions.Squeeze)
	set("upper", &cfg.Actions.Upper, f.actions.Upper)
	set("lower", &cfg.Actions.Lower, f.actions.Lower)
	set("titlecase", &cfg.Actions.Titlecase, f.actions.Titlecase)
	set("normalize", &cfg.Actions.Normalize, f.actions.Normalize)
	set("symbols", &cfg.Actions.Symbols, f.actions.Symbols)
	set("invert", &cfg.Actions.Invert, f.actions.Invert)
	set("fail-any", &cfg.FailAny, f.failAny)
	set("fail-none", &cfg.FailNone, f.failNone)
	set("fail-no-files", &cfg.FailNoFiles, f.failNoFiles)
	set("sorted", &cfg.Sorted, f.sorted)
	set("dry-run", &cfg.DryRun, f.dryRun)

	if flags.Changed("glob") {
		cfg.Glob = f.glob
	}
	if flags.Changed("threads") {
		cfg.Threads = f.threads
	}

	if f.german || f.germanPreferOriginal || f.germanNaive || f.germanWords != "" {
		if cfg.Actions.German == nil {
			cfg.Actions.German = &config.German{}
		}
		set("german-prefer-original", &cfg.Actions.German.PreferOriginal, f.germanPreferOriginal)
		set("german-naive", &cfg.Actions.German.Naive, f.germanNaive)
		if flags.Changed("german-words") {
			cfg.Actions.German.Words = f.germanWords
		}
	}

	for _, l := range langs.All() {
		if !flags.Changed(l.Name) && !flags.Changed(l.Name+"-query") {
			continue
		}
		cfg.Languages = setLanguage(cfg.Languages, config.Language{
			Name:    l.Name,
			Queries: *f.queries[l.Name],
			Custom:  *f.custom[l.Name],
		})
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating flags: %w", err)
	}

	if !cfg.Scoped() && !hasAction(cfg) {
		return nil, errors.Errorf("%w: nothing to do, give a SCOPE, a language or an action", config.ErrInvalidConfig)
	}

	return cfg, nil
}

// setLanguage replaces the entry for the same language or appends one
func setLanguage(languages []config.Language, l config.Language) []config.Language {
	for i := range languages {
		if canonical, err := langs.Lookup(languages[i].Name); err == nil && canonical.Name == l.Name {
			languages[i] = l
			return languages
		}
	}
	return append(languages, l)
}

func hasAction(cfg *config.Config) bool {
	a := cfg.Actions
	return cfg.Replacement != nil ||
		a.Delete || a.Squeeze || a.Upper || a.Lower || a.Titlecase ||
		a.Normalize || a.Symbols || a.German != nil
}
