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

package commands

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/scopegrep/cmd/scopegrep/opts"
	"github.com/walteh/scopegrep/pkg/langs"
	"github.com/walteh/scopegrep/pkg/operation"
	"github.com/walteh/scopegrep/pkg/provider"
	"github.com/walteh/scopegrep/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ErrNoInput is returned when nothing is piped in and no files were asked for
var ErrNoInput = errors.Base("no input: pipe text on stdin, or pass --glob or a language flag")

// 🚀 Run executes one configured run: stdin to stdout, or files in place
func Run(ctx context.Context, o *opts.RootOpts) error {
	cfg := o.Config
	logger := zerolog.Ctx(ctx)

	engine, err := operation.NewEngine(ctx, cfg, o.Fs)
	if err != nil {
		return errors.Errorf("preparing run: %w", err)
	}

	files := o.UseFiles()
	if !files && o.StdinIsTerminal {
		return errors.WithStack(ErrNoInput)
	}

	name := "stdin"
	if files {
		name = "fs"
	}

	languages := make([]*langs.Language, 0, len(engine.Plan().Languages))
	for _, l := range engine.Plan().Languages {
		languages = append(languages, l.Language)
	}

	p, err := provider.Get(ctx, name, provider.Args{
		Fs:        o.Fs,
		Glob:      cfg.Glob,
		Languages: languages,
		Stdin:     o.Stdin,
	})
	if err != nil {
		return errors.Errorf("creating %s provider: %w", name, err)
	}

	mgr := status.New(o.Fs, logger)
	if o.Color {
		mgr.WithFormatter(&status.ColorFileFormatter{})
	}

	logger.Debug().Str("input", name).Stringer("config", cfg).Msg("starting run")

	runner := operation.NewRunner(engine, p, mgr, mgr, newSink(o, files, engine.Plan().Search()), operation.RunOptions{
		Threads:     cfg.Threads,
		Sorted:      cfg.Sorted,
		DryRun:      cfg.DryRun,
		FailNone:    cfg.FailNone,
		FailNoFiles: cfg.FailNoFiles,
	})

	summary, err := runner.Run(ctx)
	if files {
		o.Console.Summary(ctx, summary, cfg.DryRun)
	}
	if err != nil {
		return errors.Errorf("running: %w", err)
	}
	return nil
}

// newSink prints results. Stdin gets the rendered text (or the search
// report) on stdout; files get a report, a diff or a status line each.
func newSink(o *opts.RootOpts, files, search bool) operation.Sink {
	return func(ctx context.Context, res operation.Result) error {
		for _, w := range res.Warnings {
			o.Console.Warningf("%s: %v", res.Unit, w)
		}

		if !files {
			switch {
			case res.Status == status.StatusMatched:
				o.Report.LogMatches(ctx, "", res.Report)
			case res.Status == status.StatusFailed, res.Status == status.StatusSkipped:
			case search:
			default:
				if _, err := io.WriteString(o.Stdout, res.Output); err != nil {
					return errors.Errorf("writing output: %w", err)
				}
			}
			return nil
		}

		switch res.Status {
		case status.StatusMatched:
			o.Report.LogMatches(ctx, res.Unit.Path, res.Report)
		case status.StatusModified:
			if o.Config.DryRun {
				o.Console.LogDiff(ctx, res.Unit.Path, res.Unit.Content, res.Output)
				return nil
			}
			o.Console.LogFileResult(ctx, resultInfo(res))
		case status.StatusFailed:
			o.Console.LogFileResult(ctx, resultInfo(res))
		}
		return nil
	}
}

func resultInfo(res operation.Result) status.FileInfo {
	return status.FileInfo{
		Path:     res.Unit.Path,
		Status:   res.Status,
		Language: res.Language,
		Error:    res.Err,
	}
}
