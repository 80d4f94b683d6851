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
	"runtime"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/scopegrep/pkg/provider"
	"github.com/walteh/scopegrep/pkg/status"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// ErrNotText marks an input that is not valid UTF-8
var ErrNotText = errors.Base("input is not valid UTF-8")

// 📤 Sink receives every result once it is final. Calls never overlap.
type Sink func(ctx context.Context, res Result) error

// 🔧 RunOptions are the run-level policies
type RunOptions struct {
	// Threads bounds concurrent units; zero means one per CPU
	Threads int
	// Sorted processes units one by one in path order
	Sorted bool
	// DryRun never writes files back
	DryRun      bool
	FailNone    bool
	FailNoFiles bool
}

// 📊 Summary counts the outcomes of a run
type Summary struct {
	Units     int
	Modified  int
	Matched   int
	Unchanged int
	Skipped   int
	Failed    int
	Warnings  int
	// HadMatch is true when any unit had in-scope text
	HadMatch bool
}

func (s *Summary) add(res Result) {
	s.Units++
	s.Warnings += len(res.Warnings)
	s.HadMatch = s.HadMatch || res.HadMatch
	switch res.Status {
	case status.StatusModified:
		s.Modified++
	case status.StatusMatched:
		s.Matched++
	case status.StatusSkipped:
		s.Skipped++
	case status.StatusFailed:
		s.Failed++
	default:
		s.Unchanged++
	}
}

// 🏃 Runner feeds units from a provider through an engine
type Runner struct {
	engine   *Engine
	provider provider.Provider
	files    status.FileManager
	reporter status.StatusReporter
	sink     Sink
	opts     RunOptions

	mu        sync.Mutex
	summary   Summary
	errs      error
	processed int
}

func NewRunner(engine *Engine, p provider.Provider, files status.FileManager, reporter status.StatusReporter, sink Sink, opts RunOptions) *Runner {
	if opts.Threads <= 0 {
		opts.Threads = runtime.NumCPU()
	}
	if sink == nil {
		sink = func(context.Context, Result) error { return nil }
	}
	return &Runner{
		engine:   engine,
		provider: p,
		files:    files,
		reporter: reporter,
		sink:     sink,
		opts:     opts,
	}
}

// 🚀 Run processes every unit. Per-unit failures do not stop the run; they
// are combined into the returned error together with policy failures.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	logger := zerolog.Ctx(ctx)

	units, err := r.provider.ListUnits(ctx)
	if err != nil {
		return Summary{}, errors.Errorf("listing inputs: %w", err)
	}

	if len(units) == 0 {
		logger.Warn().Msg("no inputs found")
		if r.opts.FailNoFiles {
			return Summary{}, errors.WithStack(ErrFailNoFiles)
		}
	}

	r.reporter.StartOperation(ctx, len(units))

	if r.opts.Sorted {
		err = r.runSorted(ctx, units)
	} else {
		err = r.runParallel(ctx, units)
	}
	if err != nil {
		return r.summary, err
	}

	r.reporter.FinishOperation(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.opts.FailNone && !r.summary.HadMatch {
		r.errs = multierr.Append(r.errs, errors.WithStack(ErrFailNone))
	}

	logger.Debug().
		Int("units", r.summary.Units).
		Int("modified", r.summary.Modified).
		Int("matched", r.summary.Matched).
		Int("failed", r.summary.Failed).
		Msg("run finished")

	return r.summary, r.errs
}

func (r *Runner) runSorted(ctx context.Context, units []string) error {
	sorted := append([]string(nil), units...)
	sort.Strings(sorted)

	for _, path := range sorted {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("run cancelled: %w", err)
		}
		r.finish(ctx, r.process(ctx, path))
	}
	return nil
}

func (r *Runner) runParallel(ctx context.Context, units []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Threads)

	for _, path := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.finish(ctx, r.process(gctx, path))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Errorf("run cancelled: %w", err)
	}
	return nil
}

func (r *Runner) process(ctx context.Context, path string) Result {
	content, err := provider.ReadUnit(ctx, r.provider, path)
	unit := Unit{Path: path, Content: string(content)}
	if err != nil {
		return Result{Unit: unit, Status: status.StatusFailed, Err: err}
	}

	if !utf8.Valid(content) {
		return Result{
			Unit:     unit,
			Output:   unit.Content,
			Status:   status.StatusSkipped,
			Warnings: Warnings{errors.Errorf("%w: %s", ErrNotText, unit)},
		}
	}

	return r.engine.Process(ctx, unit)
}

// finish writes, tracks and sinks one result; results are finished one at
// a time
func (r *Runner) finish(ctx context.Context, res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res.Status == status.StatusModified && r.provider.Writable() && !r.opts.DryRun {
		if err := r.files.WriteFileAtomic(ctx, res.Unit.Path, []byte(res.Output)); err != nil {
			res.Status = status.StatusFailed
			res.Err = errors.Errorf("writing %s: %w", res.Unit, err)
		}
	}

	r.reporter.TrackFile(ctx, status.FileInfo{
		Path:     res.Unit.Path,
		Status:   res.Status,
		Language: res.Language,
		Lines:    len(res.Report),
		Size:     int64(len(res.Output)),
		Checksum: status.Checksum([]byte(res.Output)),
		Error:    res.Err,
	})

	if err := r.sink(ctx, res); err != nil {
		r.errs = multierr.Append(r.errs, errors.Errorf("emitting %s: %w", res.Unit, err))
	}
	if res.Err != nil {
		r.errs = multierr.Append(r.errs, res.Err)
	}

	r.summary.add(res)
	r.processed++
	r.reporter.UpdateProgress(ctx, r.processed)
}
