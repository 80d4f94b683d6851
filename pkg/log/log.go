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

// Package log prints what a run found and changed for humans.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/walteh/scopegrep/pkg/operation"
	"github.com/walteh/scopegrep/pkg/status"
)

var (
	pathColor  = color.New(color.FgMagenta, color.Bold)
	lineColor  = color.New(color.FgGreen)
	matchColor = color.New(color.FgRed, color.Bold)
	addColor   = color.New(color.FgGreen)
	delColor   = color.New(color.FgRed)
)

// 📝 Logger writes human output to a console and mirrors it to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	printed int
}

// 🏭 New creates a logger writing to console
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

type contextKey struct{}

// FromContext returns the logger stored in ctx
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// NewContext stores l in ctx
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// Highlight colors the in-scope ranges of a report line
func Highlight(line operation.ReportLine) string {
	text := line.Text
	var b strings.Builder
	cursor := 0
	for _, r := range line.Ranges {
		b.WriteString(text[cursor:r.Start])
		b.WriteString(matchColor.Sprint(text[r.Start:r.End]))
		cursor = r.End
	}
	b.WriteString(text[cursor:])
	return b.String()
}

// 🔎 LogMatches prints the in-scope lines of one input. Files get a heading
// and a blank line between them; stdin is printed bare.
func (l *Logger) LogMatches(ctx context.Context, path string, lines []operation.ReportLine) {
	if len(lines) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if path != "" {
		if l.printed > 0 {
			fmt.Fprintln(l.console)
		}
		fmt.Fprintln(l.console, pathColor.Sprint(path))
	}
	for _, line := range lines {
		fmt.Fprintf(l.console, "%s:%s\n", lineColor.Sprint(line.Number), Highlight(line))
	}
	l.printed++

	l.zlog.Debug().Str("file", path).Int("lines", len(lines)).Msg("matches")
}

// 📄 LogFileResult prints one aligned line for a processed file
func (l *Logger) LogFileResult(ctx context.Context, info status.FileInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, status.FormatFileOperation(info))
	l.printed++
}

// 🔀 LogDiff prints a line diff of before and after
func (l *Logger) LogDiff(ctx context.Context, path string, before, after string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, pathColor.Sprint(path))
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				fmt.Fprintln(l.console, addColor.Sprint("+"+line))
			case diffmatchpatch.DiffDelete:
				fmt.Fprintln(l.console, delColor.Sprint("-"+line))
			}
		}
	}
	l.printed++
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// 📊 Summary prints the counts of a run
func (l *Logger) Summary(ctx context.Context, s operation.Summary, dryRun bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	modified := "modified"
	if dryRun {
		modified = "would modify"
	}

	msg := fmt.Sprintf("%d files: %d %s, %d matched, %d unchanged, %d skipped",
		s.Units, s.Modified, modified, s.Matched, s.Unchanged, s.Skipped)

	switch {
	case s.Failed > 0:
		pterm.Error.WithWriter(l.console).Println(fmt.Sprintf("%s, %d failed", msg, s.Failed))
	case s.Warnings > 0:
		pterm.Warning.WithWriter(l.console).Println(fmt.Sprintf("%s, %d warnings", msg, s.Warnings))
	default:
		pterm.Success.WithWriter(l.console).Println(msg)
	}

	l.zlog.Info().
		Int("units", s.Units).
		Int("modified", s.Modified).
		Int("matched", s.Matched).
		Int("failed", s.Failed).
		Int("warnings", s.Warnings).
		Bool("dry_run", dryRun).
		Msg("summary")
}

func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}
