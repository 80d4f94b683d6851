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
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/scopegrep/cmd/scopegrep/commands"
	"github.com/walteh/scopegrep/cmd/scopegrep/opts"
	"github.com/walteh/scopegrep/pkg/langs"
	"github.com/walteh/scopegrep/pkg/log"
)

func main() {
	ctx := setupLogging()
	zlog := *zerolog.Ctx(ctx)

	o := &opts.RootOpts{
		Fs:              afero.NewOsFs(),
		Stdin:           os.Stdin,
		Stdout:          os.Stdout,
		Report:          log.New(os.Stdout, zlog),
		Console:         log.New(os.Stderr, zlog),
		StdinIsTerminal: isTerminal(os.Stdin),
		Color:           isTerminal(os.Stderr),
	}

	if err := NewCommand(o).ExecuteContext(ctx); err != nil {
		o.Console.Error(err.Error())
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewCommand builds the scopegrep command tree around o
func NewCommand(o *opts.RootOpts) *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "scopegrep [flags] [SCOPE] [REPLACEMENT]",
		Short: "A grep that understands source code",
		Long: fmt.Sprintf(`scopegrep narrows text to a scope, then acts on only that part.

A scope is a regular expression (or a literal string with -L), optionally
limited to parts of source code such as comments or strings with language
flags like --go comments. Without actions the in-scope lines are printed;
with a REPLACEMENT or action flags the in-scope text is rewritten.

Text is read from stdin and written to stdout. With --glob, or with a
language flag and nothing piped in, matching files are rewritten in place.

Languages: %s. Run "scopegrep queries" to list their prepared queries.`, strings.Join(langs.Names(), ", ")),
		Example: `  echo 'Hello World' | scopegrep '[wW]orld' there
  scopegrep --python doc-strings 'GNU' 'GNU 🐂' < gnu.py
  scopegrep --go comments --upper --dry-run
  scopegrep --glob '**/*.md' --symbols '\->'`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			f.applyLogLevel()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := buildConfig(ctx, cmd, o, f, args)
			if err != nil {
				return err
			}
			o.Config = cfg

			return commands.Run(ctx, o)
		},
	}

	addRootFlags(cmd, f)

	cmd.AddCommand(
		commands.NewQueriesCmd(o),
		newVersionCmd(),
	)

	return cmd
}
