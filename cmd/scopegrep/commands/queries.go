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
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/walteh/scopegrep/cmd/scopegrep/opts"
	"github.com/walteh/scopegrep/pkg/langs"
	"gitlab.com/tozd/go/errors"
)

const queryNameWidth = 16

// NewQueriesCmd creates the command listing languages and their prepared queries
func NewQueriesCmd(opts *opts.RootOpts) *cobra.Command {
	var showSource bool

	cmd := &cobra.Command{
		Use:   "queries [LANG]",
		Short: "List the prepared queries of each language",
		Long: `Queries lists every supported language with the file extensions it is
picked for and the prepared queries its flag accepts. Pass a language name
or alias to list only that language; --source also prints each query.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			languages := langs.All()
			if len(args) == 1 {
				l, err := langs.Lookup(args[0])
				if err != nil {
					return errors.Errorf("listing queries: %w", err)
				}
				languages = []*langs.Language{l}
			}

			out := cmd.OutOrStdout()
			for i, l := range languages {
				if i > 0 {
					fmt.Fprintln(out)
				}
				writeLanguage(out, l, showSource)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSource, "source", false, "print the tree-sitter source of each query")

	return cmd
}

func writeLanguage(out io.Writer, l *langs.Language, showSource bool) {
	header := color.New(color.FgMagenta, color.Bold).Sprint(l.Name)
	if len(l.Aliases) > 0 {
		header += color.HiBlackString(" (%s)", strings.Join(l.Aliases, ", "))
	}
	fmt.Fprintf(out, "%s  .%s\n", header, strings.Join(l.Extensions, " ."))

	for _, q := range l.Queries() {
		fmt.Fprintf(out, "  %s %s\n", color.GreenString("%-*s", queryNameWidth, q.Name), q.Description)
		if showSource {
			for _, line := range strings.Split(strings.TrimSpace(q.Source), "\n") {
				fmt.Fprintf(out, "      %s\n", color.HiBlackString(line))
			}
		}
	}
}
