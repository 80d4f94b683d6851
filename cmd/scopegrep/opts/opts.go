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

package opts

import (
	"io"

	"github.com/spf13/afero"
	"github.com/walteh/scopegrep/pkg/config"
	"github.com/walteh/scopegrep/pkg/log"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// Config is filled in by the root command before it runs
	Config *config.Config

	Fs     afero.Fs
	Stdin  io.Reader
	Stdout io.Writer

	// Report prints search results, Console prints everything else
	Report  *log.Logger
	Console *log.Logger

	// StdinIsTerminal is true when nothing is piped in
	StdinIsTerminal bool
	// Color enables colored status lines in debug logs
	Color bool
}

// UseFiles reports whether the run reads files rather than stdin. An explicit
// glob always means files; language flags mean files only when nothing is
// piped in.
func (o *RootOpts) UseFiles() bool {
	if o.Config == nil {
		return false
	}
	return o.Config.Glob != "" || (o.StdinIsTerminal && len(o.Config.Languages) > 0)
}
