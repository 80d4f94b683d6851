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

package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	langWidth   = 12 // Width for language
	statusWidth = 10 // Width for status text
)

// 🖍️ FormatFileOperation renders one outcome as an aligned, colored line
func FormatFileOperation(info FileInfo) string {
	var prefix string
	switch info.Status {
	case StatusModified:
		prefix = color.YellowString("⟳")
	case StatusMatched:
		prefix = color.GreenString("✓")
	case StatusFailed:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	lang := info.Language
	if lang == "" {
		lang = "-"
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, displayPath(info.Path))
	langPart := fmt.Sprintf("%-*s", langWidth, lang)
	statusPart := fmt.Sprintf("%-*s", statusWidth, info.Status)

	line := fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		langPart,
		statusPart,
	)
	if info.Error != nil {
		line += " " + color.RedString("%v", info.Error)
	}
	return strings.TrimRight(line, " ")
}

// 🎨 ColorFileFormatter is a FileFormatter producing aligned, colored lines
type ColorFileFormatter struct {
	DefaultFileFormatter
}

func (f *ColorFileFormatter) FormatFileResult(info FileInfo) string {
	return FormatFileOperation(info)
}
