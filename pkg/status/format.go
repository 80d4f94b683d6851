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
)

// 🎨 FileFormatter defines how to format status messages
type FileFormatter interface {
	// FormatFileResult formats the outcome of one input
	FormatFileResult(info FileInfo) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// 🎨 DefaultFileFormatter provides emoji-rich formatting
type DefaultFileFormatter struct{}

func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

func displayPath(path string) string {
	if path == "" {
		return "<stdin>"
	}
	return path
}

func (f *DefaultFileFormatter) FormatFileResult(info FileInfo) string {
	path := displayPath(info.Path)
	switch info.Status {
	case StatusModified:
		return fmt.Sprintf("📝 Modified %s", path)
	case StatusMatched:
		return fmt.Sprintf("🔎 Matched %s (%d lines)", path, info.Lines)
	case StatusSkipped:
		return fmt.Sprintf("⏭️  Skipped %s", path)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s", path)
	default:
		return fmt.Sprintf("👍 Unchanged %s", path)
	}
}

func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
