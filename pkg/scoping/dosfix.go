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

package scoping

import "strings"

// fixDOSLineEndings keeps CRLF pairs together. Patterns like `.*` stop before
// `\n` but happily eat the `\r` in front of it, which would leave a lone `\r`
// in scope for actions to mangle. The `\r` is handed to the following
// out-of-scope segment instead.
func fixDOSLineEndings(segments []Segment) []Segment {
	for i := 0; i+1 < len(segments); i++ {
		cur, next := &segments[i], &segments[i+1]
		if cur.Scope != In || next.Scope != Out {
			continue
		}
		if !strings.HasSuffix(cur.Text, "\r") || !strings.HasPrefix(next.Text, "\n") {
			continue
		}
		untrimmed := cur.Text
		cur.Text = strings.TrimSuffix(cur.Text, "\r")
		cur.groups = clampGroups(cur.groups, len(cur.Text))
		cur.Captures = trimCaptures(cur.Captures, untrimmed, cur.Text, cur.groups)
		next.Text = "\r" + next.Text
	}
	return compact(segments)
}

func clampGroups(groups []Group, limit int) []Group {
	out := groups[:0:0]
	for _, g := range groups {
		if g.Span.Start >= limit {
			continue
		}
		g.Span.End = min(g.Span.End, limit)
		out = append(out, g)
	}
	return out
}

// trimCaptures returns captures matching a segment whose trailing `\r` was
// cut. With groups at hand they are rebuilt from the clamped spans; without
// them only captures spanning the whole untrimmed text are trimmed. The input
// map may be shared with other segments and is never modified.
func trimCaptures(captures Captures, untrimmed, trimmed string, groups []Group) Captures {
	if captures == nil {
		return nil
	}

	out := make(Captures, len(captures))
	if len(groups) == 0 {
		for g, text := range captures {
			if text == untrimmed {
				text = trimmed
			}
			out[g] = text
		}
		return out
	}

	for _, g := range groups {
		text := trimmed[g.Span.Start:g.Span.End]
		out[Numbered(g.Number)] = text
		if g.Name != "" {
			out[Named(g.Name)] = text
		}
	}
	return out
}
