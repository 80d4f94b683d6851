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

package text

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

var ErrInvalidEscape = errors.Base("invalid escape sequence")

var simpleEscapes = map[byte]string{
	'\\': "\\",
	'n':  "\n",
	't':  "\t",
	'r':  "\r",
	'0':  "\x00",
	'\'': "'",
	'"':  "\"",
	'/':  "/",
	'b':  "\b",
	'f':  "\f",
}

// 🔓 Unescape resolves backslash escapes as typed on a command line.
// Supported: \\ \n \t \r \0 \' \" \/ \b \f \xHH \uHHHH \u{H...}.
// Anything else after a backslash is an error, as is a trailing backslash.
func Unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}

		i++
		if i >= len(s) {
			return "", errors.Errorf("%w: trailing backslash in %q", ErrInvalidEscape, s)
		}

		if rep, ok := simpleEscapes[s[i]]; ok {
			b.WriteString(rep)
			continue
		}

		switch s[i] {
		case 'x':
			if i+3 > len(s) {
				return "", errors.Errorf("%w: short \\x escape in %q", ErrInvalidEscape, s)
			}
			r, err := parseHexRune(s[i+1 : i+3])
			if err != nil || r > 0x7f {
				return "", errors.Errorf("%w: bad \\x escape in %q", ErrInvalidEscape, s)
			}
			b.WriteRune(r)
			i += 2
		case 'u':
			r, consumed, err := parseUnicodeEscape(s[i+1:])
			if err != nil {
				return "", errors.Errorf("%w: %v in %q", ErrInvalidEscape, err, s)
			}
			b.WriteRune(r)
			i += consumed
		default:
			return "", errors.Errorf("%w: \\%c in %q", ErrInvalidEscape, s[i], s)
		}
	}

	return b.String(), nil
}

// parseUnicodeEscape reads what follows `\u`: either four hex digits or a
// braced run of one to six. It returns the rune and the bytes consumed.
func parseUnicodeEscape(rest string) (rune, int, error) {
	if strings.HasPrefix(rest, "{") {
		end := strings.IndexByte(rest, '}')
		if end < 2 || end > 7 {
			return 0, 0, errors.New("bad \\u{...} escape")
		}
		r, err := parseHexRune(rest[1:end])
		if err != nil {
			return 0, 0, err
		}
		return r, end + 1, nil
	}

	if len(rest) < 4 {
		return 0, 0, errors.New("short \\u escape")
	}
	r, err := parseHexRune(rest[:4])
	if err != nil {
		return 0, 0, err
	}
	return r, 4, nil
}

func parseHexRune(hex string) (rune, error) {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, errors.Errorf("bad hex %q: %w", hex, err)
	}
	r := rune(v)
	if !utf8.ValidRune(r) {
		return 0, errors.Errorf("invalid code point %q", hex)
	}
	return r, nil
}
