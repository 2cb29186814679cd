// Copyright 2020-2021 Dolthub, Inc.
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

// Package lexer turns templated source text into the initial flat
// segment stream, using the active dialect's ordered, regex-like
// matchers. No third-party lexer-generator library in the example pack
// supports per-dialect runtime-configurable token sets (see DESIGN.md),
// so matchers compile down to stdlib regexp.Regexp.
package lexer

import (
	"regexp"

	"github.com/dolthub/sqrlint/dialect"
	"github.com/dolthub/sqrlint/segment"
	"github.com/dolthub/sqrlint/slice"
	goerrors "gopkg.in/src-d/go-errors.v1"
)

// ErrLex is raised when the templated source contains bytes that no
// matcher in the active dialect can consume.
var ErrLex = goerrors.NewKind("unable to lex source at byte %d: %q")

// compiledMatcher pairs a dialect.LexerMatcher with its compiled regexp.
// Patterns are anchored at the start of the remaining input (`\A`-style)
// by prefixing with `^` and matching against the unconsumed suffix.
type compiledMatcher struct {
	name string
	tag  segment.Type
	re   *regexp.Regexp
}

// Lexer holds the compiled matchers for one dialect.
type Lexer struct {
	matchers []compiledMatcher
}

// New compiles d's lexer matchers in declaration order. Earlier matchers
// take priority at a given position when multiple match (mirroring the
// dialect's intent that, e.g., keyword-shaped identifiers are tried
// before the generic identifier matcher - callers sequence matchers
// accordingly when building a Definition).
func New(d *dialect.Dialect) (*Lexer, error) {
	l := &Lexer{}
	for _, m := range d.LexerMatchers {
		re, err := regexp.Compile("^(?:" + m.Pattern + ")")
		if err != nil {
			return nil, err
		}
		l.matchers = append(l.matchers, compiledMatcher{name: m.Name, tag: segment.Type(m.Tag), re: re})
	}
	return l, nil
}

// Lex scans templated source into a flat slice of Raw segments, one per
// lexeme, ending with a zero-width end-of-file Meta segment. sliceMap is
// not consulted: no templated-slice boundary markers are emitted.
func (l *Lexer) Lex(templated string, sliceMap *slice.Map) ([]segment.Segment, error) {
	var out []segment.Segment
	pos := 0
	for pos < len(templated) {
		matched := false
		for _, m := range l.matchers {
			loc := m.re.FindStringIndex(templated[pos:])
			if loc == nil || loc[0] != 0 {
				continue
			}
			text := templated[pos : pos+loc[1]]
			if text == "" {
				continue
			}
			out = append(out, &segment.Raw{
				Type:   m.tag,
				Text:   text,
				SrcSlc: slice.Range{Start: pos, End: pos + len(text)},
			})
			pos += len(text)
			matched = true
			break
		}
		if !matched {
			r, _ := decodeRune(templated[pos:])
			return nil, ErrLex.New(pos, r)
		}
	}
	out = append(out, &segment.Meta{Type: segment.TypeEndOfFile, SrcSlc: slice.Range{Start: pos, End: pos}})
	return out, nil
}

func decodeRune(s string) (string, int) {
	if len(s) == 0 {
		return "", 0
	}
	// Return at most a handful of bytes for a readable error message
	// without decoding UTF-8 (avoids importing unicode/utf8 for a
	// cosmetic truncation).
	n := len(s)
	if n > 8 {
		n = 8
	}
	return s[:n], n
}
