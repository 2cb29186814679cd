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

// Package parser drives the grammar engine over a dialect's `file` rule,
// producing a ParseTree. A statement the grammar cannot assign is wrapped
// in an `unparsable` node and the driver resumes at the next statement
// terminator — the tree is always well-formed, and unparsable regions are
// reported as warnings rather than halting the run.
package parser

import (
	"github.com/dolthub/sqrlint/dialect"
	"github.com/dolthub/sqrlint/grammar"
	"github.com/dolthub/sqrlint/segment"
	goerrors "gopkg.in/src-d/go-errors.v1"
)

// ErrParse is the kind instantiated once per unparsable region.
var ErrParse = goerrors.NewKind("could not parse statement starting at byte %d")

// ErrConfig is raised when the requested dialect is not registered.
var ErrConfig = goerrors.NewKind("unknown dialect referenced: %s")

// Warning records a recovered ParseError for the caller to surface as a
// PRS-coded diagnostic. Lex errors are not recovered into warnings; the
// lexer returns them as errors.
type Warning struct {
	Code    string // "PRS" for parse errors
	Message string
	Start   int
	End     int
}

// Result is the outcome of parsing one file: the tree plus any recovered
// warnings.
type Result struct {
	Tree     *segment.Node
	Warnings []Warning
}

// Parse applies d's `statement` rule once per statement in toks (the
// lexer's flat segment stream), recovering into an `unparsable` node
// whenever a statement cannot be matched, and wraps the whole sequence in
// a `file` node. A grammar's own `file` rule (AnyNumberOf of `statement`)
// exists for direct testing of the full grammar, but the driver parses
// statement-by-statement so that recovery can resume after each failure —
// a single whole-file grammar match has no way to recover mid-match.
func Parse(d *dialect.Dialect, toks []segment.Segment) (*Result, error) {
	rule, ok := d.Rule("statement")
	if !ok {
		return nil, ErrConfig.New(d.Name)
	}
	matcher, ok := rule.(grammar.Matcher)
	if !ok {
		return nil, ErrConfig.New(d.Name)
	}

	ctx := grammar.NewContext(d)
	result := &Result{}

	var children []segment.Segment
	pos := 0
	for pos < len(toks) {
		if isEOF(toks[pos]) {
			children = append(children, toks[pos])
			pos++
			continue
		}
		if toks[pos].IsWhitespace() || toks[pos].IsComment() {
			children = append(children, toks[pos])
			pos++
			continue
		}
		m, ok := matcher.Match(ctx, toks, pos)
		if ok && m.Length > 0 {
			children = append(children, m.Segments...)
			pos += m.Length
			continue
		}

		// Recovery: wrap the remainder of the current statement (up to
		// and including the next `;`, or end of input) in an unparsable
		// node and resume after it.
		start := pos
		end := scanToStatementEnd(toks, pos)
		unparsableToks := toks[start:end]
		node := segment.NewNode(segment.TypeUnparsable, unparsableToks)
		children = append(children, node)
		result.Warnings = append(result.Warnings, Warning{
			Code:    "PRS",
			Message: ErrParse.New(node.Slice().Start).Error(),
			Start:   node.Slice().Start,
			End:     node.Slice().End,
		})
		pos = end
	}

	result.Tree = segment.NewNode(segment.TypeFile, children)
	return result, nil
}

func isEOF(s segment.Segment) bool {
	return s.Tag() == segment.TypeEndOfFile
}

// scanToStatementEnd returns the index just past the next `;` token at or
// after pos, or len(toks) (minus the trailing EOF marker) if none exists.
func scanToStatementEnd(toks []segment.Segment, pos int) int {
	for i := pos; i < len(toks); i++ {
		if isEOF(toks[i]) {
			return i
		}
		if toks[i].Raw() == ";" {
			return i + 1
		}
	}
	return len(toks)
}

// AllTokensAreBracketBalanced is a small sanity helper used by tests to
// detect grammars that silently dropped a bracket pair rather than
// failing the match — guards
// the round-trip invariant during development of new dialects.
func AllTokensAreBracketBalanced(toks []segment.Segment) bool {
	depth := 0
	for _, t := range toks {
		switch t.Raw() {
		case "(":
			depth++
		case ")":
			depth--
		}
		if depth < 0 {
			return false
		}
	}
	return depth == 0
}
