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

// Package grammar implements the declarative grammar primitives shared by
// every dialect: Sequence, OneOf, Delimited, Bracketed, Ref, Optional,
// AnyNumberOf, StringParser, TypedParser and MatchLast. Grammars are
// ordinary Go values built once at dialect-registration time; the
// recursive-descent engine in package parser drives them over a flat
// token stream produced by package lexer.
package grammar

import (
	"strings"

	"github.com/dolthub/sqrlint/dialect"
	"github.com/dolthub/sqrlint/segment"
	"github.com/dolthub/sqrlint/slice"
)

// Match is the result of a successful primitive match: the ordered
// segments consumed (gaps included, so the round-trip invariant holds)
// and the number of input tokens consumed.
type Match struct {
	Segments []segment.Segment
	Length   int
}

// Matcher is the interface every grammar primitive implements. It embeds
// dialect.GrammarRule so compiled primitives can be stored directly in a
// Dialect's GrammarRules map and resolved later by name via Ref.
type Matcher interface {
	dialect.GrammarRule
	Match(ctx *Context, toks []segment.Segment, pos int) (Match, bool)
}

// memoKey is the (rule_name, position) memoization key from spec.md
// §4.3: "memoized parse attempts... a failed match at a position is
// cached as a failure."
type memoKey struct {
	rule string
	pos  int
}

type memoEntry struct {
	match Match
	ok    bool
}

// Context carries the active dialect and the shared memo table for one
// parse. A fresh Context is created per top-level parse (per file); the
// Dialect it references is itself immutable and safely shared across
// concurrent files.
type Context struct {
	Dialect *dialect.Dialect
	memo    map[memoKey]memoEntry
}

// NewContext returns a Context for parsing with the given dialect.
func NewContext(d *dialect.Dialect) *Context {
	return &Context{Dialect: d, memo: make(map[memoKey]memoEntry)}
}

func isGap(s segment.Segment) bool {
	return s.IsWhitespace() || s.IsComment()
}

// skipGaps returns the gap segments starting at pos and the position just
// past them.
func skipGaps(toks []segment.Segment, pos int) ([]segment.Segment, int) {
	var gaps []segment.Segment
	for pos < len(toks) && isGap(toks[pos]) {
		gaps = append(gaps, toks[pos])
		pos++
	}
	return gaps, pos
}

// ---- Ref ----

// Ref expands to the dialect's named rule, recursively. Recursive
// references are allowed; the memo table prevents exponential blowup.
type Ref struct {
	Name string
}

func (r Ref) MatchName() string { return "Ref(" + r.Name + ")" }

func (r Ref) Match(ctx *Context, toks []segment.Segment, pos int) (Match, bool) {
	key := memoKey{r.Name, pos}
	if e, ok := ctx.memo[key]; ok {
		return e.match, e.ok
	}
	// Seed a failure entry before recursing so that direct left-recursive
	// references (which are forbidden by grammar authors, but may appear
	// transiently while a grammar is being developed) terminate instead
	// of looping forever.
	ctx.memo[key] = memoEntry{}

	rule, ok := ctx.Dialect.Rule(r.Name)
	if !ok {
		return Match{}, false
	}
	matcher, ok := rule.(Matcher)
	if !ok {
		return Match{}, false
	}
	m, ok := matcher.Match(ctx, toks, pos)
	ctx.memo[key] = memoEntry{m, ok}
	return m, ok
}

// ---- StringParser ----

// StringParser matches a single token case-insensitively against word and
// retags it. Used for literal keywords.
type StringParser struct {
	Word string
	Tag  segment.Type
}

func (s StringParser) MatchName() string { return "StringParser(" + s.Word + ")" }

func (s StringParser) Match(ctx *Context, toks []segment.Segment, pos int) (Match, bool) {
	if pos >= len(toks) {
		return Match{}, false
	}
	tok := toks[pos]
	if tok.IsWhitespace() || tok.IsComment() {
		return Match{}, false
	}
	if !strings.EqualFold(tok.Raw(), s.Word) {
		return Match{}, false
	}
	retag := &segment.Raw{Type: s.Tag, Text: tok.Raw(), SrcSlc: tok.Slice()}
	return Match{Segments: []segment.Segment{retag}, Length: 1}, true
}

// ---- TypedParser ----

// TypedParser matches any token tagged sourceTag and retags it.
type TypedParser struct {
	SourceTag segment.Type
	Tag       segment.Type
}

func (t TypedParser) MatchName() string { return "TypedParser(" + string(t.SourceTag) + ")" }

func (t TypedParser) Match(ctx *Context, toks []segment.Segment, pos int) (Match, bool) {
	if pos >= len(toks) {
		return Match{}, false
	}
	tok := toks[pos]
	if tok.Tag() != t.SourceTag {
		return Match{}, false
	}
	retag := &segment.Raw{Type: t.Tag, Text: tok.Raw(), SrcSlc: tok.Slice()}
	return Match{Segments: []segment.Segment{retag}, Length: 1}, true
}

// ---- AsNode ----

// AsNode wraps Inner's matched segments into a single Node tagged Tag.
// The grammar primitives table in spec.md §4.3 composes flat token runs;
// AsNode is the mechanical wrapper dialect authors use to turn a run into
// a real tree node (e.g. turning the flat tokens of a WHERE clause into
// a single `where_clause` Node) — it is not itself a distinct parsing
// strategy, just a tree-shaping convenience.
type AsNode struct {
	Inner Matcher
	Tag   segment.Type
}

func (a AsNode) MatchName() string { return "AsNode(" + string(a.Tag) + ")" }

func (a AsNode) Match(ctx *Context, toks []segment.Segment, pos int) (Match, bool) {
	m, ok := a.Inner.Match(ctx, toks, pos)
	if !ok {
		return Match{}, false
	}
	node := segment.NewNode(a.Tag, m.Segments)
	return Match{Segments: []segment.Segment{node}, Length: m.Length}, true
}

// ---- Indented ----

// Indented wraps Inner's match with a zero-width TypeIndent marker before
// and a zero-width TypeDedent marker after, without itself introducing a
// Node. This is how dialect grammars mark "everything matched here is one
// more indent-balance level deep" per spec.md §4.6 stage (c) — the
// reflow engine's indentation pass walks the tree for TypeIndent/
// TypeDedent Meta leaves rather than inferring nesting from Node shape,
// so any clause body, bracketed expression, or CTE definition that wants
// to participate in indent tracking wraps itself in Indented.
type Indented struct {
	Inner Matcher
}

func (x Indented) MatchName() string { return "Indented(" + x.Inner.MatchName() + ")" }

func (x Indented) Match(ctx *Context, toks []segment.Segment, pos int) (Match, bool) {
	m, ok := x.Inner.Match(ctx, toks, pos)
	if !ok {
		return Match{}, false
	}
	if len(m.Segments) == 0 {
		return m, true
	}
	start := m.Segments[0].Slice()
	end := m.Segments[len(m.Segments)-1].Slice()
	out := make([]segment.Segment, 0, len(m.Segments)+2)
	out = append(out, &segment.Meta{Type: segment.TypeIndent, SrcSlc: slice.Range{Start: start.Start, End: start.Start}})
	out = append(out, m.Segments...)
	out = append(out, &segment.Meta{Type: segment.TypeDedent, SrcSlc: slice.Range{Start: end.End, End: end.End}})
	return Match{Segments: out, Length: m.Length}, true
}

// ---- Identifier ----

// Identifier matches a bare word token that is not a member of the
// active dialect's reserved keyword set, or a quoted identifier token
// (double- or back-quoted), and retags it identifier. This realizes
// spec.md §4.3's "Keyword vs identifier" tie-breaking rule: "if a token
// matches a reserved keyword set for the active dialect, it is tagged as
// keyword; otherwise as identifier."
type Identifier struct {
	WordTag   segment.Type
	QuotedTag []segment.Type
}

func (i Identifier) MatchName() string { return "Identifier" }

func (i Identifier) Match(ctx *Context, toks []segment.Segment, pos int) (Match, bool) {
	if pos >= len(toks) {
		return Match{}, false
	}
	tok := toks[pos]
	for _, qt := range i.QuotedTag {
		if tok.Tag() == qt {
			retag := &segment.Raw{Type: segment.TypeIdentifier, Text: tok.Raw(), SrcSlc: tok.Slice()}
			return Match{Segments: []segment.Segment{retag}, Length: 1}, true
		}
	}
	if tok.Tag() != i.WordTag {
		return Match{}, false
	}
	if ctx.Dialect.IsReserved(tok.Raw()) {
		return Match{}, false
	}
	retag := &segment.Raw{Type: segment.TypeIdentifier, Text: tok.Raw(), SrcSlc: tok.Slice()}
	return Match{Segments: []segment.Segment{retag}, Length: 1}, true
}

// ---- Optional ----

// Optional matches inner if possible; otherwise contributes nothing and
// always succeeds.
type Optional struct {
	Inner Matcher
}

func (o Optional) MatchName() string { return "Optional(" + o.Inner.MatchName() + ")" }

func (o Optional) Match(ctx *Context, toks []segment.Segment, pos int) (Match, bool) {
	if m, ok := o.Inner.Match(ctx, toks, pos); ok {
		return m, true
	}
	return Match{}, true
}

// ---- SequenceElement / Sequence ----

// SequenceElement is one member of a Sequence, with its own leading-gap
// policy: spec.md §4.3 specifies that each element of a Sequence "may
// independently allow or forbid leading gaps (whitespace/comments)".
type SequenceElement struct {
	Matcher   Matcher
	AllowGaps bool
}

// Seq is a convenience constructor for a gap-allowing SequenceElement.
func Seq(m Matcher) SequenceElement { return SequenceElement{Matcher: m, AllowGaps: true} }

// SeqTight is a convenience constructor for a gap-forbidding
// SequenceElement (used for e.g. `touch` spacing like `a.b`).
func SeqTight(m Matcher) SequenceElement { return SequenceElement{Matcher: m, AllowGaps: false} }

// Sequence matches its elements in order.
type Sequence struct {
	Elements []SequenceElement
}

func (s Sequence) MatchName() string { return "Sequence" }

func (s Sequence) Match(ctx *Context, toks []segment.Segment, pos int) (Match, bool) {
	var out []segment.Segment
	cur := pos
	for _, elem := range s.Elements {
		tightGap := false
		if elem.AllowGaps {
			gaps, next := skipGaps(toks, cur)
			out = append(out, gaps...)
			cur = next
		} else if cur < len(toks) && isGap(toks[cur]) {
			tightGap = true
		}
		m, ok := elem.Matcher.Match(ctx, toks, cur)
		// A tight element in front of a gap fails only if it consumes
		// tokens; one that matches nothing (an empty Optional) is fine.
		if !ok || (tightGap && m.Length > 0) {
			return Match{}, false
		}
		out = append(out, m.Segments...)
		cur += m.Length
	}
	return Match{Segments: out, Length: cur - pos}, true
}

// ---- OneOf ----

// OneOf attempts every alternative at the same position and takes the
// longest match (by raw bytes consumed across the input token stream);
// ties are broken by declaration order.
type OneOf struct {
	Alternatives []Matcher
}

func (o OneOf) MatchName() string { return "OneOf" }

func (o OneOf) Match(ctx *Context, toks []segment.Segment, pos int) (Match, bool) {
	var best Match
	found := false
	bestBytes := -1
	for _, alt := range o.Alternatives {
		m, ok := alt.Match(ctx, toks, pos)
		if !ok {
			continue
		}
		bytes := rawBytes(m.Segments)
		if bytes > bestBytes {
			best, bestBytes, found = m, bytes, true
		}
	}
	return best, found
}

func rawBytes(segs []segment.Segment) int {
	n := 0
	for _, s := range segs {
		n += len(s.Raw())
	}
	return n
}

// ---- AnyNumberOf ----

// AnyNumberOf greedily repeats element between min and max times
// (max <= 0 means unbounded). Gaps before each repetition are always
// consumed, matching the teacher's "a list of things separated by
// whitespace" idiom; individual elements control their own internal gap
// policy via Sequence if they are Sequences themselves.
type AnyNumberOf struct {
	Element Matcher
	Min     int
	Max     int
}

func (a AnyNumberOf) MatchName() string { return "AnyNumberOf" }

func (a AnyNumberOf) Match(ctx *Context, toks []segment.Segment, pos int) (Match, bool) {
	var out []segment.Segment
	cur := pos
	count := 0
	for a.Max <= 0 || count < a.Max {
		gaps, next := skipGaps(toks, cur)
		m, ok := a.Element.Match(ctx, toks, next)
		if !ok {
			break
		}
		out = append(out, gaps...)
		out = append(out, m.Segments...)
		cur = next + m.Length
		count++
	}
	if count < a.Min {
		return Match{}, false
	}
	return Match{Segments: out, Length: cur - pos}, true
}

// ---- Delimited ----

// Delimited matches one-or-more elements separated by delimiter.
// AllowTrailing permits (but does not require) a trailing delimiter with
// no following element.
type Delimited struct {
	Element       Matcher
	Delimiter     Matcher
	AllowTrailing bool
}

func (d Delimited) MatchName() string { return "Delimited" }

func (d Delimited) Match(ctx *Context, toks []segment.Segment, pos int) (Match, bool) {
	first, ok := d.Element.Match(ctx, toks, pos)
	if !ok {
		return Match{}, false
	}
	out := append([]segment.Segment(nil), first.Segments...)
	cur := pos + first.Length

	for {
		gaps, afterGaps := skipGaps(toks, cur)
		delimMatch, ok := d.Delimiter.Match(ctx, toks, afterGaps)
		if !ok {
			break
		}
		afterDelim := afterGaps + delimMatch.Length
		gaps2, afterGaps2 := skipGaps(toks, afterDelim)
		elemMatch, ok := d.Element.Match(ctx, toks, afterGaps2)
		if !ok {
			if d.AllowTrailing {
				out = append(out, gaps...)
				out = append(out, delimMatch.Segments...)
				cur = afterDelim
			}
			break
		}
		out = append(out, gaps...)
		out = append(out, delimMatch.Segments...)
		out = append(out, gaps2...)
		out = append(out, elemMatch.Segments...)
		cur = afterGaps2 + elemMatch.Length
	}
	return Match{Segments: out, Length: cur - pos}, true
}

// ---- Bracketed ----

// Bracketed balances nested brackets delimited by start/end string
// matchers, feeding only the inner tokens to Inner.
type Bracketed struct {
	Inner Matcher
	Start string
	End   string
}

func (b Bracketed) MatchName() string { return "Bracketed" }

func (b Bracketed) Match(ctx *Context, toks []segment.Segment, pos int) (Match, bool) {
	gaps1, cur := skipGaps(toks, pos)
	if cur >= len(toks) || !strings.EqualFold(toks[cur].Raw(), b.Start) {
		return Match{}, false
	}
	startTok := &segment.Raw{Type: "start_bracket", Text: toks[cur].Raw(), SrcSlc: toks[cur].Slice()}
	cur++

	// Find the matching close bracket, respecting nesting.
	depth := 1
	innerEnd := -1
	for i := cur; i < len(toks); i++ {
		if toks[i].IsWhitespace() || toks[i].IsComment() {
			continue
		}
		switch {
		case strings.EqualFold(toks[i].Raw(), b.Start):
			depth++
		case strings.EqualFold(toks[i].Raw(), b.End):
			depth--
			if depth == 0 {
				innerEnd = i
			}
		}
		if innerEnd != -1 {
			break
		}
	}
	if innerEnd == -1 {
		return Match{}, false
	}

	innerToks := toks[cur:innerEnd]
	var innerSegs []segment.Segment
	if len(innerToks) > 0 {
		m, ok := b.Inner.Match(ctx, innerToks, 0)
		if !ok || m.Length != len(innerToks) {
			return Match{}, false
		}
		innerSegs = m.Segments
	}

	gaps2, afterInner := skipGaps(toks, innerEnd)
	if afterInner >= len(toks) || !strings.EqualFold(toks[afterInner].Raw(), b.End) {
		return Match{}, false
	}
	endTok := &segment.Raw{Type: "end_bracket", Text: toks[afterInner].Raw(), SrcSlc: toks[afterInner].Slice()}

	out := append([]segment.Segment(nil), gaps1...)
	out = append(out, startTok)
	out = append(out, innerSegs...)
	out = append(out, gaps2...)
	out = append(out, endTok)
	return Match{Segments: out, Length: afterInner + 1 - pos}, true
}

// ---- MatchLast ----

// MatchLast prefers the rightmost non-overlapping match of inner within
// the remaining tokens, used for trailing-keyword ambiguities (e.g. a
// dialect where a bare word could be either the start of the next clause
// or a continuation of the current one).
type MatchLast struct {
	Inner Matcher
}

func (m MatchLast) MatchName() string { return "MatchLast(" + m.Inner.MatchName() + ")" }

func (m MatchLast) Match(ctx *Context, toks []segment.Segment, pos int) (Match, bool) {
	var best Match
	found := false
	for p := pos; p < len(toks); p++ {
		if cand, ok := m.Inner.Match(ctx, toks, p); ok {
			// Shift the match to start at pos by re-matching at pos is not
			// generally valid; MatchLast is meant to be used where the
			// caller has already narrowed toks to the exact candidate
			// window (e.g. the remainder of a statement), so a match found
			// anywhere in that window is reported relative to its own
			// start, with the gap before it folded into Length.
			best = cand
			best.Length += p - pos
			found = true
		}
	}
	return best, found
}
