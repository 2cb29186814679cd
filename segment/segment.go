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

// Package segment defines the uniform tree of typed source segments that
// the lexer, parser, rule engine and reflow engine all share. A segment is
// either a Raw leaf, a zero-width Meta marker, or a composite Node. The
// tree is built once by the parser and never mutated afterward; edits are
// represented externally as fix values, never as in-place tree surgery.
package segment

import (
	"strings"

	"github.com/dolthub/sqrlint/internal/linecount"
	"github.com/dolthub/sqrlint/slice"
)

// Type is a dialect-aware tag drawn from a closed-per-dialect vocabulary.
// It is string-backed (not a fixed Go enum) because dialects register new
// tags at registration time; the segment package itself does not
// interpret tag semantics beyond the predicate bits recorded in the type
// registry.
type Type string

// Well-known base tags shared by every dialect's grammar.
const (
	TypeFile         Type = "file"
	TypeUnparsable   Type = "unparsable"
	TypeWhitespace   Type = "whitespace"
	TypeNewline      Type = "newline"
	TypeComment      Type = "comment"
	TypeKeyword      Type = "keyword"
	TypeIdentifier   Type = "identifier"
	TypeIndent       Type = "indent"
	TypeDedent       Type = "dedent"
	TypeEndOfFile    Type = "end_of_file"
	TypeTemplateMark Type = "templated_slice_boundary"
)

// predicateBits records the is_code / is_whitespace / is_comment /
// is_templated predicates for each registered Type. Populated by the
// dialect package at registration time via RegisterPredicates; segment
// itself only ships the predicates for the base tags above.
var predicateBits = map[Type]Predicates{
	TypeFile:         {IsCode: true},
	TypeUnparsable:   {IsCode: true},
	TypeWhitespace:   {IsWhitespace: true},
	TypeNewline:      {IsWhitespace: true},
	TypeComment:      {IsComment: true},
	TypeKeyword:      {IsCode: true},
	TypeIdentifier:   {IsCode: true},
	TypeIndent:       {},
	TypeDedent:       {},
	TypeEndOfFile:    {},
	TypeTemplateMark: {IsTemplated: true},
	"start_bracket":  {IsCode: true},
	"end_bracket":    {IsCode: true},
}

// Predicates are the boolean facts a Type carries.
type Predicates struct {
	IsCode       bool
	IsWhitespace bool
	IsComment    bool
	IsTemplated  bool
}

// RegisterPredicates records the predicate bits for a dialect-specific tag.
// Called once per tag at dialect-registration time.
func RegisterPredicates(t Type, p Predicates) {
	predicateBits[t] = p
}

func lookup(t Type) Predicates {
	return predicateBits[t]
}

// Segment is the common interface implemented by Raw, Meta, and Node.
type Segment interface {
	// Tag returns the segment's type.
	Tag() Type
	// Raw materializes the exact source substring this segment covers.
	Raw() string
	// Slice returns the (start,end) byte range in the templated source.
	Slice() slice.Range
	// IsCode, IsWhitespace, IsComment, IsTemplated are predicates
	// computed from Tag via the type registry.
	IsCode() bool
	IsWhitespace() bool
	IsComment() bool
	IsTemplated() bool
	// Children returns the segment's children, or nil for leaves.
	Children() []Segment
}

// Raw is a lexeme with exact text and source position.
type Raw struct {
	Type    Type
	Text    string
	SrcSlc  slice.Range
	Fixes   []Fix
}

var _ Segment = (*Raw)(nil)

func (r *Raw) Tag() Type             { return r.Type }
func (r *Raw) Raw() string           { return r.Text }
func (r *Raw) Slice() slice.Range    { return r.SrcSlc }
func (r *Raw) IsCode() bool          { return lookup(r.Type).IsCode }
func (r *Raw) IsWhitespace() bool    { return lookup(r.Type).IsWhitespace }
func (r *Raw) IsComment() bool       { return lookup(r.Type).IsComment }
func (r *Raw) IsTemplated() bool     { return lookup(r.Type).IsTemplated }
func (r *Raw) Children() []Segment   { return nil }

// Meta is a zero-width marker: indent, dedent, end-of-file sentinel, or a
// templated-slice boundary. Zero-width leaves must always be Meta, never
// Raw, per the segment model invariants.
type Meta struct {
	Type   Type
	SrcSlc slice.Range
}

var _ Segment = (*Meta)(nil)

func (m *Meta) Tag() Type           { return m.Type }
func (m *Meta) Raw() string         { return "" }
func (m *Meta) Slice() slice.Range  { return m.SrcSlc }
func (m *Meta) IsCode() bool        { return false }
func (m *Meta) IsWhitespace() bool  { return lookup(m.Type).IsWhitespace }
func (m *Meta) IsComment() bool     { return false }
func (m *Meta) IsTemplated() bool   { return lookup(m.Type).IsTemplated }
func (m *Meta) Children() []Segment { return nil }

// Node is a composite carrying children and a semantic type tag, e.g.
// select_clause, from_expression, function_name.
type Node struct {
	Type     Type
	Kids     []Segment
	rawCache string
	Fixes    []Fix
}

var _ Segment = (*Node)(nil)

// NewNode constructs a Node. The raw text and source slice are derived
// from the children, maintaining the invariant N.raw == concat(children).
func NewNode(t Type, children []Segment) *Node {
	n := &Node{Type: t, Kids: children}
	n.rawCache = concatRaw(children)
	return n
}

func concatRaw(children []Segment) string {
	var sb strings.Builder
	for _, c := range children {
		sb.WriteString(c.Raw())
	}
	return sb.String()
}

func (n *Node) Tag() Type   { return n.Type }
func (n *Node) Raw() string { return n.rawCache }

// Slice returns the union of the children's slices: the start of the
// first child's slice to the end of the last.
func (n *Node) Slice() slice.Range {
	if len(n.Kids) == 0 {
		return slice.Range{}
	}
	first := n.Kids[0].Slice()
	last := n.Kids[len(n.Kids)-1].Slice()
	return slice.Range{Start: first.Start, End: last.End}
}

func (n *Node) IsCode() bool       { return lookup(n.Type).IsCode }
func (n *Node) IsWhitespace() bool { return lookup(n.Type).IsWhitespace }
func (n *Node) IsComment() bool    { return lookup(n.Type).IsComment }
func (n *Node) IsTemplated() bool  { return lookup(n.Type).IsTemplated }
func (n *Node) Children() []Segment { return n.Kids }

// CopyWith returns a structural copy of n with new children, preserving
// the tag. The original n is left untouched (the tree is never mutated
// after creation).
func (n *Node) CopyWith(children []Segment) *Node {
	return NewNode(n.Type, children)
}

// Fix is a pending edit attached to a segment during a lint pass. It is a
// lightweight marker used by rules that want to flag "this exact segment
// has fixes outstanding" independent of the LintFix values collected by
// the rule engine (see package rules).
type Fix struct {
	RuleCode string
	Note     string
}

// Visitor is called once per segment during a Walk. Returning false stops
// the walk from descending into the segment's children (short-circuit),
// but sibling traversal continues.
type Visitor func(seg Segment, path []Segment) (descend bool)

// Walk performs a depth-first, pre-order traversal of root, calling
// visitor for every segment including root itself. path is the stack of
// ancestors from the root down to (but excluding) seg — an explicit
// parent-back-reference substitute (see DESIGN NOTES on parent pointers).
func Walk(root Segment, visitor Visitor) {
	walk(root, nil, visitor)
}

func walk(seg Segment, path []Segment, visitor Visitor) {
	if !visitor(seg, path) {
		return
	}
	childPath := append(append([]Segment(nil), path...), seg)
	for _, c := range seg.Children() {
		walk(c, childPath, visitor)
	}
}

// Predicate reports whether seg matches some criterion for RecursiveFind.
type Predicate func(seg Segment) bool

// RecursiveFind returns, in document order, every descendant of root
// (root itself included) for which predicate returns true.
func RecursiveFind(root Segment, predicate Predicate) []Segment {
	var out []Segment
	Walk(root, func(seg Segment, _ []Segment) bool {
		if predicate(seg) {
			out = append(out, seg)
		}
		return true
	})
	return out
}

// Position derives the 1-based (line, column) of seg's start within idx.
func Position(seg Segment, idx *linecount.Index) (line, col int) {
	return idx.Position(seg.Slice().Start)
}

// Leaves returns every leaf (Raw or Meta) of root, in document order. The
// concatenation of their Raw() values recovers the templated source
// exactly, per the segment model's round-trip invariant.
func Leaves(root Segment) []Segment {
	return RecursiveFind(root, func(seg Segment) bool {
		return len(seg.Children()) == 0
	})
}
