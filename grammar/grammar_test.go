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

package grammar

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/sqrlint/dialect"
	"github.com/dolthub/sqrlint/segment"
	"github.com/dolthub/sqrlint/slice"
)

func tok(typ segment.Type, text string, start int) *segment.Raw {
	return &segment.Raw{Type: typ, Text: text, SrcSlc: slice.Range{Start: start, End: start + len(text)}}
}

func newTestDialect(t *testing.T, rules map[string]dialect.GrammarRule) *dialect.Dialect {
	t.Helper()
	r := dialect.NewRegistry()
	d, err := r.Register(dialect.Definition{
		Name:         "test",
		KeywordSets:  map[dialect.KeywordSetName][]string{dialect.Reserved: {"SELECT", "FROM"}},
		GrammarRules: rules,
	})
	require.NoError(t, err)
	return d
}

func TestStringParserMatchesCaseInsensitively(t *testing.T) {
	ctx := NewContext(newTestDialect(t, nil))
	toks := []segment.Segment{tok(segment.TypeIdentifier, "Select", 0)}
	m, ok := StringParser{Word: "select", Tag: segment.TypeKeyword}.Match(ctx, toks, 0)
	require.True(t, ok)
	require.Equal(t, 1, m.Length)
	require.Equal(t, segment.TypeKeyword, m.Segments[0].Tag())
}

func TestStringParserRejectsGapToken(t *testing.T) {
	ctx := NewContext(newTestDialect(t, nil))
	toks := []segment.Segment{tok(segment.TypeWhitespace, " ", 0)}
	_, ok := StringParser{Word: "select", Tag: segment.TypeKeyword}.Match(ctx, toks, 0)
	require.False(t, ok)
}

func TestIdentifierRejectsReservedWord(t *testing.T) {
	ctx := NewContext(newTestDialect(t, nil))
	toks := []segment.Segment{tok(segment.TypeIdentifier, "SELECT", 0)}
	ident := Identifier{WordTag: segment.TypeIdentifier}
	_, ok := ident.Match(ctx, toks, 0)
	require.False(t, ok)
}

func TestIdentifierAcceptsQuotedTagRegardlessOfReservedWord(t *testing.T) {
	ctx := NewContext(newTestDialect(t, nil))
	toks := []segment.Segment{tok("quoted_identifier", "SELECT", 0)}
	ident := Identifier{WordTag: segment.TypeIdentifier, QuotedTag: []segment.Type{"quoted_identifier"}}
	m, ok := ident.Match(ctx, toks, 0)
	require.True(t, ok)
	require.Equal(t, segment.TypeIdentifier, m.Segments[0].Tag())
}

func TestOptionalSucceedsWithoutConsumingOnNoMatch(t *testing.T) {
	ctx := NewContext(newTestDialect(t, nil))
	toks := []segment.Segment{tok(segment.TypeIdentifier, "a", 0)}
	opt := Optional{Inner: StringParser{Word: "distinct", Tag: segment.TypeKeyword}}
	m, ok := opt.Match(ctx, toks, 0)
	require.True(t, ok)
	require.Equal(t, 0, m.Length)
}

func TestSequenceRespectsTightSpacing(t *testing.T) {
	ctx := NewContext(newTestDialect(t, nil))
	toks := []segment.Segment{
		tok(segment.TypeIdentifier, "a", 0),
		tok(segment.TypeWhitespace, " ", 1),
		tok("dot", ".", 2),
	}
	seq := Sequence{Elements: []SequenceElement{
		Seq(TypedParser{SourceTag: segment.TypeIdentifier, Tag: segment.TypeIdentifier}),
		SeqTight(TypedParser{SourceTag: "dot", Tag: "dot"}),
	}}
	_, ok := seq.Match(ctx, toks, 0)
	require.False(t, ok, "a tight element following a gap token must fail")
}

func TestSequenceAllowsGapsWhenRequested(t *testing.T) {
	ctx := NewContext(newTestDialect(t, nil))
	toks := []segment.Segment{
		tok(segment.TypeKeyword, "select", 0),
		tok(segment.TypeWhitespace, " ", 6),
		tok(segment.TypeIdentifier, "a", 7),
	}
	seq := Sequence{Elements: []SequenceElement{
		Seq(StringParser{Word: "select", Tag: segment.TypeKeyword}),
		Seq(TypedParser{SourceTag: segment.TypeIdentifier, Tag: segment.TypeIdentifier}),
	}}
	m, ok := seq.Match(ctx, toks, 0)
	require.True(t, ok)
	require.Equal(t, 3, m.Length)
}

func TestOneOfTakesLongestMatch(t *testing.T) {
	ctx := NewContext(newTestDialect(t, nil))
	toks := []segment.Segment{
		tok(segment.TypeIdentifier, "a", 0),
		tok(segment.TypeWhitespace, " ", 1),
		tok(segment.TypeIdentifier, "b", 2),
	}
	oneOf := OneOf{Alternatives: []Matcher{
		TypedParser{SourceTag: segment.TypeIdentifier, Tag: segment.TypeIdentifier},
		Sequence{Elements: []SequenceElement{
			Seq(TypedParser{SourceTag: segment.TypeIdentifier, Tag: segment.TypeIdentifier}),
			Seq(TypedParser{SourceTag: segment.TypeIdentifier, Tag: segment.TypeIdentifier}),
		}},
	}}
	m, ok := oneOf.Match(ctx, toks, 0)
	require.True(t, ok)
	require.Equal(t, segment.TypeIdentifier, m.Segments[0].Tag())
	require.Equal(t, 3, m.Length)
}

func TestAnyNumberOfRespectsMinimum(t *testing.T) {
	ctx := NewContext(newTestDialect(t, nil))
	var toks []segment.Segment
	any := AnyNumberOf{Element: TypedParser{SourceTag: segment.TypeIdentifier, Tag: segment.TypeIdentifier}, Min: 1}
	_, ok := any.Match(ctx, toks, 0)
	require.False(t, ok)
}

func TestAnyNumberOfGreedilyRepeats(t *testing.T) {
	ctx := NewContext(newTestDialect(t, nil))
	toks := []segment.Segment{
		tok(segment.TypeIdentifier, "a", 0),
		tok(segment.TypeWhitespace, " ", 1),
		tok(segment.TypeIdentifier, "b", 2),
	}
	any := AnyNumberOf{Element: TypedParser{SourceTag: segment.TypeIdentifier, Tag: segment.TypeIdentifier}}
	m, ok := any.Match(ctx, toks, 0)
	require.True(t, ok)
	require.Equal(t, 3, m.Length)
}

func TestDelimitedMatchesCommaSeparatedList(t *testing.T) {
	ctx := NewContext(newTestDialect(t, nil))
	toks := []segment.Segment{
		tok(segment.TypeIdentifier, "a", 0),
		tok("comma", ",", 1),
		tok(segment.TypeWhitespace, " ", 2),
		tok(segment.TypeIdentifier, "b", 3),
	}
	d := Delimited{
		Element:   TypedParser{SourceTag: segment.TypeIdentifier, Tag: segment.TypeIdentifier},
		Delimiter: TypedParser{SourceTag: "comma", Tag: "comma"},
	}
	m, ok := d.Match(ctx, toks, 0)
	require.True(t, ok)
	require.Equal(t, 4, m.Length)
}

func TestDelimitedAllowsTrailingDelimiterWhenPermitted(t *testing.T) {
	ctx := NewContext(newTestDialect(t, nil))
	toks := []segment.Segment{
		tok(segment.TypeIdentifier, "a", 0),
		tok("comma", ",", 1),
	}
	d := Delimited{
		Element:       TypedParser{SourceTag: segment.TypeIdentifier, Tag: segment.TypeIdentifier},
		Delimiter:     TypedParser{SourceTag: "comma", Tag: "comma"},
		AllowTrailing: true,
	}
	m, ok := d.Match(ctx, toks, 0)
	require.True(t, ok)
	require.Equal(t, 2, m.Length)
}

func TestBracketedMatchesNestedBrackets(t *testing.T) {
	ctx := NewContext(newTestDialect(t, nil))
	toks := []segment.Segment{
		tok("start_bracket", "(", 0),
		tok("start_bracket", "(", 1),
		tok(segment.TypeIdentifier, "a", 2),
		tok("end_bracket", ")", 3),
		tok("end_bracket", ")", 4),
	}
	inner := Bracketed{
		Inner: Bracketed{
			Inner: TypedParser{SourceTag: segment.TypeIdentifier, Tag: segment.TypeIdentifier},
			Start: "(", End: ")",
		},
		Start: "(", End: ")",
	}
	m, ok := inner.Match(ctx, toks, 0)
	require.True(t, ok)
	require.Equal(t, 5, m.Length)
}

func TestBracketedFailsOnUnbalancedInput(t *testing.T) {
	ctx := NewContext(newTestDialect(t, nil))
	toks := []segment.Segment{
		tok("start_bracket", "(", 0),
		tok(segment.TypeIdentifier, "a", 1),
	}
	b := Bracketed{Inner: TypedParser{SourceTag: segment.TypeIdentifier, Tag: segment.TypeIdentifier}, Start: "(", End: ")"}
	_, ok := b.Match(ctx, toks, 0)
	require.False(t, ok)
}

func TestAsNodeWrapsMatchInSingleNode(t *testing.T) {
	ctx := NewContext(newTestDialect(t, nil))
	toks := []segment.Segment{tok(segment.TypeIdentifier, "a", 0)}
	wrapped := AsNode{Inner: TypedParser{SourceTag: segment.TypeIdentifier, Tag: segment.TypeIdentifier}, Tag: "column_reference"}
	m, ok := wrapped.Match(ctx, toks, 0)
	require.True(t, ok)
	require.Len(t, m.Segments, 1)
	require.Equal(t, segment.Type("column_reference"), m.Segments[0].Tag())
}

func TestRefResolvesAndMemoizesByPosition(t *testing.T) {
	ctx := NewContext(newTestDialect(t, map[string]dialect.GrammarRule{
		"column_name": TypedParser{SourceTag: segment.TypeIdentifier, Tag: segment.TypeIdentifier},
	}))
	toks := []segment.Segment{tok(segment.TypeIdentifier, "a", 0)}

	ref := Ref{Name: "column_name"}
	m1, ok1 := ref.Match(ctx, toks, 0)
	require.True(t, ok1)
	m2, ok2 := ref.Match(ctx, toks, 0)
	require.True(t, ok2)
	require.Equal(t, m1, m2)
}

func TestRefFailsOnUnknownRuleName(t *testing.T) {
	ctx := NewContext(newTestDialect(t, nil))
	toks := []segment.Segment{tok(segment.TypeIdentifier, "a", 0)}
	_, ok := Ref{Name: "does_not_exist"}.Match(ctx, toks, 0)
	require.False(t, ok)
}
