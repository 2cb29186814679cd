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

package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/sqrlint/dialect"
	"github.com/dolthub/sqrlint/dialects/ansi"
	"github.com/dolthub/sqrlint/lexer"
	"github.com/dolthub/sqrlint/segment"
	"github.com/dolthub/sqrlint/slice"
)

func ansiDialect(t *testing.T) *dialect.Dialect {
	t.Helper()
	r := dialect.NewRegistry()
	d, err := ansi.Register(r)
	require.NoError(t, err)
	return d
}

func lexAndParse(t *testing.T, d *dialect.Dialect, source string) *Result {
	t.Helper()
	l, err := lexer.New(d)
	require.NoError(t, err)
	toks, err := l.Lex(source, slice.NewRaw(source))
	require.NoError(t, err)
	result, err := Parse(d, toks)
	require.NoError(t, err)
	return result
}

func TestParseSimpleSelectHasNoWarnings(t *testing.T) {
	d := ansiDialect(t)
	result := lexAndParse(t, d, "SELECT 1")
	require.Empty(t, result.Warnings)
	require.Equal(t, segment.TypeFile, result.Tree.Tag())

	stmts := segment.RecursiveFind(result.Tree, func(s segment.Segment) bool {
		return s.Tag() == ansi.NodeSelectStatement
	})
	require.Len(t, stmts, 1)
}

func TestParseSelectWithWhereAndFrom(t *testing.T) {
	d := ansiDialect(t)
	result := lexAndParse(t, d, "SELECT a, b FROM t WHERE a = 1")
	require.Empty(t, result.Warnings)

	fromClauses := segment.RecursiveFind(result.Tree, func(s segment.Segment) bool {
		return s.Tag() == ansi.NodeFromClause
	})
	require.Len(t, fromClauses, 1)

	whereClauses := segment.RecursiveFind(result.Tree, func(s segment.Segment) bool {
		return s.Tag() == ansi.NodeWhereClause
	})
	require.Len(t, whereClauses, 1)
}

func TestParseRoundTripsRawText(t *testing.T) {
	d := ansiDialect(t)
	source := "SELECT a, b FROM t WHERE a = 1;"
	result := lexAndParse(t, d, source)
	require.Equal(t, source, result.Tree.Raw())
}

func TestParseRecoversFromUnparsableStatement(t *testing.T) {
	d := ansiDialect(t)
	result := lexAndParse(t, d, "SELECT 1; %%% not sql %%%; SELECT 2;")
	require.NotEmpty(t, result.Warnings)

	unparsable := segment.RecursiveFind(result.Tree, func(s segment.Segment) bool {
		return s.Tag() == segment.TypeUnparsable
	})
	require.NotEmpty(t, unparsable)

	// Recovery must not swallow the statements surrounding the bad one.
	stmts := segment.RecursiveFind(result.Tree, func(s segment.Segment) bool {
		return s.Tag() == ansi.NodeSelectStatement
	})
	require.Len(t, stmts, 2)
}

func TestAllTokensAreBracketBalanced(t *testing.T) {
	d := ansiDialect(t)
	l, err := lexer.New(d)
	require.NoError(t, err)

	balanced := "SELECT (a + b) FROM t"
	toks, err := l.Lex(balanced, slice.NewRaw(balanced))
	require.NoError(t, err)
	require.True(t, AllTokensAreBracketBalanced(toks))

	unbalanced := "SELECT (a + b FROM t"
	toks, err = l.Lex(unbalanced, slice.NewRaw(unbalanced))
	require.NoError(t, err)
	require.False(t, AllTokensAreBracketBalanced(toks))
}
