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

package lineage

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/sqrlint/dialect"
	"github.com/dolthub/sqrlint/dialects/ansi"
	"github.com/dolthub/sqrlint/lexer"
	"github.com/dolthub/sqrlint/parser"
	"github.com/dolthub/sqrlint/slice"
)

func parseANSI(t *testing.T, source string) *parser.Result {
	t.Helper()
	r := dialect.NewRegistry()
	d, err := ansi.Register(r)
	require.NoError(t, err)
	l, err := lexer.New(d)
	require.NoError(t, err)
	toks, err := l.Lex(source, slice.NewRaw(source))
	require.NoError(t, err)
	result, err := parser.Parse(d, toks)
	require.NoError(t, err)
	return result
}

func TestAnalyzeResolvesUnqualifiedSingleTableColumn(t *testing.T) {
	result := parseANSI(t, "select a from t")
	outputs := Analyze(result.Tree)
	require.Len(t, outputs, 1)
	require.Equal(t, "a", outputs[0].Name)
	require.Equal(t, []ColumnRef{{Table: "t", Column: "a"}}, outputs[0].Sources)
}

func TestAnalyzeResolvesQualifiedColumnReference(t *testing.T) {
	result := parseANSI(t, "select t.a from t")
	outputs := Analyze(result.Tree)
	require.Len(t, outputs, 1)
	require.Equal(t, []ColumnRef{{Table: "t", Column: "a"}}, outputs[0].Sources)
}

func TestAnalyzeUsesAliasAsOutputName(t *testing.T) {
	result := parseANSI(t, "select a as x from t")
	outputs := Analyze(result.Tree)
	require.Len(t, outputs, 1)
	require.Equal(t, "x", outputs[0].Name)
}

func TestAnalyzeResolvesMultipleOutputColumns(t *testing.T) {
	result := parseANSI(t, "select t.a, b as y from t")
	outputs := Analyze(result.Tree)

	want := []OutputColumn{
		{Name: "a", Sources: []ColumnRef{{Table: "t", Column: "a"}}},
		{Name: "y", Sources: []ColumnRef{{Table: "t", Column: "b"}}},
	}
	// cmp.Diff walks the whole []OutputColumn/[]ColumnRef shape at once,
	// so a mismatch anywhere in the slice prints a full structural diff
	// rather than just the first field require.Equal happens to check.
	if diff := cmp.Diff(want, outputs); diff != "" {
		t.Fatalf("Analyze() mismatch (-want +got):\n%s", diff)
	}
}
