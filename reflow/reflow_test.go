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

package reflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/sqrlint/dialect"
	"github.com/dolthub/sqrlint/dialects/ansi"
	"github.com/dolthub/sqrlint/internal/linecount"
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

func TestCheckSpacingFlagsMissingSpaceAfterComma(t *testing.T) {
	source := "select a,b from t"
	result := parseANSI(t, source)
	e := Engine{Config: DefaultConfig(), Index: linecount.New(source)}

	violations := e.Run(result.Tree)
	var found bool
	for _, v := range violations {
		if v.RuleCode == "LT01" {
			found = true
			require.NotEmpty(t, v.Fixes)
		}
	}
	require.True(t, found, "expected a LT01 violation for the missing space after the comma")
}

func TestCheckSpacingAllowsCorrectlySpacedInput(t *testing.T) {
	source := "select a, b from t"
	result := parseANSI(t, source)
	e := Engine{Config: DefaultConfig(), Index: linecount.New(source)}

	violations := e.Run(result.Tree)
	for _, v := range violations {
		require.NotEqual(t, "LT01", v.RuleCode)
	}
}

func TestCheckLongLinesWrapsOverlongSelectClause(t *testing.T) {
	source := "select " + strings.Repeat("a", 40) + ", " + strings.Repeat("b", 40) + " from t"
	result := parseANSI(t, source)
	cfg := DefaultConfig()
	cfg.MaxLineLength = 20
	e := Engine{Config: cfg, Index: linecount.New(source)}

	violations := e.Run(result.Tree)
	var found bool
	for _, v := range violations {
		if v.RuleCode == "LT05" {
			found = true
			require.Len(t, v.Fixes, 1)
			var rebuilt string
			for _, s := range v.Fixes[0].NewSegments {
				rebuilt += s.Raw()
			}
			require.Contains(t, rebuilt, "\n")
		}
	}
	require.True(t, found, "expected an LT05 violation for the over-long select clause")
}

func TestStrongestPicksHighestPriority(t *testing.T) {
	require.Equal(t, Touch, strongest(Touch, Single))
	require.Equal(t, Single, strongest(Any, Single))
	require.Equal(t, Any, strongest(Any, Any))
}
