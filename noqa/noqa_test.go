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

package noqa

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/sqrlint/dialect"
	"github.com/dolthub/sqrlint/dialects/ansi"
	"github.com/dolthub/sqrlint/internal/linecount"
	"github.com/dolthub/sqrlint/lexer"
	"github.com/dolthub/sqrlint/parser"
	"github.com/dolthub/sqrlint/slice"
)

func buildIndex(t *testing.T, source string) (*Index, *linecount.Index) {
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
	li := linecount.New(source)
	return Build(result.Tree, li), li
}

func TestBareNoqaSuppressesAllCodesOnLine(t *testing.T) {
	idx, _ := buildIndex(t, "select a from t; -- noqa\n")
	require.True(t, idx.Suppressed(1, "CP01"))
	require.True(t, idx.Suppressed(1, "AL01"))
	require.False(t, idx.Suppressed(2, "CP01"))
}

func TestExplicitCodeListSuppressesOnlyListedCodes(t *testing.T) {
	idx, _ := buildIndex(t, "select a from t; -- noqa: CP01,AL01\n")
	require.True(t, idx.Suppressed(1, "CP01"))
	require.True(t, idx.Suppressed(1, "AL01"))
	require.False(t, idx.Suppressed(1, "RF06"))
}

func TestDisableEnableRange(t *testing.T) {
	idx, _ := buildIndex(t, "-- noqa: disable=CP01\nselect a;\nselect b; -- noqa: enable=CP01\nselect c;\n")
	require.True(t, idx.Suppressed(2, "CP01"))
	require.False(t, idx.Suppressed(4, "CP01"))
}

func TestDisableAllThenEnableAll(t *testing.T) {
	idx, _ := buildIndex(t, "-- noqa: disable=all\nselect a;\n-- noqa: enable=all\nselect b;\n")
	require.True(t, idx.Suppressed(2, "CP01"))
	require.True(t, idx.Suppressed(2, "ZZ99"))
	require.False(t, idx.Suppressed(4, "CP01"))
}

func TestMalformedDirectiveIsIgnoredNotFatal(t *testing.T) {
	idx, _ := buildIndex(t, "select a; -- noqa: ???\n")
	require.NotPanics(t, func() { idx.Suppressed(1, "CP01") })
	require.False(t, idx.Suppressed(1, "CP01"))
}
