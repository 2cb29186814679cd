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

package fixapplier

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/sqrlint/rules"
	"github.com/dolthub/sqrlint/segment"
	"github.com/dolthub/sqrlint/slice"
)

func rawAt(text string, start int) *segment.Raw {
	return &segment.Raw{Type: segment.TypeKeyword, Text: text, SrcSlc: slice.Range{Start: start, End: start + len(text)}}
}

func TestApplyReplace(t *testing.T) {
	raw := "select a from t"
	anchor := rawAt("select", 0)
	fix := rules.LintFix{Anchor: anchor, Kind: rules.Replace, NewSegments: []segment.Segment{rawAt("SELECT", 0)}}

	out, skipped, err := Apply(raw, []rules.LintFix{fix}, nil)
	require.NoError(t, err)
	require.Empty(t, skipped)
	require.Equal(t, "SELECT a from t", out)
}

func TestApplyDelete(t *testing.T) {
	raw := "select  a from t"
	anchor := &segment.Raw{Type: segment.TypeWhitespace, Text: " ", SrcSlc: slice.Range{Start: 6, End: 7}}
	fix := rules.LintFix{Anchor: anchor, Kind: rules.Delete}

	out, _, err := Apply(raw, []rules.LintFix{fix}, nil)
	require.NoError(t, err)
	require.Equal(t, "select a from t", out)
}

func TestApplyCreateBeforeAndAfter(t *testing.T) {
	raw := "a,b"
	anchor := &segment.Raw{Type: segment.TypeIdentifier, Text: "b", SrcSlc: slice.Range{Start: 2, End: 3}}
	before := rules.LintFix{Anchor: anchor, Kind: rules.CreateBefore, NewSegments: []segment.Segment{rawAt(" ", 0)}}

	out, _, err := Apply(raw, []rules.LintFix{before}, nil)
	require.NoError(t, err)
	require.Equal(t, "a, b", out)

	comma := &segment.Raw{Type: segment.TypeIdentifier, Text: ",", SrcSlc: slice.Range{Start: 1, End: 2}}
	after := rules.LintFix{Anchor: comma, Kind: rules.CreateAfter, NewSegments: []segment.Segment{rawAt(" ", 0)}}

	out, _, err = Apply(raw, []rules.LintFix{after}, nil)
	require.NoError(t, err)
	require.Equal(t, "a, b", out)
}

func TestApplySkipsEditsCrossingTemplateBoundary(t *testing.T) {
	sm, err := slice.New([]slice.Entry{
		{Raw: slice.Range{Start: 0, End: 5}, Templated: slice.Range{Start: 0, End: 5}, Kind: slice.Literal},
		{Raw: slice.Range{Start: 5, End: 15}, Templated: slice.Range{Start: 5, End: 6}, Kind: slice.Templated},
		{Raw: slice.Range{Start: 15, End: 20}, Templated: slice.Range{Start: 6, End: 11}, Kind: slice.Literal},
	})
	require.NoError(t, err)

	raw := "01234{{ template_expr }}56789"
	// Anchor spans from inside the literal prefix into the templated
	// region: applying it would corrupt the template expression, so it
	// must be skipped rather than applied.
	anchor := &segment.Raw{Type: segment.TypeIdentifier, Text: raw[3:10], SrcSlc: slice.Range{Start: 3, End: 10}}
	fix := rules.LintFix{Anchor: anchor, Kind: rules.Delete}

	out, skipped, err := Apply(raw, []rules.LintFix{fix}, sm)
	require.NoError(t, err)
	require.Equal(t, raw, out)
	require.Len(t, skipped, 1)
}

func TestGroupByAnchorAndResolveConflicts(t *testing.T) {
	anchor := rawAt("select", 0)
	fixA := rules.LintFix{Anchor: anchor, Kind: rules.Replace, NewSegments: []segment.Segment{rawAt("SELECT", 0)}}
	fixB := rules.LintFix{Anchor: anchor, Kind: rules.Replace, NewSegments: []segment.Segment{rawAt("Select", 0)}}

	groups := GroupByAnchor([]rules.LintFix{fixA, fixB})
	require.Len(t, groups, 1)

	applied, deferred := ResolveConflicts(groups)
	require.Len(t, applied, 1)
	require.Len(t, deferred, 1)
}

func TestApplyDetectsConflictingEdits(t *testing.T) {
	first := rules.LintFix{Anchor: rawAt("ab", 0), Kind: rules.Replace, NewSegments: []segment.Segment{rawAt("AB", 0)}}
	second := rules.LintFix{Anchor: rawAt("bc", 1), Kind: rules.Replace, NewSegments: []segment.Segment{rawAt("BC", 0)}}

	_, _, err := Apply("abc", []rules.LintFix{first, second}, nil)
	require.Error(t, err)
}
