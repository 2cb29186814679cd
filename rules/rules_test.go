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

package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/sqrlint/segment"
	"github.com/dolthub/sqrlint/slice"
)

type fakeRule struct {
	code    string
	groups  []string
	targets []segment.Type
	eval    func(ctx *Context) []Violation
}

func (f *fakeRule) Code() string                   { return f.code }
func (f *fakeRule) Name() string                   { return "fake/" + f.code }
func (f *fakeRule) Groups() []string                { return f.groups }
func (f *fakeRule) TargetTypes() []segment.Type     { return f.targets }
func (f *fakeRule) Fixable() bool                   { return false }
func (f *fakeRule) Eval(ctx *Context) []Violation   { return f.eval(ctx) }

func withCleanRegistry(t *testing.T) {
	t.Helper()
	saved := defaultRegistry
	defaultRegistry = &Registry{byCode: make(map[string]Rule)}
	t.Cleanup(func() { defaultRegistry = saved })
}

func TestRegisterPanicsOnDuplicateCode(t *testing.T) {
	withCleanRegistry(t)
	Register(&fakeRule{code: "ZZ01"})
	require.Panics(t, func() { Register(&fakeRule{code: "ZZ01"}) })
}

func TestSelectResolvesAllCoreGroupAndCode(t *testing.T) {
	withCleanRegistry(t)
	Register(&fakeRule{code: "ZZ01", groups: []string{"core", "capitalisation"}})
	Register(&fakeRule{code: "ZZ02", groups: []string{"aliasing"}})

	sel := Select([]string{"all"}, nil)
	require.Len(t, sel.rules, 2)

	sel = Select([]string{"capitalisation"}, nil)
	require.Len(t, sel.rules, 1)
	require.Equal(t, "ZZ01", sel.rules[0].Code())

	sel = Select([]string{"all"}, []string{"aliasing"})
	require.Len(t, sel.rules, 1)
	require.Equal(t, "ZZ01", sel.rules[0].Code())

	sel = Select([]string{"ZZ02"}, nil)
	require.Len(t, sel.rules, 1)
	require.Equal(t, "ZZ02", sel.rules[0].Code())
}

func TestCrawlerRunDispatchesByTargetType(t *testing.T) {
	withCleanRegistry(t)
	var seen []segment.Type
	rule := &fakeRule{
		code:    "ZZ03",
		targets: []segment.Type{segment.TypeKeyword},
		eval: func(ctx *Context) []Violation {
			seen = append(seen, ctx.Segment.Tag())
			return []Violation{{Message: "bad keyword", Anchor: ctx.Segment}}
		},
	}
	Register(rule)

	tree := segment.NewNode(segment.TypeFile, []segment.Segment{
		&segment.Raw{Type: segment.TypeKeyword, Text: "select", SrcSlc: slice.Range{Start: 0, End: 6}},
		&segment.Raw{Type: segment.TypeIdentifier, Text: "a", SrcSlc: slice.Range{Start: 6, End: 7}},
	})

	c := &Crawler{Selection: Select([]string{"all"}, nil)}
	result := c.Run(tree)
	require.Len(t, result.Violations, 1)
	require.Equal(t, "ZZ03", result.Violations[0].RuleCode)
	require.Equal(t, []segment.Type{segment.TypeKeyword}, seen)
}

func TestCrawlerRunRecoversPanickingRule(t *testing.T) {
	withCleanRegistry(t)
	Register(&fakeRule{
		code:    "ZZ04",
		targets: []segment.Type{segment.TypeKeyword},
		eval:    func(ctx *Context) []Violation { panic("boom") },
	})

	tree := segment.NewNode(segment.TypeFile, []segment.Segment{
		&segment.Raw{Type: segment.TypeKeyword, Text: "select", SrcSlc: slice.Range{Start: 0, End: 6}},
		&segment.Raw{Type: segment.TypeKeyword, Text: "from", SrcSlc: slice.Range{Start: 6, End: 10}},
	})

	c := &Crawler{Selection: Select([]string{"all"}, nil)}
	result := c.Run(tree)
	require.Empty(t, result.Violations)
	require.Contains(t, result.Disabled, "ZZ04")
}
