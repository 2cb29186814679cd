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

package rulebase

import (
	"strconv"
	"strings"

	"github.com/dolthub/sqrlint/dialects/ansi"
	"github.com/dolthub/sqrlint/rules"
	"github.com/dolthub/sqrlint/segment"
)

// tableAliasKeywordRule is AL01: table aliases should (or should not) use
// the explicit AS keyword, per config's `aliasing` key.
type tableAliasKeywordRule struct{}

func (r tableAliasKeywordRule) Code() string              { return "AL01" }
func (r tableAliasKeywordRule) Name() string               { return "aliasing.table" }
func (r tableAliasKeywordRule) Groups() []string            { return []string{"core", "aliasing"} }
func (r tableAliasKeywordRule) Fixable() bool               { return true }
func (r tableAliasKeywordRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeTableReference} }

func (r tableAliasKeywordRule) Eval(ctx *rules.Context) []rules.Violation {
	return checkAliasKeyword(ctx, "AL01")
}

// columnAliasKeywordRule is AL02: same check for column (select target)
// aliases.
type columnAliasKeywordRule struct{}

func (r columnAliasKeywordRule) Code() string              { return "AL02" }
func (r columnAliasKeywordRule) Name() string               { return "aliasing.column" }
func (r columnAliasKeywordRule) Groups() []string            { return []string{"core", "aliasing"} }
func (r columnAliasKeywordRule) Fixable() bool               { return true }
func (r columnAliasKeywordRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeSelectTarget} }

func (r columnAliasKeywordRule) Eval(ctx *rules.Context) []rules.Violation {
	return checkAliasKeyword(ctx, "AL02")
}

func checkAliasKeyword(ctx *rules.Context, code string) []rules.Violation {
	policy := "explicit"
	if ctx.Config != nil {
		if v, ok := ctx.Config.RuleOption(code, "aliasing"); ok {
			policy = v
		}
	}
	var alias segment.Segment
	for _, c := range ctx.Segment.Children() {
		if c.Tag() == ansi.NodeAlias {
			alias = c
			break
		}
	}
	if alias == nil {
		return nil
	}
	kids := alias.Children()
	hasAS := len(kids) > 0 && kids[0].Tag() == segment.TypeKeyword
	switch policy {
	case "explicit":
		if !hasAS {
			return []rules.Violation{{Message: "Use explicit AS keyword for alias.", Anchor: alias, Fixes: []rules.LintFix{{
				Anchor: alias, Kind: rules.CreateBefore,
				NewSegments: []segment.Segment{&segment.Raw{Type: segment.TypeKeyword, Text: "AS"}, &segment.Raw{Type: segment.TypeWhitespace, Text: " "}},
			}}}}
		}
	case "implicit":
		if hasAS {
			return []rules.Violation{{Message: "Alias should not use explicit AS keyword.", Anchor: kids[0], Fixes: []rules.LintFix{{Anchor: kids[0], Kind: rules.Delete}}}}
		}
	}
	return nil
}

// uniqueTableAliasRule is AL04: table aliases within one FROM clause must
// be unique.
type uniqueTableAliasRule struct{}

func (r uniqueTableAliasRule) Code() string              { return "AL04" }
func (r uniqueTableAliasRule) Name() string               { return "aliasing.unique.table" }
func (r uniqueTableAliasRule) Groups() []string            { return []string{"core", "aliasing"} }
func (r uniqueTableAliasRule) Fixable() bool               { return false }
func (r uniqueTableAliasRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeFromClause} }

func (r uniqueTableAliasRule) Eval(ctx *rules.Context) []rules.Violation {
	seen := map[string]bool{}
	var out []rules.Violation
	for _, ref := range segment.RecursiveFind(ctx.Segment, func(s segment.Segment) bool { return s.Tag() == ansi.NodeTableReference }) {
		for _, c := range ref.Children() {
			if c.Tag() != ansi.NodeAlias {
				continue
			}
			leaves := segment.Leaves(c)
			if len(leaves) == 0 {
				continue
			}
			name := leaves[len(leaves)-1].Raw()
			if seen[name] {
				out = append(out, rules.Violation{Message: "Duplicate table alias '" + name + "'.", Anchor: c})
			}
			seen[name] = true
		}
	}
	return out
}

// selfJoinAliasRule is AL05: self-joins must alias both sides so columns
// can be disambiguated.
type selfJoinAliasRule struct{}

func (r selfJoinAliasRule) Code() string              { return "AL05" }
func (r selfJoinAliasRule) Name() string               { return "aliasing.self_join" }
func (r selfJoinAliasRule) Groups() []string            { return []string{"aliasing"} }
func (r selfJoinAliasRule) Fixable() bool               { return false }
func (r selfJoinAliasRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeFromClause} }

func (r selfJoinAliasRule) Eval(ctx *rules.Context) []rules.Violation {
	names := map[string]int{}
	refs := segment.RecursiveFind(ctx.Segment, func(s segment.Segment) bool { return s.Tag() == ansi.NodeTableReference })
	for _, ref := range refs {
		leaves := segment.Leaves(ref.Children()[0])
		if len(leaves) == 0 {
			continue
		}
		names[leaves[len(leaves)-1].Raw()]++
	}
	var out []rules.Violation
	for _, ref := range refs {
		leaves := segment.Leaves(ref.Children()[0])
		if len(leaves) == 0 || names[leaves[len(leaves)-1].Raw()] < 2 {
			continue
		}
		hasAlias := false
		for _, c := range ref.Children() {
			if c.Tag() == ansi.NodeAlias {
				hasAlias = true
			}
		}
		if !hasAlias {
			out = append(out, rules.Violation{Message: "Self-joined table must be aliased.", Anchor: ref})
		}
	}
	return out
}

// expressionAliasRule is AL03: a computed SELECT expression (anything
// beyond a bare column reference) should have an explicit alias so
// downstream consumers get a stable column name.
type expressionAliasRule struct{}

func (r expressionAliasRule) Code() string              { return "AL03" }
func (r expressionAliasRule) Name() string               { return "aliasing.expression" }
func (r expressionAliasRule) Groups() []string            { return []string{"aliasing"} }
func (r expressionAliasRule) Fixable() bool               { return false }
func (r expressionAliasRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeSelectTarget} }

func (r expressionAliasRule) Eval(ctx *rules.Context) []rules.Violation {
	var expr segment.Segment
	hasAlias := false
	for _, c := range ctx.Segment.Children() {
		switch c.Tag() {
		case ansi.NodeExpression:
			expr = c
		case ansi.NodeAlias:
			hasAlias = true
		}
	}
	if expr == nil || hasAlias {
		return nil
	}
	var kids []segment.Segment
	for _, c := range expr.Children() {
		if !c.IsWhitespace() && !c.IsComment() {
			kids = append(kids, c)
		}
	}
	if len(kids) == 1 && kids[0].Tag() == ansi.NodeColumnReference {
		return nil
	}
	return []rules.Violation{{Message: "Computed expression in SELECT should have an explicit alias.", Anchor: ctx.Segment}}
}

// aliasLengthRule is AL06: aliases outside a configured length band are
// flagged (too short to be meaningful, or too long to be comfortable).
type aliasLengthRule struct{}

func (r aliasLengthRule) Code() string              { return "AL06" }
func (r aliasLengthRule) Name() string               { return "aliasing.length" }
func (r aliasLengthRule) Groups() []string            { return []string{"aliasing"} }
func (r aliasLengthRule) Fixable() bool               { return false }
func (r aliasLengthRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeAlias} }

func (r aliasLengthRule) Eval(ctx *rules.Context) []rules.Violation {
	if ctx.Config == nil {
		return nil
	}
	leaves := segment.Leaves(ctx.Segment)
	if len(leaves) == 0 {
		return nil
	}
	name := leaves[len(leaves)-1].Raw()
	if minStr, ok := ctx.Config.RuleOption("AL06", "min_length"); ok {
		if n, err := strconv.Atoi(minStr); err == nil && len(name) < n {
			return []rules.Violation{{Message: "Alias '" + name + "' is shorter than the configured minimum length.", Anchor: ctx.Segment}}
		}
	}
	if maxStr, ok := ctx.Config.RuleOption("AL06", "max_length"); ok {
		if n, err := strconv.Atoi(maxStr); err == nil && len(name) > n {
			return []rules.Violation{{Message: "Alias '" + name + "' exceeds the configured maximum length.", Anchor: ctx.Segment}}
		}
	}
	return nil
}

// forbidAliasRule is AL07: aliases are forbidden entirely when
// configured, e.g. for style guides that want every reference spelled
// out in full.
type forbidAliasRule struct{}

func (r forbidAliasRule) Code() string              { return "AL07" }
func (r forbidAliasRule) Name() string               { return "aliasing.forbid" }
func (r forbidAliasRule) Groups() []string            { return []string{"aliasing"} }
func (r forbidAliasRule) Fixable() bool               { return false }
func (r forbidAliasRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeAlias} }

func (r forbidAliasRule) Eval(ctx *rules.Context) []rules.Violation {
	if ctx.Config == nil {
		return nil
	}
	v, ok := ctx.Config.RuleOption("AL07", "forbid")
	if !ok || !strings.EqualFold(v, "true") {
		return nil
	}
	return []rules.Violation{{Message: "Aliases are forbidden by configuration.", Anchor: ctx.Segment}}
}

func init() {
	rules.Register(tableAliasKeywordRule{})
	rules.Register(columnAliasKeywordRule{})
	rules.Register(uniqueTableAliasRule{})
	rules.Register(selfJoinAliasRule{})
	rules.Register(expressionAliasRule{})
	rules.Register(aliasLengthRule{})
	rules.Register(forbidAliasRule{})
}
