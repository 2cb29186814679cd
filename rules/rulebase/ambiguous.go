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
	"strings"

	"github.com/dolthub/sqrlint/dialects/ansi"
	"github.com/dolthub/sqrlint/rules"
	"github.com/dolthub/sqrlint/segment"
)

// distinctColumnRule is AM01: ambiguous use of DISTINCT with a trailing
// GROUP BY (DISTINCT is redundant once GROUP BY already de-duplicates).
type distinctColumnRule struct{}

func (r distinctColumnRule) Code() string              { return "AM01" }
func (r distinctColumnRule) Name() string               { return "ambiguous.distinct" }
func (r distinctColumnRule) Groups() []string            { return []string{"ambiguous"} }
func (r distinctColumnRule) Fixable() bool               { return false }
func (r distinctColumnRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeSelectClause} }

func (r distinctColumnRule) Eval(ctx *rules.Context) []rules.Violation {
	hasDistinct := false
	for _, c := range ctx.Segment.Children() {
		if c.Tag() == segment.TypeKeyword && strings.EqualFold(c.Raw(), "DISTINCT") {
			hasDistinct = true
		}
	}
	parent := ctx.Path.Parent()
	if hasDistinct && parent != nil {
		for _, sib := range parent.Children() {
			if sib.Tag() == ansi.NodeGroupByClause {
				return []rules.Violation{{Message: "DISTINCT is redundant alongside GROUP BY.", Anchor: ctx.Segment}}
			}
		}
	}
	return nil
}

// orderByAmbiguousRule is AM02: ORDER BY referencing a select-list
// position mixed with named columns is ambiguous. SPEC_FULL.md's
// catalog assigns "ambiguous.order_by" to AM03 instead (direction
// ambiguity, see orderByDirectionAmbiguousRule below); AM02 keeps its
// existing code and positional/named check but takes a non-colliding
// name since no table row matches this exact behavior.
type orderByAmbiguousRule struct{}

func (r orderByAmbiguousRule) Code() string              { return "AM02" }
func (r orderByAmbiguousRule) Name() string               { return "ambiguous.order_by_reference" }
func (r orderByAmbiguousRule) Groups() []string            { return []string{"ambiguous"} }
func (r orderByAmbiguousRule) Fixable() bool               { return false }
func (r orderByAmbiguousRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeOrderByClause} }

func (r orderByAmbiguousRule) Eval(ctx *rules.Context) []rules.Violation {
	var numeric, named bool
	for _, item := range ctx.Segment.Children() {
		if item.Tag() != ansi.NodeOrderByItem {
			continue
		}
		leaves := segment.Leaves(item)
		if len(leaves) > 0 && leaves[0].Tag() == "numeric_literal" {
			numeric = true
		} else {
			named = true
		}
	}
	if numeric && named {
		return []rules.Violation{{Message: "ORDER BY mixes positional and named references.", Anchor: ctx.Segment}}
	}
	return nil
}

// joinTypeImplicitRule is AM05: implicit (comma-style) joins are
// ambiguous about join intent; prefer explicit JOIN.
type joinTypeImplicitRule struct{}

func (r joinTypeImplicitRule) Code() string              { return "AM05" }
func (r joinTypeImplicitRule) Name() string               { return "ambiguous.join" }
func (r joinTypeImplicitRule) Groups() []string            { return []string{"ambiguous"} }
func (r joinTypeImplicitRule) Fixable() bool               { return false }
func (r joinTypeImplicitRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeFromClause} }

func (r joinTypeImplicitRule) Eval(ctx *rules.Context) []rules.Violation {
	refCount := 0
	for _, c := range ctx.Segment.Children() {
		if c.Tag() == ansi.NodeTableReference {
			refCount++
		}
	}
	if refCount > 1 {
		return []rules.Violation{{Message: "Implicit cross join via comma; use explicit JOIN.", Anchor: ctx.Segment}}
	}
	return nil
}

// setOperatorAllRule is AM06: UNION without ALL/DISTINCT qualification is
// ambiguous about de-duplication intent across dialects.
type setOperatorAllRule struct{}

func (r setOperatorAllRule) Code() string              { return "AM06" }
func (r setOperatorAllRule) Name() string               { return "ambiguous.set_operator" }
func (r setOperatorAllRule) Groups() []string            { return []string{"ambiguous"} }
func (r setOperatorAllRule) Fixable() bool               { return false }
func (r setOperatorAllRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeSetOperator} }

func (r setOperatorAllRule) Eval(ctx *rules.Context) []rules.Violation {
	leaves := segment.Leaves(ctx.Segment)
	if len(leaves) == 1 && strings.EqualFold(leaves[0].Raw(), "UNION") {
		return []rules.Violation{{Message: "UNION without ALL or DISTINCT is ambiguous; state the intent explicitly.", Anchor: ctx.Segment}}
	}
	return nil
}

// orderByDirectionAmbiguousRule is AM03: an ORDER BY with more than one
// item states a sort direction on some items but not others, leaving
// the direction of the unmarked ones ambiguous to a reader (ANSI SQL
// does not have them inherit the previous item's direction).
type orderByDirectionAmbiguousRule struct{}

func (r orderByDirectionAmbiguousRule) Code() string              { return "AM03" }
func (r orderByDirectionAmbiguousRule) Name() string               { return "ambiguous.order_by" }
func (r orderByDirectionAmbiguousRule) Groups() []string            { return []string{"ambiguous"} }
func (r orderByDirectionAmbiguousRule) Fixable() bool               { return false }
func (r orderByDirectionAmbiguousRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeOrderByClause} }

func (r orderByDirectionAmbiguousRule) Eval(ctx *rules.Context) []rules.Violation {
	var withDir, withoutDir int
	for _, item := range ctx.Segment.Children() {
		if item.Tag() != ansi.NodeOrderByItem {
			continue
		}
		hasDir := false
		for _, l := range segment.Leaves(item) {
			if l.Tag() == segment.TypeKeyword && (strings.EqualFold(l.Raw(), "ASC") || strings.EqualFold(l.Raw(), "DESC")) {
				hasDir = true
			}
		}
		if hasDir {
			withDir++
		} else {
			withoutDir++
		}
	}
	if withDir > 0 && withoutDir > 0 {
		return []rules.Violation{{Message: "ORDER BY mixes explicit and implicit sort direction across items.", Anchor: ctx.Segment}}
	}
	return nil
}

// groupByReferenceRule is AM04: GROUP BY mixing positional (ordinal)
// and named column references makes it unclear which columns are
// actually being grouped on.
type groupByReferenceRule struct{}

func (r groupByReferenceRule) Code() string              { return "AM04" }
func (r groupByReferenceRule) Name() string               { return "ambiguous.column_references" }
func (r groupByReferenceRule) Groups() []string            { return []string{"ambiguous"} }
func (r groupByReferenceRule) Fixable() bool               { return false }
func (r groupByReferenceRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeGroupByClause} }

func (r groupByReferenceRule) Eval(ctx *rules.Context) []rules.Violation {
	var numeric, named bool
	for _, c := range ctx.Segment.Children() {
		if c.Tag() != ansi.NodeExpression {
			continue
		}
		leaves := segment.Leaves(c)
		if len(leaves) == 0 {
			continue
		}
		if leaves[0].Tag() == "numeric_literal" {
			numeric = true
		} else {
			named = true
		}
	}
	if numeric && named {
		return []rules.Violation{{Message: "GROUP BY mixes positional and named column references.", Anchor: ctx.Segment}}
	}
	return nil
}

// setColumnCountRule is AM07: UNION (or other set-operator) branches
// with differing numbers of select targets can't line up column-wise.
type setColumnCountRule struct{}

func (r setColumnCountRule) Code() string              { return "AM07" }
func (r setColumnCountRule) Name() string               { return "ambiguous.set_columns" }
func (r setColumnCountRule) Groups() []string            { return []string{"ambiguous"} }
func (r setColumnCountRule) Fixable() bool               { return false }
func (r setColumnCountRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeSetExpression} }

func (r setColumnCountRule) Eval(ctx *rules.Context) []rules.Violation {
	var cores []segment.Segment
	for _, c := range ctx.Segment.Children() {
		if c.Tag() == ansi.NodeSelectStatement {
			cores = append(cores, c)
		}
	}
	if len(cores) < 2 {
		return nil
	}
	first := -1
	var out []rules.Violation
	for i, core := range cores {
		var selectClause segment.Segment
		for _, c := range core.Children() {
			if c.Tag() == ansi.NodeSelectClause {
				selectClause = c
			}
		}
		if selectClause == nil {
			continue
		}
		n := 0
		for _, c := range selectClause.Children() {
			if c.Tag() == ansi.NodeSelectTarget {
				n++
			}
		}
		if i == 0 {
			first = n
			continue
		}
		if n != first {
			out = append(out, rules.Violation{Message: "Set-operator branch has a different number of select targets than the first.", Anchor: core})
		}
	}
	return out
}

func init() {
	rules.Register(distinctColumnRule{})
	rules.Register(orderByAmbiguousRule{})
	rules.Register(joinTypeImplicitRule{})
	rules.Register(setOperatorAllRule{})
	rules.Register(orderByDirectionAmbiguousRule{})
	rules.Register(groupByReferenceRule{})
	rules.Register(setColumnCountRule{})
}
