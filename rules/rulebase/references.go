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

// qualifiedColumnConsistencyRule is RF02: when a query joins more than
// one table, every column reference should be table-qualified.
type qualifiedColumnConsistencyRule struct{}

func (r qualifiedColumnConsistencyRule) Code() string { return "RF02" }
func (r qualifiedColumnConsistencyRule) Name() string  { return "references.qualification" }
func (r qualifiedColumnConsistencyRule) Groups() []string {
	return []string{"core", "references"}
}
func (r qualifiedColumnConsistencyRule) Fixable() bool               { return false }
func (r qualifiedColumnConsistencyRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeSelectStatement} }

func (r qualifiedColumnConsistencyRule) Eval(ctx *rules.Context) []rules.Violation {
	var fromClause segment.Segment
	for _, c := range ctx.Segment.Children() {
		if c.Tag() == ansi.NodeFromClause {
			fromClause = c
		}
	}
	if fromClause == nil {
		return nil
	}
	tableCount := 0
	for _, t := range segment.RecursiveFind(fromClause, func(s segment.Segment) bool { return s.Tag() == ansi.NodeTableReference }) {
		_ = t
		tableCount++
	}
	if tableCount < 2 {
		return nil
	}
	var out []rules.Violation
	var selectClause segment.Segment
	for _, c := range ctx.Segment.Children() {
		if c.Tag() == ansi.NodeSelectClause {
			selectClause = c
		}
	}
	if selectClause == nil {
		return nil
	}
	for _, ref := range segment.RecursiveFind(selectClause, func(s segment.Segment) bool { return s.Tag() == ansi.NodeColumnReference }) {
		hasDot := false
		for _, c := range ref.Children() {
			if c.Tag() == ansi.NodeDot {
				hasDot = true
			}
		}
		if !hasDot {
			out = append(out, rules.Violation{Message: "Column reference is unqualified in a multi-table query.", Anchor: ref})
		}
	}
	return out
}

// singleTableNoQualificationRule is RF03: with a single unaliased table,
// qualification is needless noise; flagged the opposite way from RF02.
type singleTableNoQualificationRule struct{}

func (r singleTableNoQualificationRule) Code() string { return "RF03" }
func (r singleTableNoQualificationRule) Name() string  { return "references.consistent" }
func (r singleTableNoQualificationRule) Groups() []string {
	return []string{"references"}
}
func (r singleTableNoQualificationRule) Fixable() bool               { return true }
func (r singleTableNoQualificationRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeSelectStatement} }

func (r singleTableNoQualificationRule) Eval(ctx *rules.Context) []rules.Violation {
	var fromClause segment.Segment
	for _, c := range ctx.Segment.Children() {
		if c.Tag() == ansi.NodeFromClause {
			fromClause = c
		}
	}
	if fromClause == nil {
		return nil
	}
	refs := segment.RecursiveFind(fromClause, func(s segment.Segment) bool { return s.Tag() == ansi.NodeTableReference })
	if len(refs) != 1 {
		return nil
	}
	for _, c := range refs[0].Children() {
		if c.Tag() == ansi.NodeAlias {
			return nil
		}
	}
	var selectClause segment.Segment
	for _, c := range ctx.Segment.Children() {
		if c.Tag() == ansi.NodeSelectClause {
			selectClause = c
		}
	}
	if selectClause == nil {
		return nil
	}
	var out []rules.Violation
	for _, ref := range segment.RecursiveFind(selectClause, func(s segment.Segment) bool { return s.Tag() == ansi.NodeColumnReference }) {
		for _, c := range ref.Children() {
			if c.Tag() == ansi.NodeDot {
				out = append(out, rules.Violation{Message: "Needless table qualification with a single unaliased table in scope.", Anchor: ref})
			}
		}
	}
	return out
}

// unnecessaryQuotingRule is RF06: quoted identifiers used where an
// unquoted one would do (unnecessary quoting noise).
type unnecessaryQuotingRule struct{}

func (r unnecessaryQuotingRule) Code() string              { return "RF06" }
func (r unnecessaryQuotingRule) Name() string               { return "references.quoting" }
func (r unnecessaryQuotingRule) Groups() []string            { return []string{"references"} }
func (r unnecessaryQuotingRule) Fixable() bool               { return true }
func (r unnecessaryQuotingRule) TargetTypes() []segment.Type { return []segment.Type{ansi.TagDoubleQuote} }

func (r unnecessaryQuotingRule) Eval(ctx *rules.Context) []rules.Violation {
	parent := ctx.Path.Parent()
	if parent == nil {
		return nil
	}
	switch parent.Tag() {
	case ansi.NodeColumnReference, ansi.NodeTableReference, ansi.NodeAlias:
	default:
		return nil
	}
	inner := ctx.Segment.Raw()
	if len(inner) < 2 {
		return nil
	}
	inner = inner[1 : len(inner)-1]
	if !isPlainIdentifier(inner) {
		return nil
	}
	return []rules.Violation{{
		Message: "Unnecessary quoting of identifier '" + inner + "'.",
		Anchor:  ctx.Segment,
		Fixes: []rules.LintFix{{
			Anchor: ctx.Segment, Kind: rules.Replace,
			NewSegments: []segment.Segment{&segment.Raw{Type: ansi.TagWord, Text: inner, SrcSlc: ctx.Segment.Slice()}},
		}},
	}}
}

func isPlainIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// referenceFromRule is RF01: a qualified column reference whose
// qualifier doesn't match any table name or alias visible in the
// query's FROM clause.
type referenceFromRule struct{}

func (r referenceFromRule) Code() string              { return "RF01" }
func (r referenceFromRule) Name() string               { return "references.from" }
func (r referenceFromRule) Groups() []string            { return []string{"core", "references"} }
func (r referenceFromRule) Fixable() bool               { return false }
func (r referenceFromRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeSelectStatement} }

func (r referenceFromRule) Eval(ctx *rules.Context) []rules.Violation {
	var fromClause, selectClause segment.Segment
	for _, c := range ctx.Segment.Children() {
		switch c.Tag() {
		case ansi.NodeFromClause:
			fromClause = c
		case ansi.NodeSelectClause:
			selectClause = c
		}
	}
	if fromClause == nil || selectClause == nil {
		return nil
	}
	names := map[string]bool{}
	for _, ref := range segment.RecursiveFind(fromClause, func(s segment.Segment) bool { return s.Tag() == ansi.NodeTableReference }) {
		nm := ""
		for _, c := range ref.Children() {
			if c.Tag() == ansi.NodeAlias {
				nm = columnName(c)
			}
		}
		if nm == "" && len(ref.Children()) > 0 {
			nm = columnName(ref.Children()[0])
		}
		if nm != "" {
			names[strings.ToLower(nm)] = true
		}
	}
	if len(names) == 0 {
		return nil
	}
	var out []rules.Violation
	for _, ref := range segment.RecursiveFind(selectClause, func(s segment.Segment) bool { return s.Tag() == ansi.NodeColumnReference }) {
		hasDot := false
		for _, c := range ref.Children() {
			if c.Tag() == ansi.NodeDot {
				hasDot = true
			}
		}
		if !hasDot {
			continue
		}
		leaves := segment.Leaves(ref)
		if len(leaves) == 0 {
			continue
		}
		q := strings.ToLower(leaves[0].Raw())
		if !names[q] {
			out = append(out, rules.Violation{Message: "Qualifier '" + q + "' doesn't match any table or alias in FROM.", Anchor: ref})
		}
	}
	return out
}

// reservedKeywordIdentifierRule is RF04: a quoted identifier that
// collides with a reserved word is legal (quoting escapes it) but
// confusing to read.
type reservedKeywordIdentifierRule struct{}

func (r reservedKeywordIdentifierRule) Code() string              { return "RF04" }
func (r reservedKeywordIdentifierRule) Name() string               { return "references.keywords" }
func (r reservedKeywordIdentifierRule) Groups() []string            { return []string{"references"} }
func (r reservedKeywordIdentifierRule) Fixable() bool               { return false }
func (r reservedKeywordIdentifierRule) TargetTypes() []segment.Type { return []segment.Type{ansi.TagDoubleQuote} }

func (r reservedKeywordIdentifierRule) Eval(ctx *rules.Context) []rules.Violation {
	inner := ctx.Segment.Raw()
	if len(inner) < 2 {
		return nil
	}
	inner = inner[1 : len(inner)-1]
	for _, kw := range ansi.ReservedKeywords {
		if strings.EqualFold(kw, inner) {
			return []rules.Violation{{Message: "Identifier '" + inner + "' collides with the reserved word " + kw + ".", Anchor: ctx.Segment}}
		}
	}
	return nil
}

// specialCharIdentifierRule is RF05: a quoted identifier containing
// characters beyond letters, digits, and underscore is hard to
// reference consistently across tools.
type specialCharIdentifierRule struct{}

func (r specialCharIdentifierRule) Code() string              { return "RF05" }
func (r specialCharIdentifierRule) Name() string               { return "references.special_chars" }
func (r specialCharIdentifierRule) Groups() []string            { return []string{"references"} }
func (r specialCharIdentifierRule) Fixable() bool               { return false }
func (r specialCharIdentifierRule) TargetTypes() []segment.Type { return []segment.Type{ansi.TagDoubleQuote} }

func (r specialCharIdentifierRule) Eval(ctx *rules.Context) []rules.Violation {
	inner := ctx.Segment.Raw()
	if len(inner) < 2 {
		return nil
	}
	inner = inner[1 : len(inner)-1]
	if isPlainIdentifier(inner) || inner == "" {
		return nil
	}
	return []rules.Violation{{Message: "Identifier '" + inner + "' uses characters that may not be portable across tools.", Anchor: ctx.Segment}}
}

func init() {
	rules.Register(qualifiedColumnConsistencyRule{})
	rules.Register(singleTableNoQualificationRule{})
	rules.Register(unnecessaryQuotingRule{})
	rules.Register(referenceFromRule{})
	rules.Register(reservedKeywordIdentifierRule{})
	rules.Register(specialCharIdentifierRule{})
}
