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

// Package lineage is an optional column-lineage subsystem (SPEC_FULL.md
// §4.9): for each output column of a SELECT statement, it resolves the
// set of source-table columns that feed it, by walking the already-built
// parse tree — no separate catalog or type-checker is involved, so
// lineage here is purely syntactic (alias/column-reference following),
// not semantic. Grounded on the teacher's expression.Expression tree
// walk used to resolve column references during analysis
// (sql/expression), adapted from "resolve a reference against a schema"
// to "resolve a reference against the set of FROM-clause table names".
package lineage

import (
	"github.com/dolthub/sqrlint/dialects/ansi"
	"github.com/dolthub/sqrlint/segment"
)

// ColumnRef identifies a source column as (table, column). An unqualified
// column is attributed to the FROM clause's table when there is exactly
// one; table is "" when there is none or more than one.
type ColumnRef struct {
	Table  string
	Column string
}

// OutputColumn is one SELECT target's resolved name plus its lineage:
// the set of source ColumnRefs a best-effort syntactic walk found
// feeding it.
type OutputColumn struct {
	Name    string
	Sources []ColumnRef
}

// Analyze resolves lineage for every select_statement node found in
// tree, nested ones (subqueries, CTE bodies) included.
func Analyze(tree segment.Segment) []OutputColumn {
	var out []OutputColumn
	for _, stmt := range segment.RecursiveFind(tree, func(s segment.Segment) bool { return s.Tag() == ansi.NodeSelectStatement }) {
		out = append(out, analyzeSelect(stmt)...)
	}
	return out
}

func analyzeSelect(selectCore segment.Segment) []OutputColumn {
	var selectClause, fromClause segment.Segment
	for _, c := range selectCore.Children() {
		switch c.Tag() {
		case ansi.NodeSelectClause:
			selectClause = c
		case ansi.NodeFromClause:
			fromClause = c
		}
	}
	if selectClause == nil {
		return nil
	}

	tables := sourceTables(fromClause)
	singleTable := ""
	if len(tables) == 1 {
		singleTable = tables[0]
	}

	var out []OutputColumn
	for _, target := range selectClause.Children() {
		if target.Tag() != ansi.NodeSelectTarget {
			continue
		}
		out = append(out, analyzeTarget(target, singleTable))
	}
	return out
}

// sourceTables returns the table/alias names visible in fromClause, in
// document order (used to decide whether an unqualified column can be
// resolved unambiguously).
func sourceTables(fromClause segment.Segment) []string {
	if fromClause == nil {
		return nil
	}
	var names []string
	for _, ref := range segment.RecursiveFind(fromClause, func(s segment.Segment) bool { return s.Tag() == ansi.NodeTableReference }) {
		names = append(names, tableName(ref))
	}
	return names
}

func tableName(ref segment.Segment) string {
	for _, c := range ref.Children() {
		if c.Tag() == ansi.NodeAlias {
			leaves := segment.Leaves(c)
			if len(leaves) > 0 {
				return leaves[len(leaves)-1].Raw()
			}
		}
	}
	leaves := segment.Leaves(ref.Children()[0])
	if len(leaves) == 0 {
		return ""
	}
	return leaves[0].Raw()
}

func analyzeTarget(target segment.Segment, singleTable string) OutputColumn {
	name := outputName(target)
	var sources []ColumnRef
	for _, colRef := range segment.RecursiveFind(target, func(s segment.Segment) bool { return s.Tag() == ansi.NodeColumnReference }) {
		sources = append(sources, resolveColumnRef(colRef, singleTable))
	}
	return OutputColumn{Name: name, Sources: sources}
}

func outputName(target segment.Segment) string {
	for _, c := range target.Children() {
		if c.Tag() == ansi.NodeAlias {
			leaves := segment.Leaves(c)
			if len(leaves) > 0 {
				return leaves[len(leaves)-1].Raw()
			}
		}
	}
	leaves := segment.Leaves(target)
	if len(leaves) == 0 {
		return ""
	}
	return leaves[len(leaves)-1].Raw()
}

func resolveColumnRef(ref segment.Segment, singleTable string) ColumnRef {
	leaves := segment.Leaves(ref)
	var parts []string
	for _, l := range leaves {
		if l.Tag() == ansi.NodeDot {
			continue
		}
		parts = append(parts, l.Raw())
	}
	switch len(parts) {
	case 2:
		return ColumnRef{Table: parts[0], Column: parts[1]}
	case 1:
		return ColumnRef{Table: singleTable, Column: parts[0]}
	default:
		return ColumnRef{}
	}
}
