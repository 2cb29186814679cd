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

// Package ansi is the root dialect: the common grammar and keyword sets
// every other dialect inherits from and overrides. It is registered
// first, with no parent, per spec.md §4.4 ("Each dialect declares a
// parent (ANSI at the root)").
package ansi

import "github.com/dolthub/sqrlint/segment"

// Lex-level tags: the coarse categories the lexer assigns before the
// grammar retags specific tokens (keyword, identifier, comma, ...).
const (
	TagWord          segment.Type = "word"
	TagSingleQuote   segment.Type = "single_quote"
	TagDoubleQuote   segment.Type = "double_quote"
	TagBackQuote     segment.Type = "back_quote"
	TagNumericLit    segment.Type = "numeric_literal"
	TagCode          segment.Type = "code"
	TagLineComment   segment.Type = "line_comment"
	TagBlockComment  segment.Type = "block_comment"
)

// Node / retag tags produced by the grammar.
const (
	NodeFile               = segment.TypeFile
	NodeStatement          segment.Type = "statement"
	NodeSelectStatement    segment.Type = "select_statement"
	NodeWithCompound       segment.Type = "with_compound_statement"
	NodeCTEDefinition      segment.Type = "common_table_expression"
	NodeInsertStatement    segment.Type = "insert_statement"
	NodeUpdateStatement    segment.Type = "update_statement"
	NodeDeleteStatement    segment.Type = "delete_statement"
	NodeCreateTable        segment.Type = "create_table_statement"
	NodeSelectClause       segment.Type = "select_clause"
	NodeSelectTarget       segment.Type = "select_target"
	NodeFromClause         segment.Type = "from_clause"
	NodeFromExpression     segment.Type = "from_expression"
	NodeJoinClause         segment.Type = "join_clause"
	NodeWhereClause        segment.Type = "where_clause"
	NodeGroupByClause      segment.Type = "groupby_clause"
	NodeHavingClause       segment.Type = "having_clause"
	NodeOrderByClause      segment.Type = "orderby_clause"
	NodeOrderByItem        segment.Type = "orderby_item"
	NodeLimitClause        segment.Type = "limit_clause"
	NodeSetOperator        segment.Type = "set_operator"
	NodeColumnReference    segment.Type = "column_reference"
	NodeTableReference     segment.Type = "table_reference"
	NodeAlias              segment.Type = "alias_expression"
	NodeFunction           segment.Type = "function"
	NodeFunctionName       segment.Type = "function_name"
	NodeExpression         segment.Type = "expression"
	NodeCaseExpression     segment.Type = "case_expression"
	NodeWhenClause         segment.Type = "when_clause"
	NodeElseClause         segment.Type = "else_clause"
	NodeLiteral            segment.Type = "literal"
	NodeBracketed          segment.Type = "bracketed"
	NodeColumnDefinition   segment.Type = "column_definition"
	NodeDataType           segment.Type = "data_type"
	NodeComma              segment.Type = "comma"
	NodeDot                segment.Type = "dot"
	NodeStar               segment.Type = "star"
	NodeOperator           segment.Type = "binary_operator"
	NodeSetExpression      segment.Type = "set_expression"
	NodeColumnDefaultList  segment.Type = "column_definition_list"
)

func init() {
	segment.RegisterPredicates(TagWord, segment.Predicates{IsCode: true})
	segment.RegisterPredicates(TagSingleQuote, segment.Predicates{IsCode: true})
	segment.RegisterPredicates(TagDoubleQuote, segment.Predicates{IsCode: true})
	segment.RegisterPredicates(TagBackQuote, segment.Predicates{IsCode: true})
	segment.RegisterPredicates(TagNumericLit, segment.Predicates{IsCode: true})
	segment.RegisterPredicates(TagCode, segment.Predicates{IsCode: true})
	segment.RegisterPredicates(TagLineComment, segment.Predicates{IsComment: true})
	segment.RegisterPredicates(TagBlockComment, segment.Predicates{IsComment: true})
	for _, t := range []segment.Type{
		NodeFile, NodeStatement, NodeSelectStatement, NodeWithCompound,
		NodeCTEDefinition, NodeInsertStatement, NodeUpdateStatement,
		NodeDeleteStatement, NodeCreateTable, NodeSelectClause,
		NodeSelectTarget, NodeFromClause, NodeFromExpression,
		NodeJoinClause, NodeWhereClause, NodeGroupByClause,
		NodeHavingClause, NodeOrderByClause, NodeOrderByItem,
		NodeLimitClause, NodeSetOperator, NodeColumnReference,
		NodeTableReference, NodeAlias, NodeFunction, NodeFunctionName,
		NodeExpression, NodeCaseExpression, NodeWhenClause, NodeElseClause,
		NodeLiteral, NodeBracketed, NodeColumnDefinition, NodeDataType,
		NodeComma, NodeDot, NodeStar, NodeOperator, NodeSetExpression,
		NodeColumnDefaultList,
		segment.TypeKeyword, segment.TypeIdentifier,
	} {
		segment.RegisterPredicates(t, segment.Predicates{IsCode: true})
	}
}
