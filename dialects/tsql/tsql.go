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

// Package tsql overrides ANSI with T-SQL's `[bracketed]` identifier
// quoting and a few reserved words.
//
// Open question (spec.md §9 DESIGN NOTES): T-SQL has a documented class
// of keyword-vs-identifier ambiguities in procedure bodies, including the
// `sao.ORDERPOS_P AS Position` join-alias pattern, that cannot be
// decided from the grammar alone. This implementation takes option (a):
// require quoting. An unquoted identifier that collides with a keyword
// in a position the grammar cannot otherwise disambiguate is left
// unparsed (surfaced as a PRS-class warning by the parser driver) rather
// than guessed at — see DESIGN.md.
package tsql

import (
	"github.com/dolthub/sqrlint/dialect"
	"github.com/dolthub/sqrlint/dialects/ansi"
	"github.com/dolthub/sqrlint/grammar"
	"github.com/dolthub/sqrlint/segment"
)

// Name is the dialect name used in config and on the CLI.
const Name = "tsql"

// BracketQuote is the tag assigned to `[...]`-quoted identifiers.
const BracketQuote segment.Type = "bracket_quote"

// ReservedKeywords are T-SQL-only additions.
var ReservedKeywords = []string{"TOP", "IDENTITY", "NVARCHAR", "OUTPUT"}

// LexerMatchers layers a bracket-quoted identifier matcher after the
// inherited ANSI matchers.
var LexerMatchers = []dialect.LexerMatcher{
	{Name: "bracket_quote", Pattern: `\[[^\]]*\]`, Tag: string(BracketQuote)},
}

func init() {
	segment.RegisterPredicates(BracketQuote, segment.Predicates{IsCode: true})
}

func identWithBrackets() grammar.Matcher {
	return grammar.Identifier{WordTag: ansi.TagWord, QuotedTag: []segment.Type{ansi.TagDoubleQuote, BracketQuote}}
}

// GrammarOverrides replaces the rules that need bracket-quote awareness.
func GrammarOverrides() map[string]dialect.GrammarRule {
	return map[string]dialect.GrammarRule{
		"column_reference": grammar.AsNode{Tag: ansi.NodeColumnReference, Inner: grammar.Sequence{Elements: []grammar.SequenceElement{
			grammar.SeqTight(identWithBrackets()),
			grammar.SeqTight(grammar.Optional{Inner: grammar.Sequence{Elements: []grammar.SequenceElement{
				grammar.SeqTight(grammar.StringParser{Word: ".", Tag: ansi.NodeDot}),
				grammar.SeqTight(identWithBrackets()),
			}}}),
		}}},
	}
}

// Definition returns the T-SQL dialect's registration Definition,
// parented on ansi.
func Definition() dialect.Definition {
	return dialect.Definition{
		Name:   Name,
		Parent: ansi.Name,
		KeywordSets: map[dialect.KeywordSetName][]string{
			dialect.Reserved: ReservedKeywords,
		},
		GrammarRules:  GrammarOverrides(),
		LexerMatchers: LexerMatchers,
	}
}

// Register registers tsql (parented on an already-registered ansi) with
// r and returns the effective *Dialect.
func Register(r *dialect.Registry) (*dialect.Dialect, error) {
	return r.Register(Definition())
}
