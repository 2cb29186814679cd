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

// Package mysql overrides a subset of the ANSI dialect's rules: backtick
// identifiers, bare-function differences, and a handful of MySQL-only
// reserved words. Everything else is inherited unchanged via
// dialect.Registry's parent-layering, per spec.md §4.4.
package mysql

import (
	"github.com/dolthub/sqrlint/dialect"
	"github.com/dolthub/sqrlint/dialects/ansi"
	"github.com/dolthub/sqrlint/grammar"
	"github.com/dolthub/sqrlint/segment"
)

// Name is the dialect name used in config and on the CLI.
const Name = "mysql"

// ReservedKeywords are MySQL-only additions layered on top of ANSI's set.
var ReservedKeywords = []string{
	"AUTO_INCREMENT", "REPLACE", "IGNORE", "SHOW", "DESCRIBE", "EXPLAIN",
}

// BareFunctions adds MySQL-only bare functions.
var BareFunctions = []string{"CURRENT_ROLE"}

// LexerMatchers layers a back-quote identifier matcher after the
// inherited ANSI matchers (MySQL's `foo` quoting).
var LexerMatchers = []dialect.LexerMatcher{
	{Name: "back_quote", Pattern: "`([^`]|``)*`", Tag: string(ansi.TagBackQuote)},
}

func init() {
	segment.RegisterPredicates(ansi.TagBackQuote, segment.Predicates{IsCode: true})
}

// identWithBackquote is MySQL's identifier matcher: ANSI's rules plus
// back-quoted identifiers.
func identWithBackquote() grammar.Matcher {
	return grammar.Identifier{WordTag: ansi.TagWord, QuotedTag: []segment.Type{ansi.TagDoubleQuote, ansi.TagBackQuote}}
}

// GrammarOverrides replaces the handful of rules that need back-quote
// awareness; every other rule is inherited unchanged from ansi.
func GrammarOverrides() map[string]dialect.GrammarRule {
	return map[string]dialect.GrammarRule{
		"column_reference": grammar.AsNode{Tag: ansi.NodeColumnReference, Inner: grammar.Sequence{Elements: []grammar.SequenceElement{
			grammar.SeqTight(identWithBackquote()),
			grammar.SeqTight(grammar.Optional{Inner: grammar.Sequence{Elements: []grammar.SequenceElement{
				grammar.SeqTight(grammar.StringParser{Word: ".", Tag: ansi.NodeDot}),
				grammar.SeqTight(identWithBackquote()),
			}}}),
		}}},
	}
}

// Definition returns the MySQL dialect's registration Definition, parented
// on ansi.
func Definition() dialect.Definition {
	return dialect.Definition{
		Name:   Name,
		Parent: ansi.Name,
		KeywordSets: map[dialect.KeywordSetName][]string{
			dialect.Reserved:      ReservedKeywords,
			dialect.BareFunctions: BareFunctions,
		},
		GrammarRules:  GrammarOverrides(),
		LexerMatchers: LexerMatchers,
	}
}

// Register registers mysql (parented on an already-registered ansi) with
// r and returns the effective *Dialect.
func Register(r *dialect.Registry) (*dialect.Dialect, error) {
	return r.Register(Definition())
}
