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

// Package postgres overrides ANSI with PostgreSQL's `::` cast operator
// and ILIKE, plus a few reserved words. Identifier quoting (double
// quotes) is already ANSI-compatible and needs no override.
package postgres

import (
	"github.com/dolthub/sqrlint/dialect"
	"github.com/dolthub/sqrlint/dialects/ansi"
	"github.com/dolthub/sqrlint/grammar"
)

// Name is the dialect name used in config and on the CLI.
const Name = "postgres"

// ReservedKeywords are PostgreSQL-only additions.
var ReservedKeywords = []string{"ILIKE", "RETURNING", "SERIAL"}

// GrammarOverrides replaces the binary-operator rule with ANSI's
// operators plus the `::` cast operator and ILIKE.
func GrammarOverrides() map[string]dialect.GrammarRule {
	return map[string]dialect.GrammarRule{
		"binary_operator": grammar.AsNode{Tag: ansi.NodeOperator, Inner: grammar.OneOf{Alternatives: []grammar.Matcher{
			grammar.StringParser{Word: "<>", Tag: ansi.NodeOperator},
			grammar.StringParser{Word: "!=", Tag: ansi.NodeOperator},
			grammar.StringParser{Word: "<=", Tag: ansi.NodeOperator},
			grammar.StringParser{Word: ">=", Tag: ansi.NodeOperator},
			grammar.StringParser{Word: "=", Tag: ansi.NodeOperator},
			grammar.StringParser{Word: "<", Tag: ansi.NodeOperator},
			grammar.StringParser{Word: ">", Tag: ansi.NodeOperator},
			grammar.StringParser{Word: "+", Tag: ansi.NodeOperator},
			grammar.StringParser{Word: "-", Tag: ansi.NodeOperator},
			grammar.StringParser{Word: "*", Tag: ansi.NodeOperator},
			grammar.StringParser{Word: "/", Tag: ansi.NodeOperator},
			grammar.StringParser{Word: "%", Tag: ansi.NodeOperator},
			grammar.StringParser{Word: "::", Tag: ansi.NodeOperator},
			grammar.StringParser{Word: "AND", Tag: "keyword"},
			grammar.StringParser{Word: "OR", Tag: "keyword"},
			grammar.StringParser{Word: "LIKE", Tag: "keyword"},
			grammar.StringParser{Word: "ILIKE", Tag: "keyword"},
			grammar.StringParser{Word: "IN", Tag: "keyword"},
			grammar.StringParser{Word: "IS", Tag: "keyword"},
		}}},
	}
}

// Definition returns the PostgreSQL dialect's registration Definition,
// parented on ansi.
func Definition() dialect.Definition {
	return dialect.Definition{
		Name:   Name,
		Parent: ansi.Name,
		KeywordSets: map[dialect.KeywordSetName][]string{
			dialect.Reserved: ReservedKeywords,
		},
		GrammarRules: GrammarOverrides(),
	}
}

// Register registers postgres (parented on an already-registered ansi)
// with r and returns the effective *Dialect.
func Register(r *dialect.Registry) (*dialect.Dialect, error) {
	return r.Register(Definition())
}
