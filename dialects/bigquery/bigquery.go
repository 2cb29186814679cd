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

// Package bigquery overrides ANSI with BigQuery's back-quoted,
// dot-and-dash-tolerant table-path identifiers and a few reserved words.
package bigquery

import (
	"github.com/dolthub/sqrlint/dialect"
	"github.com/dolthub/sqrlint/dialects/ansi"
)

// Name is the dialect name used in config and on the CLI.
const Name = "bigquery"

// ReservedKeywords are BigQuery-only additions.
var ReservedKeywords = []string{"QUALIFY", "STRUCT", "ARRAY", "UNNEST"}

// LexerMatchers layers a back-quoted path matcher (project.dataset.table
// or dashed project ids) after the inherited ANSI matchers.
var LexerMatchers = []dialect.LexerMatcher{
	{Name: "back_quote_path", Pattern: "`[^`]*`", Tag: string(ansi.TagBackQuote)},
}

// Definition returns the BigQuery dialect's registration Definition,
// parented on ansi.
func Definition() dialect.Definition {
	return dialect.Definition{
		Name:   Name,
		Parent: ansi.Name,
		KeywordSets: map[dialect.KeywordSetName][]string{
			dialect.Reserved: ReservedKeywords,
		},
		LexerMatchers: LexerMatchers,
	}
}

// Register registers bigquery (parented on an already-registered ansi)
// with r and returns the effective *Dialect.
func Register(r *dialect.Registry) (*dialect.Dialect, error) {
	return r.Register(Definition())
}
