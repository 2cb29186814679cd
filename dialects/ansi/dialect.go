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

package ansi

import "github.com/dolthub/sqrlint/dialect"

// Name is the dialect name used in config (`dialect = ansi`) and on the
// CLI.
const Name = "ansi"

// Definition returns the ANSI root dialect's registration Definition.
func Definition() dialect.Definition {
	return dialect.Definition{
		Name: Name,
		KeywordSets: map[dialect.KeywordSetName][]string{
			dialect.Reserved:      ReservedKeywords,
			dialect.Unreserved:    UnreservedKeywords,
			dialect.BareFunctions: BareFunctions,
			dialect.DatetimeUnits: DatetimeUnits,
		},
		GrammarRules:  GrammarRules(),
		LexerMatchers: LexerMatchers,
	}
}

// Register registers ansi with r and returns the effective *Dialect.
func Register(r *dialect.Registry) (*dialect.Dialect, error) {
	return r.Register(Definition())
}
