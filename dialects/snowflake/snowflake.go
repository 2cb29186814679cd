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

// Package snowflake overrides ANSI with Snowflake's `$$...$$` dollar-
// quoted string literals and a few reserved words.
package snowflake

import (
	"github.com/dolthub/sqrlint/dialect"
	"github.com/dolthub/sqrlint/dialects/ansi"
)

// Name is the dialect name used in config and on the CLI.
const Name = "snowflake"

// ReservedKeywords are Snowflake-only additions.
var ReservedKeywords = []string{"QUALIFY", "SAMPLE", "MINUS"}

// LexerMatchers layers a dollar-quoted string matcher after the
// inherited ANSI matchers.
var LexerMatchers = []dialect.LexerMatcher{
	{Name: "dollar_quote", Pattern: `\$\$([^$]|\$[^$])*\$\$`, Tag: string(ansi.TagSingleQuote)},
}

// Definition returns the Snowflake dialect's registration Definition,
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

// Register registers snowflake (parented on an already-registered ansi)
// with r and returns the effective *Dialect.
func Register(r *dialect.Registry) (*dialect.Dialect, error) {
	return r.Register(Definition())
}
