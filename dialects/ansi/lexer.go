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

// LexerMatchers is the ordered list of dialect-configurable token
// matchers (spec.md §4.3 "dialect-configurable regular-expression-like
// matchers"). Order matters: earlier patterns are preferred when more
// than one would match at a position.
var LexerMatchers = []dialect.LexerMatcher{
	{Name: "newline", Pattern: `\n`, Tag: "newline"},
	{Name: "whitespace", Pattern: `[ \t\r]+`, Tag: "whitespace"},
	{Name: "block_comment", Pattern: `/\*([^*]|\*[^/])*\*/`, Tag: string(TagBlockComment)},
	{Name: "line_comment", Pattern: `--[^\n]*`, Tag: string(TagLineComment)},
	{Name: "single_quote", Pattern: `'([^'\\]|\\.|'')*'`, Tag: string(TagSingleQuote)},
	{Name: "double_quote", Pattern: `"([^"\\]|\\.|"")*"`, Tag: string(TagDoubleQuote)},
	{Name: "numeric_literal", Pattern: `\d+\.\d+|\.\d+|\d+`, Tag: string(TagNumericLit)},
	{Name: "not_equal", Pattern: `<>|!=`, Tag: string(TagCode)},
	{Name: "lte_gte", Pattern: `<=|>=`, Tag: string(TagCode)},
	{Name: "double_colon", Pattern: `::`, Tag: string(TagCode)},
	{Name: "word", Pattern: `[A-Za-z_][A-Za-z0-9_$]*`, Tag: string(TagWord)},
	{Name: "punctuation", Pattern: `[(),.;*=<>+\-/%]`, Tag: string(TagCode)},
}
