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
	"github.com/dolthub/sqrlint/dialects/ansi"
	"github.com/dolthub/sqrlint/dialects/tsql"
	"github.com/dolthub/sqrlint/rules"
	"github.com/dolthub/sqrlint/segment"
)

// bracketQuotePreferredRule is TQ01: T-SQL identifiers should use
// `[bracket]` quoting rather than ANSI double quotes, the dialect's
// conventional style and the form this repo requires to resolve the
// keyword/identifier ambiguity described in dialects/tsql.
type bracketQuotePreferredRule struct{}

func (r bracketQuotePreferredRule) Code() string { return "TQ01" }
func (r bracketQuotePreferredRule) Name() string  { return "tsql.bracket_quotes" }
func (r bracketQuotePreferredRule) Groups() []string {
	return []string{"tsql"}
}
func (r bracketQuotePreferredRule) Fixable() bool               { return true }
func (r bracketQuotePreferredRule) TargetTypes() []segment.Type { return []segment.Type{ansi.TagDoubleQuote} }

func (r bracketQuotePreferredRule) Eval(ctx *rules.Context) []rules.Violation {
	if ctx.Dialect != tsql.Name {
		return nil
	}
	inner := ctx.Segment.Raw()
	if len(inner) < 2 {
		return nil
	}
	inner = inner[1 : len(inner)-1]
	return []rules.Violation{{
		Message: "Use T-SQL bracket quoting instead of double quotes.", Anchor: ctx.Segment,
		Fixes: []rules.LintFix{{Anchor: ctx.Segment, Kind: rules.Replace, NewSegments: []segment.Segment{
			&segment.Raw{Type: tsql.BracketQuote, Text: "[" + inner + "]", SrcSlc: ctx.Segment.Slice()},
		}}},
	}}
}

func init() {
	rules.Register(bracketQuotePreferredRule{})
}
