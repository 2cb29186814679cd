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

// Package rulebase holds the built-in rule implementations, one file per
// rule group, each registering itself with package rules from init().
// Grounded on the one-rule-per-file layout of
// other_examples/5a1a9e4e_leapstack-labs-leapsql__pkg-lint-lint.go.go and
// on spec.md §4.5's consistency-check shape (compare observed case
// against the dominant or configured case, propose a re-cased fix).
package rulebase

import (
	"strings"

	"github.com/dolthub/sqrlint/dialects/ansi"
	"github.com/dolthub/sqrlint/rules"
	"github.com/dolthub/sqrlint/segment"
)

// capsPolicy is the shared "consistent/upper/lower/pascal" policy every
// CPxx rule resolves from config, defaulting to "consistent" (infer the
// dominant case from the first occurrence in the file) per spec.md's
// `sqruff:rules:capitalisation.*` keys.
type capsPolicy struct {
	code, key string
}

func (p capsPolicy) resolve(cfg rules.ConfigView) string {
	if cfg != nil {
		if v, ok := cfg.RuleOption(p.code, p.key); ok {
			return v
		}
	}
	return "consistent"
}

func desiredCase(policy, word string) string {
	switch policy {
	case "upper":
		return strings.ToUpper(word)
	case "lower":
		return strings.ToLower(word)
	case "pascal":
		if word == "" {
			return word
		}
		return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	default:
		return word
	}
}

// consistencyState is shared by every consistency-style capitalisation
// rule: the first occurrence in a file fixes the "consistent" baseline
// for the remainder of the crawl, mirroring
// spec.md's "dominant case inferred from the file's first occurrence"
// behavior.
type consistencyState struct {
	seen map[string]string // lowercased word -> observed canonical casing
}

func newConsistencyState() *consistencyState {
	return &consistencyState{seen: map[string]string{}}
}

func (s *consistencyState) apply(policy, word string) (want string, ok bool) {
	if policy != "consistent" {
		return desiredCase(policy, word), true
	}
	key := strings.ToLower(word)
	if canon, seen := s.seen[key]; seen {
		return canon, true
	}
	s.seen[key] = word
	return word, false
}

// keywordCaseRule is CP01: keyword capitalisation consistency.
type keywordCaseRule struct {
	state *consistencyState
}

func (r *keywordCaseRule) Code() string             { return "CP01" }
func (r *keywordCaseRule) Name() string              { return "capitalisation.keywords" }
func (r *keywordCaseRule) Groups() []string           { return []string{"core", "capitalisation"} }
func (r *keywordCaseRule) Fixable() bool              { return true }
func (r *keywordCaseRule) TargetTypes() []segment.Type { return []segment.Type{segment.TypeKeyword} }

func (r *keywordCaseRule) Eval(ctx *rules.Context) []rules.Violation {
	policy := capsPolicy{"CP01", "capitalisation_policy"}.resolve(ctx.Config)
	word := ctx.Segment.Raw()
	want, known := r.state.apply(policy, word)
	if known && want != word {
		return []rules.Violation{{
			Message: "Inconsistent capitalisation of keyword '" + word + "'.",
			Anchor:  ctx.Segment,
			Fixes:   []rules.LintFix{rawFix(ctx.Segment, want)},
		}}
	}
	return nil
}

func rawFix(seg segment.Segment, want string) rules.LintFix {
	return rules.LintFix{
		Anchor: seg,
		Kind:   rules.Replace,
		NewSegments: []segment.Segment{&segment.Raw{
			Type:   seg.Tag(),
			Text:   want,
			SrcSlc: seg.Slice(),
		}},
	}
}

// identifierCaseRule is CP02: unquoted identifier capitalisation
// consistency.
type identifierCaseRule struct {
	state *consistencyState
}

func (r *identifierCaseRule) Code() string              { return "CP02" }
func (r *identifierCaseRule) Name() string               { return "capitalisation.identifiers" }
func (r *identifierCaseRule) Groups() []string            { return []string{"core", "capitalisation"} }
func (r *identifierCaseRule) Fixable() bool               { return true }
func (r *identifierCaseRule) TargetTypes() []segment.Type { return []segment.Type{ansi.TagWord} }

func (r *identifierCaseRule) Eval(ctx *rules.Context) []rules.Violation {
	parent := ctx.Path.Parent()
	if parent == nil || parent.Tag() != ansi.NodeColumnReference && parent.Tag() != ansi.NodeTableReference {
		return nil
	}
	policy := capsPolicy{"CP02", "extended_capitalisation_policy"}.resolve(ctx.Config)
	word := ctx.Segment.Raw()
	want, known := r.state.apply(policy, word)
	if known && want != word {
		return []rules.Violation{{
			Message: "Inconsistent capitalisation of identifier '" + word + "'.",
			Anchor:  ctx.Segment,
			Fixes:   []rules.LintFix{rawFix(ctx.Segment, want)},
		}}
	}
	return nil
}

// functionNameCaseRule is CP03: function name capitalisation consistency.
type functionNameCaseRule struct {
	state *consistencyState
}

func (r *functionNameCaseRule) Code() string              { return "CP03" }
func (r *functionNameCaseRule) Name() string               { return "capitalisation.functions" }
func (r *functionNameCaseRule) Groups() []string            { return []string{"core", "capitalisation"} }
func (r *functionNameCaseRule) Fixable() bool               { return true }
func (r *functionNameCaseRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeFunctionName} }

func (r *functionNameCaseRule) Eval(ctx *rules.Context) []rules.Violation {
	leaves := segment.Leaves(ctx.Segment)
	if len(leaves) != 1 {
		return nil
	}
	policy := capsPolicy{"CP03", "extended_capitalisation_policy"}.resolve(ctx.Config)
	word := leaves[0].Raw()
	want, known := r.state.apply(policy, word)
	if known && want != word {
		return []rules.Violation{{
			Message: "Inconsistent capitalisation of function name '" + word + "'.",
			Anchor:  leaves[0],
			Fixes:   []rules.LintFix{rawFix(leaves[0], want)},
		}}
	}
	return nil
}

// literalCaseRule is CP04: NULL/TRUE/FALSE keyword-literal capitalisation.
type literalCaseRule struct {
	state *consistencyState
}

func (r *literalCaseRule) Code() string              { return "CP04" }
func (r *literalCaseRule) Name() string               { return "capitalisation.literals" }
func (r *literalCaseRule) Groups() []string            { return []string{"core", "capitalisation"} }
func (r *literalCaseRule) Fixable() bool               { return true }
func (r *literalCaseRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeLiteral} }

func (r *literalCaseRule) Eval(ctx *rules.Context) []rules.Violation {
	leaves := segment.Leaves(ctx.Segment)
	if len(leaves) != 1 || leaves[0].Tag() != segment.TypeKeyword {
		return nil
	}
	policy := capsPolicy{"CP04", "capitalisation_policy"}.resolve(ctx.Config)
	word := leaves[0].Raw()
	want, known := r.state.apply(policy, word)
	if known && want != word {
		return []rules.Violation{{
			Message: "Inconsistent capitalisation of keyword literal '" + word + "'.",
			Anchor:  leaves[0],
			Fixes:   []rules.LintFix{rawFix(leaves[0], want)},
		}}
	}
	return nil
}

// dataTypeCaseRule is CP05: data type keyword capitalisation.
type dataTypeCaseRule struct {
	state *consistencyState
}

func (r *dataTypeCaseRule) Code() string              { return "CP05" }
func (r *dataTypeCaseRule) Name() string               { return "capitalisation.types" }
func (r *dataTypeCaseRule) Groups() []string            { return []string{"capitalisation"} }
func (r *dataTypeCaseRule) Fixable() bool               { return true }
func (r *dataTypeCaseRule) TargetTypes() []segment.Type { return []segment.Type{ansi.NodeDataType} }

func (r *dataTypeCaseRule) Eval(ctx *rules.Context) []rules.Violation {
	var out []rules.Violation
	policy := capsPolicy{"CP05", "extended_capitalisation_policy"}.resolve(ctx.Config)
	for _, leaf := range segment.Leaves(ctx.Segment) {
		if leaf.Tag() != ansi.TagWord {
			continue
		}
		want, known := r.state.apply(policy, leaf.Raw())
		if known && want != leaf.Raw() {
			out = append(out, rules.Violation{
				Message: "Inconsistent capitalisation of data type '" + leaf.Raw() + "'.",
				Anchor:  leaf,
				Fixes:   []rules.LintFix{rawFix(leaf, want)},
			})
		}
	}
	return out
}

func init() {
	rules.Register(&keywordCaseRule{state: newConsistencyState()})
	rules.Register(&identifierCaseRule{state: newConsistencyState()})
	rules.Register(&functionNameCaseRule{state: newConsistencyState()})
	rules.Register(&literalCaseRule{state: newConsistencyState()})
	rules.Register(&dataTypeCaseRule{state: newConsistencyState()})
}
