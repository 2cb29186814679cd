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

// Package rules implements the rule engine: crawling the parse tree,
// dispatching matched nodes to rule logic, and collecting violations and
// fix proposals. Rules are pure functions of a read-only Context; all
// observable output is the returned []Violation. Grounded on the
// data-driven RuleDef/CheckFunc shape in
// other_examples/5a1a9e4e_leapstack-labs-leapsql__pkg-lint-lint.go.go,
// adapted to this repo's generic segment-tree Eval signature.
package rules

import (
	"fmt"

	"github.com/dolthub/sqrlint/internal/linecount"
	"github.com/dolthub/sqrlint/segment"
	"github.com/sirupsen/logrus"
)

// FixKind is the shape of an edit a rule proposes.
type FixKind int

const (
	// Replace swaps the anchor segment for NewSegments.
	Replace FixKind = iota
	// CreateBefore inserts NewSegments immediately before the anchor.
	CreateBefore
	// CreateAfter inserts NewSegments immediately after the anchor.
	CreateAfter
	// Delete removes the anchor segment entirely.
	Delete
)

// LintFix is an immutable proposed edit. Fixes are pure values; neither
// the rule engine nor any rule mutates the parse tree in place — see
// spec.md DESIGN NOTES §9, "Fixes as values".
type LintFix struct {
	Anchor      segment.Segment
	Kind        FixKind
	NewSegments []segment.Segment
}

// Violation is one rule finding, plus its derived position.
type Violation struct {
	RuleCode string
	RuleName string
	Message  string
	Anchor   segment.Segment
	Fixes    []LintFix
	Line     int
	Column   int
}

// Path is the explicit stack of ancestors from the root down to (but
// excluding) the current segment — the parent-back-reference substitute
// from spec.md DESIGN NOTES §9: "thread an explicit path... through the
// traversal" rather than storing parent pointers on segments.
type Path []segment.Segment

// Parent returns the immediate parent, or nil if path is empty (the
// current segment is the root).
func (p Path) Parent() segment.Segment {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// Context is the read-only view a rule's Eval receives.
type Context struct {
	Segment segment.Segment
	Path    Path
	Config  ConfigView
	Dialect string
	Index   *linecount.Index
}

// ConfigView is the minimal read-only slice of configuration a rule
// consults: its own per-rule options plus the handful of shared keys rule
// authors reuse across rules (spec.md §6 "[sqruff:rules]" shared keys).
type ConfigView interface {
	RuleOption(ruleCode, key string) (string, bool)
	SharedOption(key string) (string, bool)
}

// Rule is the interface every rulebase entry implements.
type Rule interface {
	Code() string
	Name() string
	Groups() []string
	TargetTypes() []segment.Type
	Fixable() bool
	Eval(ctx *Context) []Violation
}

// Registry is the init-once catalog of registered rules, populated by
// each rulebase file's init() — the same "catalog populated at program
// start, read-only thereafter" pattern as the dialect registry.
type Registry struct {
	byCode map[string]Rule
	order  []string
}

var defaultRegistry = &Registry{byCode: make(map[string]Rule)}

// Register adds r to the default registry. Rulebase files call this from
// init().
func Register(r Rule) {
	if _, exists := defaultRegistry.byCode[r.Code()]; exists {
		panic(fmt.Sprintf("rule %s registered twice", r.Code()))
	}
	defaultRegistry.byCode[r.Code()] = r
	defaultRegistry.order = append(defaultRegistry.order, r.Code())
}

// All returns every registered rule, in registration order.
func All() []Rule {
	out := make([]Rule, 0, len(defaultRegistry.order))
	for _, code := range defaultRegistry.order {
		out = append(out, defaultRegistry.byCode[code])
	}
	return out
}

// ByCode looks up a single registered rule.
func ByCode(code string) (Rule, bool) {
	r, ok := defaultRegistry.byCode[code]
	return r, ok
}

// Selection is the resolved set of active rules for one run (after
// applying the config's `rules`/`exclude_rules` keys).
type Selection struct {
	rules []Rule
}

// Select resolves the active rule set: include is a list of rule codes,
// group names (such as "core"), or "all"; exclude removes by code or group
// after inclusion.
func Select(include, exclude []string) Selection {
	included := map[string]bool{}
	wantAll := false
	for _, tok := range include {
		switch tok {
		case "all":
			wantAll = true
		default:
			included[tok] = true
		}
	}
	excluded := map[string]bool{}
	for _, tok := range exclude {
		excluded[tok] = true
	}

	var out []Rule
	for _, r := range All() {
		match := wantAll || included[r.Code()]
		if !match {
			for _, g := range r.Groups() {
				if included[g] {
					match = true
					break
				}
			}
		}
		if !match {
			continue
		}
		if excluded[r.Code()] {
			continue
		}
		skip := false
		for _, g := range r.Groups() {
			if excluded[g] {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		out = append(out, r)
	}
	return Selection{rules: out}
}

// Crawler walks a tree once, dispatching each node to the rules whose
// TargetTypes include its tag, and aggregates violations.
type Crawler struct {
	Selection Selection
	Config    ConfigView
	Dialect   string
	Index     *linecount.Index
	Log       logrus.FieldLogger
}

// Result is the outcome of one crawl pass.
type Result struct {
	Violations []Violation
	// Disabled lists rule codes disabled for this file after a recovered
	// panic (spec.md §7 RuleError: "recovered (rule disabled for file)").
	Disabled []string
}

// targetIndex groups selected rules by the node tags they want to see, so
// the single tree walk dispatches in O(1) per node rather than scanning
// every rule at every node.
func (c Crawler) targetIndex() map[segment.Type][]Rule {
	idx := make(map[segment.Type][]Rule)
	for _, r := range c.Selection.rules {
		for _, t := range r.TargetTypes() {
			idx[t] = append(idx[t], r)
		}
	}
	return idx
}

// Run performs one full crawl of tree, invoking every selected rule whose
// TargetTypes match a visited node's tag. A rule whose Eval panics is
// recovered and disabled for the remainder of this file's crawl, logged
// as a warning, per spec.md §7.
func (c *Crawler) Run(tree *segment.Node) Result {
	idx := c.targetIndex()
	disabledSet := map[string]bool{}
	var result Result

	segment.Walk(tree, func(seg segment.Segment, path []segment.Segment) bool {
		for _, r := range idx[seg.Tag()] {
			if disabledSet[r.Code()] {
				continue
			}
			result.Violations = append(result.Violations, c.evalSafely(r, seg, path, &disabledSet)...)
		}
		return true
	})

	for code := range disabledSet {
		result.Disabled = append(result.Disabled, code)
	}
	return result
}

func (c *Crawler) evalSafely(r Rule, seg segment.Segment, path []segment.Segment, disabled *map[string]bool) (out []Violation) {
	defer func() {
		if rec := recover(); rec != nil {
			(*disabled)[r.Code()] = true
			if c.Log != nil {
				c.Log.WithFields(logrus.Fields{"rule": r.Code(), "panic": rec}).Warn("rule panicked; disabled for this file")
			}
			out = nil
		}
	}()

	ctx := &Context{Segment: seg, Path: Path(path), Config: c.Config, Dialect: c.Dialect, Index: c.Index}
	vs := r.Eval(ctx)
	for i := range vs {
		if vs[i].RuleCode == "" {
			vs[i].RuleCode = r.Code()
		}
		if vs[i].RuleName == "" {
			vs[i].RuleName = r.Name()
		}
		if c.Index != nil && vs[i].Anchor != nil {
			vs[i].Line, vs[i].Column = segment.Position(vs[i].Anchor, c.Index)
		}
	}
	return vs
}
