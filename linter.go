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

// Package sqrlint ties the lexer, parser, rule engine, reflow engine and
// fix applier into the single per-file entry point the CLI and LSP
// server both call through. Grounded on the teacher's root-level
// Engine/Config orchestrator shape (engine.go's Engine.Query tying
// parser, analyzer, and execution together behind one call) —
// generalized from "plan and run a query" to "lint, and optionally fix,
// one file".
package sqrlint

import (
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/sqrlint/config"
	"github.com/dolthub/sqrlint/dialect"
	"github.com/dolthub/sqrlint/dialects"
	"github.com/dolthub/sqrlint/fixapplier"
	"github.com/dolthub/sqrlint/internal/linecount"
	"github.com/dolthub/sqrlint/lexer"
	"github.com/dolthub/sqrlint/noqa"
	"github.com/dolthub/sqrlint/parser"
	"github.com/dolthub/sqrlint/reflow"
	"github.com/dolthub/sqrlint/rules"
	_ "github.com/dolthub/sqrlint/rules/rulebase" // registers the built-in rule catalog
	"github.com/dolthub/sqrlint/slice"
)

// Linter is the immutable, concurrency-safe entry point: one Linter can
// be shared across goroutines processing different files, per spec.md
// §5 ("the compiled dialect registry and the resolved configuration —
// both immutable after construction and safely shared").
type Linter struct {
	Settings *config.Settings
	Registry *dialect.Registry
	Log      logrus.FieldLogger
}

// New builds a Linter from resolved Settings, registering the built-in
// dialect set.
func New(settings *config.Settings) (*Linter, error) {
	reg, err := dialects.RegisterAll()
	if err != nil {
		return nil, err
	}
	return &Linter{Settings: settings, Registry: reg, Log: logrus.StandardLogger()}, nil
}

// FileResult is the outcome of linting (and optionally fixing) one file.
type FileResult struct {
	Violations    []rules.Violation
	ParseWarnings []parser.Warning
	Fixed         string // non-empty (and != input) only when Fix was requested and a fix applied
	PassesRun     int
	HitPassLimit  bool
}

// LintOptions controls one Lint call.
type LintOptions struct {
	Fix bool
}

// Lint runs the full pipeline once (or, with Fix set, repeatedly up to
// Settings.RunawayLimit) over source, per spec.md §4.5's fix composition
// loop: collect, group by anchor, resolve conflicts, apply, re-parse,
// repeat.
func (l *Linter) Lint(source string, opts LintOptions) (*FileResult, error) {
	span := opentracing.GlobalTracer().StartSpan("sqrlint.Lint")
	span.SetTag("dialect", l.Settings.Dialect)
	span.SetTag("fix", opts.Fix)
	defer span.Finish()

	d, ok := l.Registry.Get(l.Settings.Dialect)
	if !ok {
		return nil, parser.ErrConfig.New(l.Settings.Dialect)
	}

	selection := rules.Select(l.Settings.Rules, l.Settings.ExcludeRules)
	reflowCfg := l.reflowConfig()

	current := source
	result := &FileResult{}
	limit := l.Settings.RunawayLimit
	if limit <= 0 {
		limit = 10
	}

	for pass := 0; pass < limit; pass++ {
		result.PassesRun = pass + 1

		sliceMap := slice.NewRaw(current)
		toks, err := lexer.New(d)
		if err != nil {
			return nil, err
		}
		leaves, err := toks.Lex(current, sliceMap)
		if err != nil {
			return nil, err
		}
		pr, err := parser.Parse(d, leaves)
		if err != nil {
			return nil, err
		}
		result.ParseWarnings = pr.Warnings

		idx := linecount.New(current)
		crawler := &rules.Crawler{Selection: selection, Config: l.Settings, Dialect: d.Name, Index: idx, Log: l.Log}
		crawlResult := crawler.Run(pr.Tree)
		nq := noqa.Build(pr.Tree, idx)
		ruleViolations := filterSuppressed(crawlResult.Violations, nq)
		layoutViolations := filterSuppressed((reflow.Engine{Config: reflowCfg, Index: idx}).Run(pr.Tree), nq)
		violations := append(append([]rules.Violation{}, ruleViolations...), layoutViolations...)

		if !opts.Fix {
			result.Violations = violations
			return result, nil
		}

		fixes := collectFixes(violations)
		if len(fixes) == 0 {
			result.Violations = violations
			if current != source {
				result.Fixed = current
			}
			return result, nil
		}

		groups := fixapplier.GroupByAnchor(fixes)
		applied, _ := fixapplier.ResolveConflicts(groups)
		next, _, err := fixapplier.Apply(current, applied, sliceMap)
		if err != nil {
			return nil, err
		}
		if next == current {
			result.Violations = violations
			if current != source {
				result.Fixed = current
			}
			return result, nil
		}

		regressed, err := fixapplier.IntegrityCheck(len(ruleViolations), func() (int, error) {
			return l.countNonLayoutViolations(d, next, selection)
		})
		if err != nil {
			return nil, err
		}
		if regressed {
			result.Violations = violations
			if current != source {
				result.Fixed = current
			}
			return result, nil
		}
		current = next
	}

	result.HitPassLimit = true
	if current != source {
		result.Fixed = current
	}
	return result, nil
}

// countNonLayoutViolations re-lexes, re-parses, and re-crawls fixed
// against the rule engine only (not the reflow engine) so Lint's fix
// loop can tell whether a round of fixes regressed correctness rather
// than just shuffling layout, per spec.md §4.7's integrity check.
func (l *Linter) countNonLayoutViolations(d *dialect.Dialect, fixed string, selection rules.Selection) (int, error) {
	sliceMap := slice.NewRaw(fixed)
	toks, err := lexer.New(d)
	if err != nil {
		return 0, err
	}
	leaves, err := toks.Lex(fixed, sliceMap)
	if err != nil {
		return 0, err
	}
	pr, err := parser.Parse(d, leaves)
	if err != nil {
		return 0, err
	}
	idx := linecount.New(fixed)
	crawler := &rules.Crawler{Selection: selection, Config: l.Settings, Dialect: d.Name, Index: idx, Log: l.Log}
	crawlResult := crawler.Run(pr.Tree)
	nq := noqa.Build(pr.Tree, idx)
	return len(filterSuppressed(crawlResult.Violations, nq)), nil
}

func collectFixes(violations []rules.Violation) []rules.LintFix {
	var out []rules.LintFix
	for _, v := range violations {
		out = append(out, v.Fixes...)
	}
	return out
}

func filterSuppressed(violations []rules.Violation, nq *noqa.Index) []rules.Violation {
	out := violations[:0:0]
	for _, v := range violations {
		if nq.Suppressed(v.Line, v.RuleCode) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func (l *Linter) reflowConfig() reflow.Config {
	cfg := reflow.DefaultConfig()
	cfg.MaxLineLength = l.Settings.MaxLineLength
	if l.Settings.Indentation.TabSpaceSize > 0 {
		cfg.IndentUnit = l.Settings.Indentation.TabSpaceSize
	}
	for tag, layout := range cfg.Types {
		if v, ok := l.Settings.LayoutOption(string(tag), "spacing_before"); ok {
			layout.SpacingBefore = parseSpacingMode(v)
		}
		if v, ok := l.Settings.LayoutOption(string(tag), "spacing_after"); ok {
			layout.SpacingAfter = parseSpacingMode(v)
		}
		cfg.Types[tag] = layout
	}
	return cfg
}

func parseSpacingMode(v string) reflow.SpacingMode {
	switch v {
	case "touch", "touch:inline":
		return reflow.Touch
	case "single", "single:inline":
		return reflow.Single
	default:
		return reflow.Any
	}
}
