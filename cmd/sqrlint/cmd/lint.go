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

package cmd

import (
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	sqrlint "github.com/dolthub/sqrlint"
	"github.com/dolthub/sqrlint/internal/diffstat"
	"github.com/dolthub/sqrlint/parser"
	"github.com/dolthub/sqrlint/rules"
)

func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Emit diagnostics only; exit code reflects whether violations were found.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runLintOrFix(args, false)
		},
	}
}

func newFixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Apply fixes and write files in place (or stdout for '-').",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runLintOrFix(args, true)
		},
	}
}

// fileOutcome is one path's lint result, computed concurrently with its
// siblings (each file is an independent unit of work) and then drained
// in argument order so output stays deterministic regardless of which
// goroutine finishes first.
type fileOutcome struct {
	path       string
	violations []rules.Violation
	fixed      string
	err        error
}

func runLintOrFix(paths []string, fix bool) error {
	settings, err := loadSettings()
	if err != nil {
		lastExitCode = exitConfigOrIOErr
		return err
	}
	linter, err := sqrlint.New(settings)
	if err != nil {
		lastExitCode = exitConfigOrIOErr
		return err
	}

	// Independent files are linted concurrently; errgroup only guards
	// goroutine lifetime here since per-file failures are carried in
	// fileOutcome.err rather than aborting the whole run.
	outcomes := make([]fileOutcome, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			outcomes[i] = lintOnePath(linter, path, fix)
			return nil
		})
	}
	_ = g.Wait()

	var merr *multierror.Error
	anyViolations := false
	for _, outcome := range outcomes {
		if outcome.err != nil {
			merr = multierror.Append(merr, outcome.err)
			continue
		}
		if len(outcome.violations) > 0 {
			anyViolations = true
		}
		if err := diffstat.Write(os.Stdout, diffstat.Format(flagFormat), outcome.path, outcome.violations); err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		if fix && outcome.fixed != "" {
			if err := writeFixed(outcome.path, outcome.fixed); err != nil {
				merr = multierror.Append(merr, err)
			}
		}
	}

	if merr.ErrorOrNil() != nil {
		lastExitCode = exitConfigOrIOErr
		return merr
	}
	if anyViolations {
		lastExitCode = exitViolations
	}
	return nil
}

func lintOnePath(linter *sqrlint.Linter, path string, fix bool) fileOutcome {
	source, err := readSource(path)
	if err != nil {
		return fileOutcome{path: path, err: err}
	}

	result, err := linter.Lint(source, sqrlint.LintOptions{Fix: fix})
	if err != nil {
		return fileOutcome{path: path, err: err}
	}

	violations := result.Violations
	if flagParsingErrors {
		violations = append(violations, parseWarningsAsViolations(result.ParseWarnings)...)
	}
	return fileOutcome{path: path, violations: violations, fixed: result.Fixed}
}

// parseWarningsAsViolations renders parser.Warning values (PRS-coded
// parse failures) in the same shape as a rule violation so they share
// one output path. FileResult doesn't thread out the line index used
// during parsing, so position here is the raw byte offset rather than a
// line:col pair — good enough for --parsing-errors' diagnostic purpose.
func parseWarningsAsViolations(warnings []parser.Warning) []rules.Violation {
	out := make([]rules.Violation, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, rules.Violation{RuleCode: w.Code, Message: w.Message, Column: w.Start})
	}
	return out
}

func readSource(path string) (string, error) {
	if path == "-" {
		b, err := os.ReadFile("/dev/stdin")
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func writeFixed(path, content string) error {
	if path == "-" {
		_, err := os.Stdout.WriteString(content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
