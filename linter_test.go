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

package sqrlint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/sqrlint/config"
)

func newLinter(t *testing.T) *Linter {
	t.Helper()
	l, err := New(config.Default())
	require.NoError(t, err)
	return l
}

func TestLintReportsViolationsWithoutMutatingSource(t *testing.T) {
	l := newLinter(t)
	result, err := l.Lint("select a from t", LintOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, result.Violations)
	require.Empty(t, result.Fixed)
	require.Equal(t, 1, result.PassesRun)
}

func TestLintFixAppliesFixesUntilClean(t *testing.T) {
	l := newLinter(t)
	result, err := l.Lint("select a,b FROM t", LintOptions{Fix: true})
	require.NoError(t, err)
	require.NotEmpty(t, result.Fixed)
	require.False(t, result.HitPassLimit)

	// Re-linting the fixed output should not find any CP01
	// violations the first pass already resolved.
	second, err := l.Lint(result.Fixed, LintOptions{})
	require.NoError(t, err)
	for _, v := range second.Violations {
		require.NotEqual(t, "CP01", v.RuleCode)
	}
}

func TestLintUnknownDialectIsAnError(t *testing.T) {
	settings := config.Default()
	settings.Dialect = "made_up_dialect"
	l, err := New(settings)
	require.NoError(t, err)

	_, err = l.Lint("select 1", LintOptions{})
	require.Error(t, err)
}

func TestLintRespectsNoqaSuppression(t *testing.T) {
	l := newLinter(t)
	result, err := l.Lint("select a from t; -- noqa: CP01\n", LintOptions{})
	require.NoError(t, err)
	for _, v := range result.Violations {
		require.NotEqual(t, "CP01", v.RuleCode)
	}
}

func TestLintRespectsRuleSelection(t *testing.T) {
	settings := config.Default()
	settings.Rules = []string{"CV04"}
	l, err := New(settings)
	require.NoError(t, err)

	result, err := l.Lint("select a,b from t", LintOptions{})
	require.NoError(t, err)
	for _, v := range result.Violations {
		require.Equal(t, "CV04", v.RuleCode)
	}
}
