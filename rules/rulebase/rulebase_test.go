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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/sqrlint/config"
	"github.com/dolthub/sqrlint/dialect"
	"github.com/dolthub/sqrlint/dialects/ansi"
	"github.com/dolthub/sqrlint/internal/linecount"
	"github.com/dolthub/sqrlint/lexer"
	"github.com/dolthub/sqrlint/parser"
	"github.com/dolthub/sqrlint/rules"
	"github.com/dolthub/sqrlint/slice"
)

func lintANSI(t *testing.T, source string, include []string) []rules.Violation {
	t.Helper()
	return lintANSIConfig(t, source, include, nil)
}

func lintANSIConfig(t *testing.T, source string, include []string, cfg rules.ConfigView) []rules.Violation {
	t.Helper()
	r := dialect.NewRegistry()
	d, err := ansi.Register(r)
	require.NoError(t, err)
	l, err := lexer.New(d)
	require.NoError(t, err)
	toks, err := l.Lex(source, slice.NewRaw(source))
	require.NoError(t, err)
	result, err := parser.Parse(d, toks)
	require.NoError(t, err)

	c := &rules.Crawler{
		Selection: rules.Select(include, nil),
		Config:    cfg,
		Dialect:   ansi.Name,
		Index:     linecount.New(source),
	}
	return c.Run(result.Tree).Violations
}

func hasCode(violations []rules.Violation, code string) bool {
	for _, v := range violations {
		if v.RuleCode == code {
			return true
		}
	}
	return false
}

func TestKeywordCaseRuleFlagsInconsistentCapitalisation(t *testing.T) {
	violations := lintANSI(t, "select a from t where b = 1 AND c = 2", []string{"CP01"})
	require.True(t, hasCode(violations, "CP01"))
}

func TestKeywordCaseRuleAllowsConsistentCapitalisation(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t WHERE b = 1 AND c = 2", []string{"CP01"})
	require.False(t, hasCode(violations, "CP01"))
}

func TestSelectStarRuleFlagsBareStar(t *testing.T) {
	violations := lintANSI(t, "SELECT * FROM t", []string{"CV04"})
	require.True(t, hasCode(violations, "CV04"))
}

func TestSelectStarRuleAllowsExplicitColumns(t *testing.T) {
	violations := lintANSI(t, "SELECT a, b FROM t", []string{"CV04"})
	require.False(t, hasCode(violations, "CV04"))
}

func TestSetOperatorAllRuleFlagsBareUnion(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t UNION SELECT a FROM u", []string{"AM06"})
	require.True(t, hasCode(violations, "AM06"))
}

func TestSetOperatorAllRuleAllowsExplicitUnionAll(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t UNION ALL SELECT a FROM u", []string{"AM06"})
	require.False(t, hasCode(violations, "AM06"))
}

func TestUniqueTableAliasRuleFlagsDuplicateAlias(t *testing.T) {
	violations := lintANSI(t, "SELECT * FROM t AS x, u AS x", []string{"AL04"})
	require.True(t, hasCode(violations, "AL04"))
}

func TestRegisteredRuleCodesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range rules.All() {
		require.False(t, seen[r.Code()], "duplicate rule code %s", r.Code())
		seen[r.Code()] = true
	}
	require.NotEmpty(t, seen)
}

func TestSubqueryNestingRuleFlagsSubqueryInWhere(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t WHERE b IN (SELECT c FROM u)", []string{"ST05"})
	require.True(t, hasCode(violations, "ST05"))
}

func TestSubqueryNestingRuleAllowsPlainWhere(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t WHERE b = 1", []string{"ST05"})
	require.False(t, hasCode(violations, "ST05"))
}

func TestColumnOrderRuleFlagsReorderedSelect(t *testing.T) {
	violations := lintANSI(t, "CREATE TABLE t (a INT, b INT); SELECT b, a FROM t;", []string{"ST06"})
	require.True(t, hasCode(violations, "ST06"))
}

func TestColumnOrderRuleAllowsDeclaredOrder(t *testing.T) {
	violations := lintANSI(t, "CREATE TABLE t (a INT, b INT); SELECT a, b FROM t;", []string{"ST06"})
	require.False(t, hasCode(violations, "ST06"))
}

func TestPreferUsingRuleFlagsMatchingEquiJoin(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t JOIN u ON t.id = u.id", []string{"ST07"})
	require.True(t, hasCode(violations, "ST07"))
}

func TestPreferUsingRuleAllowsDifferingColumnNames(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t JOIN u ON t.id = u.other_id", []string{"ST07"})
	require.False(t, hasCode(violations, "ST07"))
}

func TestRedundantDistinctParensRuleFlagsTouchingParen(t *testing.T) {
	violations := lintANSI(t, "SELECT DISTINCT(a) FROM t", []string{"ST08"})
	require.True(t, hasCode(violations, "ST08"))
}

func TestRedundantDistinctParensRuleAllowsSpacedDistinct(t *testing.T) {
	violations := lintANSI(t, "SELECT DISTINCT a FROM t", []string{"ST08"})
	require.False(t, hasCode(violations, "ST08"))
}

func TestCoalesceStyleRuleFlagsIfnull(t *testing.T) {
	violations := lintANSI(t, "SELECT IFNULL(a, b) FROM t", []string{"CV02"})
	require.True(t, hasCode(violations, "CV02"))
}

func TestCoalesceStyleRuleAllowsCoalesce(t *testing.T) {
	violations := lintANSI(t, "SELECT COALESCE(a, b) FROM t", []string{"CV02"})
	require.False(t, hasCode(violations, "CV02"))
}

func TestTerminatorConsistencyRuleFlagsMissingSemicolon(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t", []string{"CV03"})
	require.True(t, hasCode(violations, "CV03"))
}

func TestTerminatorConsistencyRuleAllowsTrailingSemicolon(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t;", []string{"CV03"})
	require.False(t, hasCode(violations, "CV03"))
}

func TestIsNullStyleRuleFlagsEqualsNull(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t WHERE b = NULL", []string{"CV05"})
	require.True(t, hasCode(violations, "CV05"))
}

func TestIsNullStyleRuleAllowsIsNull(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t WHERE b IS NULL", []string{"CV05"})
	require.False(t, hasCode(violations, "CV05"))
}

func TestTerminatorWhitespaceRuleFlagsSpaceBeforeSemicolon(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t ;", []string{"CV06"})
	require.True(t, hasCode(violations, "CV06"))
}

func TestTerminatorWhitespaceRuleAllowsTouchingSemicolon(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t;", []string{"CV06"})
	require.False(t, hasCode(violations, "CV06"))
}

func TestBlockedWordsRuleFlagsConfiguredWord(t *testing.T) {
	cfg, err := config.Parse("[sqruff:rules:CV07]\nblocked_words = foo\n")
	require.NoError(t, err)
	violations := lintANSIConfig(t, "SELECT foo FROM t", []string{"CV07"}, cfg)
	require.True(t, hasCode(violations, "CV07"))
}

func TestBlockedWordsRuleAllowsUnlistedWord(t *testing.T) {
	cfg, err := config.Parse("[sqruff:rules:CV07]\nblocked_words = foo\n")
	require.NoError(t, err)
	violations := lintANSIConfig(t, "SELECT bar FROM t", []string{"CV07"}, cfg)
	require.False(t, hasCode(violations, "CV07"))
}

func TestExpressionAliasRuleFlagsUnaliasedComputation(t *testing.T) {
	violations := lintANSI(t, "SELECT a + b FROM t", []string{"AL03"})
	require.True(t, hasCode(violations, "AL03"))
}

func TestExpressionAliasRuleAllowsAliasedComputation(t *testing.T) {
	violations := lintANSI(t, "SELECT a + b AS c FROM t", []string{"AL03"})
	require.False(t, hasCode(violations, "AL03"))
}

func TestAliasLengthRuleFlagsShortAlias(t *testing.T) {
	cfg, err := config.Parse("[sqruff:rules:AL06]\nmin_length = 3\n")
	require.NoError(t, err)
	violations := lintANSIConfig(t, "SELECT a AS x FROM t", []string{"AL06"}, cfg)
	require.True(t, hasCode(violations, "AL06"))
}

func TestAliasLengthRuleAllowsLongEnoughAlias(t *testing.T) {
	cfg, err := config.Parse("[sqruff:rules:AL06]\nmin_length = 3\n")
	require.NoError(t, err)
	violations := lintANSIConfig(t, "SELECT a AS xyz FROM t", []string{"AL06"}, cfg)
	require.False(t, hasCode(violations, "AL06"))
}

func TestForbidAliasRuleFlagsWhenConfigured(t *testing.T) {
	cfg, err := config.Parse("[sqruff:rules:AL07]\nforbid = true\n")
	require.NoError(t, err)
	violations := lintANSIConfig(t, "SELECT a AS x FROM t", []string{"AL07"}, cfg)
	require.True(t, hasCode(violations, "AL07"))
}

func TestForbidAliasRuleAllowsWhenNotConfigured(t *testing.T) {
	violations := lintANSI(t, "SELECT a AS x FROM t", []string{"AL07"})
	require.False(t, hasCode(violations, "AL07"))
}

func TestOrderByDirectionAmbiguousRuleFlagsMixedDirections(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t ORDER BY a ASC, b", []string{"AM03"})
	require.True(t, hasCode(violations, "AM03"))
}

func TestOrderByDirectionAmbiguousRuleAllowsUniformDirections(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t ORDER BY a ASC, b ASC", []string{"AM03"})
	require.False(t, hasCode(violations, "AM03"))
}

func TestGroupByReferenceRuleFlagsMixedReferences(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t GROUP BY 1, b", []string{"AM04"})
	require.True(t, hasCode(violations, "AM04"))
}

func TestGroupByReferenceRuleAllowsAllNamed(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t GROUP BY a, b", []string{"AM04"})
	require.False(t, hasCode(violations, "AM04"))
}

func TestSetColumnCountRuleFlagsMismatchedBranches(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t UNION SELECT a, b FROM u", []string{"AM07"})
	require.True(t, hasCode(violations, "AM07"))
}

func TestSetColumnCountRuleAllowsMatchedBranches(t *testing.T) {
	violations := lintANSI(t, "SELECT a FROM t UNION SELECT a FROM u", []string{"AM07"})
	require.False(t, hasCode(violations, "AM07"))
}

func TestReferenceFromRuleFlagsUnknownQualifier(t *testing.T) {
	violations := lintANSI(t, "SELECT x.a FROM t", []string{"RF01"})
	require.True(t, hasCode(violations, "RF01"))
}

func TestReferenceFromRuleAllowsKnownQualifier(t *testing.T) {
	violations := lintANSI(t, "SELECT t.a FROM t", []string{"RF01"})
	require.False(t, hasCode(violations, "RF01"))
}

func TestReservedKeywordIdentifierRuleFlagsQuotedKeyword(t *testing.T) {
	violations := lintANSI(t, `SELECT "order" FROM t`, []string{"RF04"})
	require.True(t, hasCode(violations, "RF04"))
}

func TestReservedKeywordIdentifierRuleAllowsOrdinaryIdentifier(t *testing.T) {
	violations := lintANSI(t, `SELECT "amount" FROM t`, []string{"RF04"})
	require.False(t, hasCode(violations, "RF04"))
}

func TestSpecialCharIdentifierRuleFlagsNonPortableChars(t *testing.T) {
	violations := lintANSI(t, `SELECT "a-b" FROM t`, []string{"RF05"})
	require.True(t, hasCode(violations, "RF05"))
}

func TestSpecialCharIdentifierRuleAllowsPlainIdentifier(t *testing.T) {
	violations := lintANSI(t, `SELECT "amount" FROM t`, []string{"RF05"})
	require.False(t, hasCode(violations, "RF05"))
}
