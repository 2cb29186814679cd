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

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := Default()
	require.Equal(t, "ansi", s.Dialect)
	require.Equal(t, []string{"core"}, s.Rules)
	require.Equal(t, 80, s.MaxLineLength)
	require.Equal(t, 10, s.RunawayLimit)
}

func TestParseOverridesMainSection(t *testing.T) {
	s, err := Parse(`
[sqruff]
dialect = postgres
rules = core,CP01
exclude_rules = AL01
max_line_length = 120
`)
	require.NoError(t, err)
	require.Equal(t, "postgres", s.Dialect)
	require.Equal(t, []string{"core", "CP01"}, s.Rules)
	require.Equal(t, []string{"AL01"}, s.ExcludeRules)
	require.Equal(t, 120, s.MaxLineLength)
}

func TestParseIndentationSection(t *testing.T) {
	s, err := Parse(`
[sqruff:indentation]
indent_unit = tab
tab_space_size = 2
indented_joins = true
`)
	require.NoError(t, err)
	require.Equal(t, "tab", s.Indentation.IndentUnit)
	require.Equal(t, 2, s.Indentation.TabSpaceSize)
	require.True(t, s.Indentation.IndentedJoins)
}

func TestParsePerRuleAndSharedOptions(t *testing.T) {
	s, err := Parse(`
[sqruff:rules]
allow_scalar = true

[sqruff:rules:CP01]
capitalisation_policy = upper
`)
	require.NoError(t, err)

	v, ok := s.SharedOption("allow_scalar")
	require.True(t, ok)
	require.Equal(t, "true", v)

	v, ok = s.RuleOption("CP01", "capitalisation_policy")
	require.True(t, ok)
	require.Equal(t, "upper", v)

	_, ok = s.RuleOption("CP01", "missing_key")
	require.False(t, ok)
}

func TestParseLayoutTypeSection(t *testing.T) {
	s, err := Parse(`
[sqruff:layout:type:comma]
spacing_before = touch
spacing_after = single
`)
	require.NoError(t, err)

	v, ok := s.LayoutOption("comma", "spacing_before")
	require.True(t, ok)
	require.Equal(t, "touch", v)

	v, ok = s.LayoutOption("comma", "spacing_after")
	require.True(t, ok)
	require.Equal(t, "single", v)
}

func TestParseInvalidINIReturnsConfigError(t *testing.T) {
	_, err := Parse("[unterminated section")
	require.Error(t, err)
}

func TestParseYAMLOverridesMainSection(t *testing.T) {
	s, err := ParseYAML(`
dialect: postgres
rules:
  - core
  - CP01
exclude_rules:
  - AL01
max_line_length: 120
`)
	require.NoError(t, err)
	require.Equal(t, "postgres", s.Dialect)
	require.Equal(t, []string{"core", "CP01"}, s.Rules)
	require.Equal(t, []string{"AL01"}, s.ExcludeRules)
	require.Equal(t, 120, s.MaxLineLength)
}

func TestParseYAMLIndentationAndRuleOptions(t *testing.T) {
	s, err := ParseYAML(`
indentation:
  indent_unit: tab
  tab_space_size: "2"
rule_options:
  CP01:
    capitalisation_policy: upper
`)
	require.NoError(t, err)
	require.Equal(t, "tab", s.Indentation.IndentUnit)
	require.Equal(t, 2, s.Indentation.TabSpaceSize)

	v, ok := s.RuleOption("CP01", "capitalisation_policy")
	require.True(t, ok)
	require.Equal(t, "upper", v)
}

func TestParseYAMLFallsBackToDefaultsWhenEmpty(t *testing.T) {
	s, err := ParseYAML("")
	require.NoError(t, err)
	require.Equal(t, Default().Dialect, s.Dialect)
	require.Equal(t, Default().MaxLineLength, s.MaxLineLength)
}

func TestParseYAMLInvalidContentReturnsConfigError(t *testing.T) {
	_, err := ParseYAML("dialect: [unterminated")
	require.Error(t, err)
}

func TestLoadDispatchesOnYAMLExtension(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sqrlint.yml"
	require.NoError(t, os.WriteFile(path, []byte("dialect: mysql\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "mysql", s.Dialect)
}
