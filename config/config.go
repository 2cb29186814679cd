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

// Package config resolves the INI-style configuration file described in
// spec.md §6 into a typed Settings struct, using gopkg.in/ini.v1 to parse
// and github.com/spf13/cast to coerce string values into the ints/bools
// the rest of the program wants. Grounded on the teacher's sql/analyzer
// config-surface pattern (typed config struct, not a bag of
// interface{}), generalized from query-analysis settings to linter
// settings.
package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	goerrors "gopkg.in/src-d/go-errors.v1"
	ini "gopkg.in/ini.v1"
	yaml "gopkg.in/yaml.v2"
)

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}

// ErrConfig is spec.md §7's ConfigError: raised by the config loader,
// never recovered locally, surfaced to the user with exit code 2.
var ErrConfig = goerrors.NewKind("config: %s")

// IndentationSettings is the `[sqruff:indentation]` section.
type IndentationSettings struct {
	IndentUnit            string // "space" | "tab"
	TabSpaceSize          int
	IndentedJoins         bool
	IndentedCTEs          bool
	IndentedUsingOn       bool
	AllowImplicitIndents  bool
	TemplateBlocksIndent  bool
	TrailingComments      string // "before" | "after"
}

// Settings is the fully-resolved configuration for one lint/fix run.
type Settings struct {
	Dialect                string
	Templater              string
	Rules                  []string
	ExcludeRules           []string
	MaxLineLength          int
	RunawayLimit           int
	IgnoreTemplatedAreas   bool
	LargeFileSkipByteLimit int

	Indentation IndentationSettings

	// sharedRuleOptions holds "[sqruff:rules]" keys, consulted by any
	// rule via ConfigView.SharedOption.
	sharedRuleOptions map[string]string
	// perRuleOptions holds "[sqruff:rules:<name>]" keys, keyed first by
	// rule code/name then by option key.
	perRuleOptions map[string]map[string]string
	// layoutTypes holds "[sqruff:layout:type:<tag>]" sections, keyed by
	// tag name then by option key; consumed by package reflow.
	layoutTypes map[string]map[string]string
}

// Default returns the built-in defaults applied before any config file
// is loaded, matching spec.md §6's documented defaults.
func Default() *Settings {
	return &Settings{
		Dialect:                "ansi",
		Templater:              "raw",
		Rules:                  []string{"core"},
		MaxLineLength:          80,
		RunawayLimit:           10,
		LargeFileSkipByteLimit: 0,
		Indentation: IndentationSettings{
			IndentUnit:       "space",
			TabSpaceSize:     4,
			TrailingComments: "before",
		},
		sharedRuleOptions: map[string]string{},
		perRuleOptions:    map[string]map[string]string{},
		layoutTypes:       map[string]map[string]string{},
	}
}

// Load parses the config file at path and merges it over Default(). A
// `.yml`/`.yaml` extension is read as the YAML layout documented in
// spec.md §6's alternate syntax; every other extension is read as the
// canonical `.sqrlint` INI layout.
func Load(path string) (*Settings, error) {
	if strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml") {
		return loadYAMLFile(path)
	}
	s := Default()
	f, err := ini.Load(path)
	if err != nil {
		return nil, ErrConfig.New(errors.Wrap(err, "loading "+path).Error())
	}
	if err := s.merge(f); err != nil {
		return nil, err
	}
	return s, nil
}

// yamlSettings is the subset of Settings expressible in the YAML layout;
// it mirrors the `[sqruff]`/`[sqruff:indentation]` INI sections as nested
// maps so both formats share the same key vocabulary.
type yamlSettings struct {
	Dialect              string                        `yaml:"dialect"`
	Templater            string                        `yaml:"templater"`
	Rules                []string                      `yaml:"rules"`
	ExcludeRules         []string                      `yaml:"exclude_rules"`
	MaxLineLength        int                           `yaml:"max_line_length"`
	RunawayLimit         int                           `yaml:"runaway_limit"`
	IgnoreTemplatedAreas bool                          `yaml:"ignore_templated_areas"`
	Indentation          map[string]string             `yaml:"indentation"`
	RuleOptions          map[string]map[string]string  `yaml:"rule_options"`
}

func loadYAMLFile(path string) (*Settings, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, ErrConfig.New(errors.Wrap(err, "reading "+path).Error())
	}
	return ParseYAML(raw)
}

// ParseYAML parses YAML content already in memory (used by tests and by
// callers that hold config bytes without a filesystem path).
func ParseYAML(content string) (*Settings, error) {
	var y yamlSettings
	if err := yaml.Unmarshal([]byte(content), &y); err != nil {
		return nil, ErrConfig.New(errors.Wrap(err, "parsing YAML config").Error())
	}

	s := Default()
	if y.Dialect != "" {
		s.Dialect = y.Dialect
	}
	if y.Templater != "" {
		s.Templater = y.Templater
	}
	if len(y.Rules) > 0 {
		s.Rules = y.Rules
	}
	if len(y.ExcludeRules) > 0 {
		s.ExcludeRules = y.ExcludeRules
	}
	if y.MaxLineLength > 0 {
		s.MaxLineLength = y.MaxLineLength
	}
	if y.RunawayLimit > 0 {
		s.RunawayLimit = y.RunawayLimit
	}
	s.IgnoreTemplatedAreas = y.IgnoreTemplatedAreas
	if unit, ok := y.Indentation["indent_unit"]; ok {
		s.Indentation.IndentUnit = unit
	}
	if size, ok := y.Indentation["tab_space_size"]; ok {
		s.Indentation.TabSpaceSize = cast.ToInt(size)
	}
	for name, opts := range y.RuleOptions {
		cp := make(map[string]string, len(opts))
		for k, v := range opts {
			cp[k] = v
		}
		s.perRuleOptions[name] = cp
	}
	return s, nil
}

// Parse parses INI content already in memory (used by tests and by the
// LSP server's inline-config support).
func Parse(content string) (*Settings, error) {
	s := Default()
	f, err := ini.Load([]byte(content))
	if err != nil {
		return nil, ErrConfig.New(err.Error())
	}
	if err := s.merge(f); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) merge(f *ini.File) error {
	if main := f.Section("sqruff"); main != nil {
		assignString(main, "dialect", &s.Dialect)
		assignString(main, "templater", &s.Templater)
		if k := main.Key("rules"); k.String() != "" {
			s.Rules = splitList(k.String())
		}
		if k := main.Key("exclude_rules"); k.String() != "" {
			s.ExcludeRules = splitList(k.String())
		}
		assignInt(main, "max_line_length", &s.MaxLineLength)
		assignInt(main, "runaway_limit", &s.RunawayLimit)
		assignBool(main, "ignore_templated_areas", &s.IgnoreTemplatedAreas)
		assignInt(main, "large_file_skip_byte_limit", &s.LargeFileSkipByteLimit)
	}

	if ind := f.Section("sqruff:indentation"); ind != nil {
		assignString(ind, "indent_unit", &s.Indentation.IndentUnit)
		assignInt(ind, "tab_space_size", &s.Indentation.TabSpaceSize)
		assignBool(ind, "indented_joins", &s.Indentation.IndentedJoins)
		assignBool(ind, "indented_ctes", &s.Indentation.IndentedCTEs)
		assignBool(ind, "indented_using_on", &s.Indentation.IndentedUsingOn)
		assignBool(ind, "allow_implicit_indents", &s.Indentation.AllowImplicitIndents)
		assignBool(ind, "template_blocks_indent", &s.Indentation.TemplateBlocksIndent)
		assignString(ind, "trailing_comments", &s.Indentation.TrailingComments)
	}

	if shared := f.Section("sqruff:rules"); shared != nil {
		for _, k := range shared.Keys() {
			s.sharedRuleOptions[k.Name()] = k.String()
		}
	}

	for _, sec := range f.Sections() {
		switch {
		case strings.HasPrefix(sec.Name(), "sqruff:rules:"):
			name := strings.TrimPrefix(sec.Name(), "sqruff:rules:")
			opts := map[string]string{}
			for _, k := range sec.Keys() {
				opts[k.Name()] = k.String()
			}
			s.perRuleOptions[name] = opts
		case strings.HasPrefix(sec.Name(), "sqruff:layout:type:"):
			tag := strings.TrimPrefix(sec.Name(), "sqruff:layout:type:")
			opts := map[string]string{}
			for _, k := range sec.Keys() {
				opts[k.Name()] = k.String()
			}
			s.layoutTypes[tag] = opts
		}
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func assignString(sec *ini.Section, key string, dst *string) {
	if v := sec.Key(key).String(); v != "" {
		*dst = v
	}
}

func assignInt(sec *ini.Section, key string, dst *int) {
	if v := sec.Key(key).String(); v != "" {
		*dst = cast.ToInt(v)
	}
}

func assignBool(sec *ini.Section, key string, dst *bool) {
	if v := sec.Key(key).String(); v != "" {
		*dst = cast.ToBool(v)
	}
}

// RuleOption implements rules.ConfigView: looks up key in the
// `[sqruff:rules:<name>]` section whose name equals ruleCode exactly.
// Rules pass their code (e.g. "CV01"), so a section named after a rule's
// dotted Name() is not consulted.
func (s *Settings) RuleOption(ruleCode, key string) (string, bool) {
	if opts, ok := s.perRuleOptions[ruleCode]; ok {
		if v, ok := opts[key]; ok {
			return v, true
		}
	}
	return "", false
}

// SharedOption implements rules.ConfigView: looks up a `[sqruff:rules]`
// shared key.
func (s *Settings) SharedOption(key string) (string, bool) {
	v, ok := s.sharedRuleOptions[key]
	return v, ok
}

// LayoutOption looks up a `[sqruff:layout:type:<tag>]` key, consumed by
// package reflow when building its Config from Settings.
func (s *Settings) LayoutOption(tag, key string) (string, bool) {
	if opts, ok := s.layoutTypes[tag]; ok {
		if v, ok := opts[key]; ok {
			return v, true
		}
	}
	return "", false
}
