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

// Package diffstat formats lint results for the three output formats
// spec.md §6 names: human, github-annotation-native, and json.
package diffstat

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dolthub/sqrlint/rules"
)

// Format selects one of the three renderers below.
type Format string

const (
	Human                 Format = "human"
	GithubAnnotationNative Format = "github-annotation-native"
	JSON                   Format = "json"
)

// jsonViolation is the `{code, name, description, line, column,
// fixable}` shape from spec.md §6.
type jsonViolation struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	Fixable     bool   `json:"fixable"`
}

type jsonFile struct {
	Path       string          `json:"path"`
	Violations []jsonViolation `json:"violations"`
}

// Write renders violations for path in the requested format to w.
func Write(w io.Writer, format Format, path string, violations []rules.Violation) error {
	switch format {
	case GithubAnnotationNative:
		return writeGithub(w, path, violations)
	case JSON:
		return writeJSON(w, path, violations)
	default:
		return writeHuman(w, path, violations)
	}
}

func writeHuman(w io.Writer, path string, violations []rules.Violation) error {
	for _, v := range violations {
		if _, err := fmt.Fprintf(w, "%s:%d:%d: %s %s\n", path, v.Line, v.Column, v.RuleCode, v.Message); err != nil {
			return err
		}
	}
	return nil
}

func writeGithub(w io.Writer, path string, violations []rules.Violation) error {
	for _, v := range violations {
		if _, err := fmt.Fprintf(w, "::warning file=%s,line=%d,col=%d::%s %s\n", path, v.Line, v.Column, v.RuleCode, v.Message); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, path string, violations []rules.Violation) error {
	out := jsonFile{Path: path}
	for _, v := range violations {
		out.Violations = append(out.Violations, jsonViolation{
			Code:        v.RuleCode,
			Name:        v.RuleName,
			Description: v.Message,
			Line:        v.Line,
			Column:      v.Column,
			Fixable:     len(v.Fixes) > 0,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
