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

// Package noqa recognizes the inline `-- noqa` directive family from
// spec.md §6 and builds an Index the violation collector filters
// against after rule evaluation. The directive grammar is small enough
// that a participle mini-grammar is the natural fit, following the
// lexer.SimpleRule + participle.Build pattern in
// other_examples/802bec3b_marco-m-roundtrip_ini__ast-parser.go.go.
package noqa

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/dolthub/sqrlint/internal/linecount"
	"github.com/dolthub/sqrlint/segment"
)

// directive is the parsed shape of the text following `-- noqa`.
//   -- noqa                       -> Bare
//   -- noqa: AL01,CP01            -> Codes
//   -- noqa: disable=AL01         -> Action="disable", Codes=[AL01]
//   -- noqa: disable=all          -> Action="disable", All=true
//   -- noqa: enable=AL01          -> Action="enable", Codes=[AL01]
type directive struct {
	Pos    lexer.Position
	Action string   `parser:"(@(\"disable\"|\"enable\") \"=\")?"`
	All    bool     `parser:"( @\"all\""`
	Codes  []string `parser:"| @Code (\",\" @Code)* )?"`
}

var noqaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Code", Pattern: `[A-Z]{2}\d{2}`},
	{Name: "Ident", Pattern: `[a-zA-Z]+`},
	{Name: "Punct", Pattern: `[:=,]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var noqaParser = participle.MustBuild[directive](
	participle.Lexer(noqaLexer),
	participle.Elide("Whitespace"),
)

// Toggle is one enable/disable range boundary.
type Toggle struct {
	Line    int
	Code    string // "" means "all"
	Disable bool
}

// Index is the resolved per-line noqa suppression state for one file.
type Index struct {
	// lineOnly maps a 1-based line number to the set of codes silenced
	// for that single line ("" key means "all codes").
	lineOnly map[int]map[string]bool
	toggles  []Toggle
}

// Build scans every comment leaf in tree and parses any `-- noqa`
// directive it carries, associating bare/`CODE,CODE` forms with that
// comment's own line and collecting disable=/enable= forms as ordered
// range toggles.
func Build(tree segment.Segment, idx *linecount.Index) *Index {
	out := &Index{lineOnly: map[int]map[string]bool{}}
	for _, c := range segment.RecursiveFind(tree, func(s segment.Segment) bool { return s.IsComment() }) {
		text := strings.TrimSpace(c.Raw())
		text = strings.TrimPrefix(text, "--")
		text = strings.TrimSpace(text)
		if !strings.HasPrefix(strings.ToLower(text), "noqa") {
			continue
		}
		rest := strings.TrimSpace(text[len("noqa"):])
		rest = strings.TrimPrefix(rest, ":")
		line, _ := segment.Position(c, idx)

		if strings.TrimSpace(rest) == "" {
			out.markLine(line, "")
			continue
		}

		d, err := noqaParser.ParseString("", rest)
		if err != nil {
			// Malformed directive: ignored, not fatal — noqa parsing
			// failures should never block linting the rest of the file.
			continue
		}
		switch d.Action {
		case "disable", "enable":
			if d.All {
				out.toggles = append(out.toggles, Toggle{Line: line, Code: "", Disable: d.Action == "disable"})
				continue
			}
			for _, code := range d.Codes {
				out.toggles = append(out.toggles, Toggle{Line: line, Code: code, Disable: d.Action == "disable"})
			}
		default:
			if d.All {
				out.markLine(line, "")
				continue
			}
			for _, code := range d.Codes {
				out.markLine(line, code)
			}
		}
	}
	return out
}

func (idx *Index) markLine(line int, code string) {
	if idx.lineOnly[line] == nil {
		idx.lineOnly[line] = map[string]bool{}
	}
	idx.lineOnly[line][code] = true
}

// Suppressed reports whether a violation with the given code on the
// given line should be filtered out: either a same-line bare/explicit
// noqa, or an active disable range that hasn't since been re-enabled.
func (idx *Index) Suppressed(line int, code string) bool {
	if set, ok := idx.lineOnly[line]; ok {
		if set[""] || set[code] {
			return true
		}
	}
	disabledAll := false
	disabledCodes := map[string]bool{}
	for _, t := range idx.toggles {
		if t.Line > line {
			break
		}
		if t.Code == "" {
			disabledAll = t.Disable
			if !t.Disable {
				disabledCodes = map[string]bool{}
			}
			continue
		}
		disabledCodes[t.Code] = t.Disable
	}
	if disabledAll {
		return true
	}
	return disabledCodes[code]
}
