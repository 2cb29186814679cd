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
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dolthub/sqrlint/dialects"
	"github.com/dolthub/sqrlint/lexer"
	"github.com/dolthub/sqrlint/parser"
	"github.com/dolthub/sqrlint/segment"
	"github.com/dolthub/sqrlint/slice"
)

func newParseCmd() *cobra.Command {
	var prettyFormat string
	cmd := &cobra.Command{
		Use:   "parse [paths...]",
		Short: "Emit the parse tree for each file.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				lastExitCode = exitConfigOrIOErr
				return err
			}
			reg, err := dialects.RegisterAll()
			if err != nil {
				lastExitCode = exitConfigOrIOErr
				return err
			}
			d, ok := reg.Get(settings.Dialect)
			if !ok {
				lastExitCode = exitConfigOrIOErr
				return fmt.Errorf("unknown dialect %q", settings.Dialect)
			}
			for _, path := range args {
				source, err := readSource(path)
				if err != nil {
					lastExitCode = exitConfigOrIOErr
					return err
				}
				lx, err := lexer.New(d)
				if err != nil {
					return err
				}
				toks, err := lx.Lex(source, slice.NewRaw(source))
				if err != nil {
					return err
				}
				result, err := parser.Parse(d, toks)
				if err != nil {
					return err
				}
				if prettyFormat == "json" {
					printTreeJSON(result.Tree)
				} else {
					printTreePretty(result.Tree, 0)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&prettyFormat, "format", "pretty", "pretty|json")
	return cmd
}

func printTreePretty(seg segment.Segment, depth int) {
	indent := strings.Repeat("  ", depth)
	if len(seg.Children()) == 0 {
		fmt.Printf("%s%s %q\n", indent, seg.Tag(), seg.Raw())
		return
	}
	fmt.Printf("%s%s\n", indent, seg.Tag())
	for _, c := range seg.Children() {
		printTreePretty(c, depth+1)
	}
}

type jsonNode struct {
	Tag      string     `json:"tag"`
	Raw      string     `json:"raw,omitempty"`
	Children []jsonNode `json:"children,omitempty"`
}

func toJSONNode(seg segment.Segment) jsonNode {
	n := jsonNode{Tag: string(seg.Tag())}
	if len(seg.Children()) == 0 {
		n.Raw = seg.Raw()
		return n
	}
	for _, c := range seg.Children() {
		n.Children = append(n.Children, toJSONNode(c))
	}
	return n
}

func printTreeJSON(tree segment.Segment) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(toJSONNode(tree))
}
