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
	"fmt"

	"github.com/mitchellh/hashstructure"
	"github.com/spf13/cobra"

	"github.com/dolthub/sqrlint/dialects"
	_ "github.com/dolthub/sqrlint/rules/rulebase"
	"github.com/dolthub/sqrlint/rules"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print environment information: registered dialects, rule count, and the resolved config's fingerprint.",
		RunE: func(c *cobra.Command, args []string) error {
			reg, err := dialects.RegisterAll()
			if err != nil {
				lastExitCode = exitConfigOrIOErr
				return err
			}
			fmt.Printf("dialects: %s\n", joinNames(reg.Names()))
			fmt.Printf("rules registered: %d\n", len(rules.All()))

			settings, err := loadSettings()
			if err != nil {
				lastExitCode = exitConfigOrIOErr
				return err
			}
			// A structural hash of the resolved Settings, independent of
			// the source INI/YAML file's formatting, so CI can key a
			// lint-results cache on "did the effective config change"
			// rather than on file mtimes.
			fingerprint, err := hashstructure.Hash(settings, nil)
			if err != nil {
				return err
			}
			fmt.Printf("config fingerprint: %x\n", fingerprint)
			return nil
		},
	}
}

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List all registered rules with their codes and groups.",
		RunE: func(c *cobra.Command, args []string) error {
			for _, r := range rules.All() {
				fmt.Printf("%-6s %-30s %v\n", r.Code(), r.Name(), r.Groups())
			}
			return nil
		},
	}
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
