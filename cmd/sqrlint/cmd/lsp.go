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

	"github.com/spf13/cobra"

	sqrlint "github.com/dolthub/sqrlint"
	"github.com/dolthub/sqrlint/server"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run a Language Server Protocol server over stdio.",
		RunE: func(c *cobra.Command, args []string) error {
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
			srv := server.New(linter)
			if err := srv.Run(os.Stdin, os.Stdout); err != nil {
				lastExitCode = exitConfigOrIOErr
				return err
			}
			return nil
		},
	}
}
