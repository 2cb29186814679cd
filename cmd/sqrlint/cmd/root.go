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

// Package cmd implements the sqrlint CLI surface from spec.md §6 with
// github.com/spf13/cobra, one file per subcommand or per pair of closely
// related subcommands (lint.go holds lint and fix, info.go holds info and
// rules), after other_examples/4d2ae864_cue-lang-cue__cmd-cue-cmd-trim.go.go.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dolthub/sqrlint/config"
)

const (
	exitOK            = 0
	exitViolations     = 1
	exitConfigOrIOErr = 2
)

var (
	flagConfig        string
	flagFormat        string
	flagParsingErrors bool
)

// Execute builds and runs the root command, returning the process exit
// code (never calling os.Exit itself, so tests can invoke it directly).
func Execute() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitConfigOrIOErr
	}
	return lastExitCode
}

// lastExitCode lets a RunE set a more specific exit code than cobra's
// binary success/failure, matching spec.md §6's three-way exit code
// contract (0/1/2) rather than cobra's built-in 0/1.
var lastExitCode = exitOK

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sqrlint",
		Short:         "A fast, dialect-aware SQL linter and auto-formatter.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to an INI config file")
	root.PersistentFlags().StringVarP(&flagFormat, "format", "f", "human", "output format: human|github-annotation-native|json")
	root.PersistentFlags().BoolVar(&flagParsingErrors, "parsing-errors", false, "also report PRS parse-error diagnostics")

	root.AddCommand(newLintCmd())
	root.AddCommand(newFixCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newLSPCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newRulesCmd())
	return root
}

func loadSettings() (*config.Settings, error) {
	if flagConfig == "" {
		return config.Default(), nil
	}
	return config.Load(flagConfig)
}

func logger() logrus.FieldLogger {
	l := logrus.StandardLogger()
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	return l
}
