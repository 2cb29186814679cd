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
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureStdout redirects os.Stdout for the duration of fn, since the CLI
// subcommands print straight to os.Stdout (package fmt) rather than
// through cobra's configurable output writer.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func resetFlags() {
	flagConfig = ""
	flagFormat = "human"
	flagParsingErrors = false
	lastExitCode = exitOK
}

func writeTempSQL(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "*.sql")
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestLintCommandReportsViolationsAndSetsExitCode(t *testing.T) {
	resetFlags()
	path := writeTempSQL(t, "select a,b FROM t\n")

	out := captureStdout(t, func() {
		root := newRootCmd()
		root.SetArgs([]string{"lint", path})
		require.NoError(t, root.Execute())
	})

	require.Contains(t, out, path)
	require.Equal(t, exitViolations, lastExitCode)
}

func TestLintCommandCleanFileExitsZero(t *testing.T) {
	resetFlags()
	path := writeTempSQL(t, "select a, b from t\n")

	captureStdout(t, func() {
		root := newRootCmd()
		root.SetArgs([]string{"lint", path})
		require.NoError(t, root.Execute())
	})

	require.Equal(t, exitOK, lastExitCode)
}

func TestFixCommandRewritesFileInPlace(t *testing.T) {
	resetFlags()
	path := writeTempSQL(t, "select a,b FROM t\n")

	captureStdout(t, func() {
		root := newRootCmd()
		root.SetArgs([]string{"fix", path})
		require.NoError(t, root.Execute())
	})

	fixed, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(fixed), "from")
}

func TestInfoCommandPrintsDialectsAndFingerprint(t *testing.T) {
	resetFlags()
	out := captureStdout(t, func() {
		root := newRootCmd()
		root.SetArgs([]string{"info"})
		require.NoError(t, root.Execute())
	})
	require.Contains(t, out, "ansi")
	require.Contains(t, out, "config fingerprint:")
}

func TestRulesCommandListsRegisteredRules(t *testing.T) {
	resetFlags()
	out := captureStdout(t, func() {
		root := newRootCmd()
		root.SetArgs([]string{"rules"})
		require.NoError(t, root.Execute())
	})
	require.Contains(t, out, "CP01")
}

func TestParseCommandPrintsTree(t *testing.T) {
	resetFlags()
	path := writeTempSQL(t, "select a from t\n")

	out := captureStdout(t, func() {
		root := newRootCmd()
		root.SetArgs([]string{"parse", path})
		require.NoError(t, root.Execute())
	})
	require.Contains(t, out, "select_statement")
}

func TestLintCommandJSONFormat(t *testing.T) {
	resetFlags()
	path := writeTempSQL(t, "select a,b FROM t\n")

	out := captureStdout(t, func() {
		root := newRootCmd()
		root.SetArgs([]string{"lint", "--format", "json", path})
		require.NoError(t, root.Execute())
	})
	require.Contains(t, out, `"path"`)
}
