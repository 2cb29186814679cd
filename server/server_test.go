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

package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	sqrlint "github.com/dolthub/sqrlint"
	"github.com/dolthub/sqrlint/config"
)

func newTestLinter(t *testing.T) *sqrlint.Linter {
	t.Helper()
	linter, err := sqrlint.New(config.Default())
	require.NoError(t, err)
	return linter
}

func frame(method string, id, params string) string {
	body := fmt.Sprintf(`{"jsonrpc":"2.0"`)
	if id != "" {
		body += fmt.Sprintf(`,"id":%s`, id)
	}
	body += fmt.Sprintf(`,"method":%q`, method)
	if params != "" {
		body += fmt.Sprintf(`,"params":%s`, params)
	}
	body += "}"
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
}

// readFramedMessages decodes every Content-Length-framed JSON message in
// buf, in order.
func readFramedMessages(t *testing.T, buf []byte) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	r := bufio.NewReader(bytes.NewReader(buf))
	for {
		var length int
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return out
			}
			trimmed := trimCRLF(line)
			if trimmed == "" {
				break
			}
			if n, ok := parseContentLength(trimmed); ok {
				length = n
			}
		}
		body := make([]byte, length)
		if _, err := r.Read(body); err != nil {
			return out
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &m))
		out = append(out, m)
	}
}

func trimCRLF(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func parseContentLength(line string) (int, bool) {
	const prefix = "Content-Length:"
	if len(line) <= len(prefix) || line[:len(prefix)] != prefix {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(line[len(prefix):], "%d", &n); err != nil {
		return 0, false
	}
	return n, true
}

func TestInitializeRespondsWithCapabilities(t *testing.T) {
	srv := New(newTestLinter(t))
	in := frame("initialize", "1", "") + frame("shutdown", "2", "")
	var out bytes.Buffer
	require.NoError(t, srv.Run(bytes.NewBufferString(in), &out))

	msgs := readFramedMessages(t, out.Bytes())
	require.Len(t, msgs, 2)
	require.Equal(t, "1", fmt.Sprint(msgs[0]["id"]))
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	srv := New(newTestLinter(t))
	params := `{"textDocument":{"uri":"file:///q.sql","text":"select a,b FROM t"}}`
	in := frame("textDocument/didOpen", "", params) + frame("shutdown", "1", "")
	var out bytes.Buffer
	require.NoError(t, srv.Run(bytes.NewBufferString(in), &out))

	msgs := readFramedMessages(t, out.Bytes())
	var sawDiagnostics bool
	for _, m := range msgs {
		if m["method"] == "textDocument/publishDiagnostics" {
			sawDiagnostics = true
			params, ok := m["params"].(map[string]interface{})
			require.True(t, ok)
			diags, ok := params["diagnostics"].([]interface{})
			require.True(t, ok)
			require.NotEmpty(t, diags)
		}
	}
	require.True(t, sawDiagnostics)
}

func TestUnchangedDocumentSkipsRedundantPublish(t *testing.T) {
	srv := New(newTestLinter(t))
	srv.docs["file:///q.sql"] = "select a from t"

	var out1 bytes.Buffer
	require.NoError(t, srv.publishDiagnostics(&out1, "file:///q.sql"))
	require.NotEmpty(t, out1.Bytes())

	var out2 bytes.Buffer
	require.NoError(t, srv.publishDiagnostics(&out2, "file:///q.sql"))
	require.Empty(t, out2.Bytes())
}

func TestUnknownMethodIsIgnoredNotFatal(t *testing.T) {
	srv := New(newTestLinter(t))
	in := frame("textDocument/hover", "1", "") + frame("shutdown", "2", "")
	var out bytes.Buffer
	require.NoError(t, srv.Run(bytes.NewBufferString(in), &out))

	msgs := readFramedMessages(t, out.Bytes())
	require.Len(t, msgs, 1)
}
