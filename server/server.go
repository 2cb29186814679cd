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

// Package server is a minimal JSON-RPC 2.0-over-stdio Language Server
// Protocol surface (spec.md §6's `lsp` subcommand): it implements just
// enough of the protocol (initialize, textDocument/didOpen,
// textDocument/didChange, shutdown) to publish diagnostics derived from
// package sqrlint's Lint results. Grounded on the teacher's net/rpc-
// style request/response dispatch in the now-removed server package,
// adapted from a length-prefixed binary RPC wire format to LSP's
// Content-Length-framed JSON-RPC.
package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	sqrlint "github.com/dolthub/sqrlint"
)

// Server owns the request loop for one stdio session.
type Server struct {
	Linter *sqrlint.Linter
	Log    logrus.FieldLogger
	docs   map[string]string
	// digests remembers the xxhash of the last document text diagnostics
	// were published for, so a didChange notification that round-trips
	// back to previously-seen content (e.g. an undo) skips a redundant
	// lint+publish cycle.
	digests map[string]uint64
}

// New constructs a Server bound to linter.
func New(linter *sqrlint.Linter) *Server {
	return &Server{
		Linter:  linter,
		Log:     logrus.StandardLogger(),
		docs:    map[string]string{},
		digests: map[string]uint64{},
	}
}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  interface{}     `json:"params,omitempty"`
}

type textDocumentItem struct {
	URI  string `json:"uri"`
	Text string `json:"text"`
}

type didOpenParams struct {
	TextDocument textDocumentItem `json:"textDocument"`
}

type contentChange struct {
	Text string `json:"text"`
}

type didChangeParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	ContentChanges []contentChange `json:"contentChanges"`
}

type diagnostic struct {
	Range    rangeT `json:"range"`
	Severity int    `json:"severity"`
	Code     string `json:"code"`
	Source   string `json:"source"`
	Message  string `json:"message"`
}

type rangeT struct {
	Start positionT `json:"start"`
	End   positionT `json:"end"`
}

type positionT struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Run reads length-prefixed JSON-RPC requests from r and writes
// responses/notifications to w until the stream closes or a shutdown
// request is received.
func (s *Server) Run(r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)
	for {
		req, err := readMessage(reader)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.handle(req, w); err != nil {
			return err
		}
		if req.Method == "shutdown" {
			return nil
		}
	}
}

func readMessage(r *bufio.Reader) (*rpcRequest, error) {
	var length int
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "Content-Length:") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:")))
			if err != nil {
				return nil, err
			}
			length = n
		}
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func writeMessage(w io.Writer, msg interface{}) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

func (s *Server) handle(req *rpcRequest, w io.Writer) error {
	// Each inbound request gets a correlation id purely for log
	// correlation across a session's request/notification stream —
	// LSP's own id field is only set on requests, not notifications.
	reqID := uuid.NewV4().String()
	s.Log.WithField("request_id", reqID).WithField("method", req.Method).Debug("handling request")

	switch req.Method {
	case "initialize":
		return writeMessage(w, rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]interface{}{
			"capabilities": map[string]interface{}{"textDocumentSync": 1},
		}})
	case "textDocument/didOpen":
		var p didOpenParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return err
		}
		s.docs[p.TextDocument.URI] = p.TextDocument.Text
		return s.publishDiagnostics(w, p.TextDocument.URI)
	case "textDocument/didChange":
		var p didChangeParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return err
		}
		if len(p.ContentChanges) > 0 {
			s.docs[p.TextDocument.URI] = p.ContentChanges[len(p.ContentChanges)-1].Text
		}
		return s.publishDiagnostics(w, p.TextDocument.URI)
	case "shutdown":
		return writeMessage(w, rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: nil})
	default:
		// Notifications and unsupported requests are silently ignored —
		// an unrecognized method must never abort the session.
		return nil
	}
}

func (s *Server) publishDiagnostics(w io.Writer, uri string) error {
	source := s.docs[uri]

	digest := xxhash.Sum64String(source)
	if prev, ok := s.digests[uri]; ok && prev == digest {
		return nil
	}
	s.digests[uri] = digest

	result, err := s.Linter.Lint(source, sqrlint.LintOptions{})
	if err != nil {
		s.Log.WithError(err).Warn("lint failed during diagnostics publish")
		return nil
	}
	diags := make([]diagnostic, 0, len(result.Violations))
	for _, v := range result.Violations {
		line := v.Line - 1
		if line < 0 {
			line = 0
		}
		col := v.Column - 1
		if col < 0 {
			col = 0
		}
		diags = append(diags, diagnostic{
			Range:    rangeT{Start: positionT{Line: line, Character: col}, End: positionT{Line: line, Character: col + 1}},
			Severity: 2,
			Code:     v.RuleCode,
			Source:   "sqrlint",
			Message:  v.Message,
		})
	}
	return writeMessage(w, rpcResponse{
		JSONRPC: "2.0", Method: "textDocument/publishDiagnostics",
		Params: map[string]interface{}{"uri": uri, "diagnostics": diags},
	})
}
