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

// Package dialects is the bootstrap point that registers every built-in
// dialect into a fresh dialect.Registry, ansi first since every other
// dialect is parented on it.
package dialects

import (
	"github.com/dolthub/sqrlint/dialect"
	"github.com/dolthub/sqrlint/dialects/ansi"
	"github.com/dolthub/sqrlint/dialects/bigquery"
	"github.com/dolthub/sqrlint/dialects/mysql"
	"github.com/dolthub/sqrlint/dialects/postgres"
	"github.com/dolthub/sqrlint/dialects/snowflake"
	"github.com/dolthub/sqrlint/dialects/tsql"
)

// RegisterAll builds and returns a Registry with every built-in dialect
// registered.
func RegisterAll() (*dialect.Registry, error) {
	r := dialect.NewRegistry()
	if _, err := ansi.Register(r); err != nil {
		return nil, err
	}
	for _, register := range []func(*dialect.Registry) (*dialect.Dialect, error){
		mysql.Register,
		postgres.Register,
		bigquery.Register,
		snowflake.Register,
		tsql.Register,
	} {
		if _, err := register(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}
