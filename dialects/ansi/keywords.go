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

package ansi

// ReservedKeywords cannot be used as unquoted identifiers in ANSI SQL.
// The list is representative of the common core shared by most
// dialects, not the full ANSI:2016 reserved-word list.
var ReservedKeywords = []string{
	"SELECT", "FROM", "WHERE", "GROUP", "BY", "HAVING", "ORDER", "LIMIT",
	"OFFSET", "AS", "DISTINCT", "ALL", "JOIN", "INNER", "LEFT", "RIGHT",
	"FULL", "OUTER", "CROSS", "ON", "USING", "UNION", "INTERSECT",
	"EXCEPT", "WITH", "INSERT", "INTO", "VALUES", "UPDATE", "SET",
	"DELETE", "CREATE", "TABLE", "DROP", "ALTER", "AND", "OR", "NOT",
	"NULL", "IS", "IN", "LIKE", "BETWEEN", "CASE", "WHEN", "THEN",
	"ELSE", "END", "ASC", "DESC", "PRIMARY", "KEY", "FOREIGN",
	"REFERENCES", "DEFAULT", "CHECK", "UNIQUE", "CONSTRAINT", "TRUE",
	"FALSE", "EXISTS",
}

// UnreservedKeywords may double as identifiers depending on grammar
// position (e.g. a column literally named `type` or `value`).
var UnreservedKeywords = []string{
	"TYPE", "VALUE", "NAME", "LEVEL", "DATA", "TEXT", "FORMAT", "STATUS",
}

// BareFunctions are callable without parentheses.
var BareFunctions = []string{
	"CURRENT_TIMESTAMP", "CURRENT_DATE", "CURRENT_TIME", "CURRENT_USER",
}

// DatetimeUnits are valid arguments to EXTRACT/DATE_TRUNC-style
// functions.
var DatetimeUnits = []string{
	"YEAR", "MONTH", "DAY", "HOUR", "MINUTE", "SECOND", "WEEK", "QUARTER",
}
