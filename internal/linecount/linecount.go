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

// Package linecount builds a byte-offset to line/column index over a
// source string, so that segment positions can be reported to users
// without re-scanning the source on every lookup.
package linecount

import "sort"

// Index maps byte offsets in a source string to 1-based line/column pairs.
type Index struct {
	// lineStarts[i] is the byte offset of the first byte of line i+1.
	lineStarts []int
	length     int
}

// New builds an Index over src.
func New(src string) *Index {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{lineStarts: starts, length: len(src)}
}

// Position returns the 1-based (line, column) of the given byte offset.
// Column is counted in bytes, not runes, matching the segment model's
// byte-offset slices.
func (idx *Index) Position(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > idx.length {
		offset = idx.length
	}
	// Last line whose start is <= offset.
	i := sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > offset
	})
	lineIdx := i - 1
	if lineIdx < 0 {
		lineIdx = 0
	}
	return lineIdx + 1, offset - idx.lineStarts[lineIdx] + 1
}

// LineCount returns the total number of lines in the indexed source.
func (idx *Index) LineCount() int {
	return len(idx.lineStarts)
}
