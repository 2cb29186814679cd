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

package linecount

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPositionSingleLine(t *testing.T) {
	idx := New("select 1")
	line, col := idx.Position(7)
	require.Equal(t, 1, line)
	require.Equal(t, 8, col)
}

func TestPositionAcrossMultipleLines(t *testing.T) {
	idx := New("select a\nfrom t\nwhere b = 1")
	require.Equal(t, 3, idx.LineCount())

	line, col := idx.Position(9)
	require.Equal(t, 2, line)
	require.Equal(t, 1, col)

	line, col = idx.Position(20)
	require.Equal(t, 3, line)
	require.Equal(t, 5, col)
}

func TestPositionClampsOutOfRangeOffsets(t *testing.T) {
	idx := New("abc")
	line, col := idx.Position(-5)
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	line, col = idx.Position(1000)
	require.Equal(t, 1, line)
	require.Equal(t, 4, col)
}
