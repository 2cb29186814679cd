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

// Package slice maintains the positioned-slice registry that ties the
// templated source used for lexing and parsing back to the raw source the
// user actually wrote. Templaters (Jinja, dbt, placeholder substitution)
// are external collaborators; this package only consumes the slice map
// they produce.
package slice

import (
	"sort"

	goerrors "gopkg.in/src-d/go-errors.v1"
)

// Kind classifies a slice of the source.
type Kind int

const (
	// Literal slices have byte-identical raw and templated content.
	Literal Kind = iota
	// Templated slices were produced by template expansion; lengths may
	// differ between raw and templated, and the core never edits inside
	// them.
	Templated
	// BlockStart marks the opening tag of a templated control block
	// (e.g. `{% for ... %}`).
	BlockStart
	// BlockEnd marks the closing tag of a templated control block.
	BlockEnd
)

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether offset lies within [Start, End).
func (r Range) Contains(offset int) bool { return offset >= r.Start && offset < r.End }

// Overlaps reports whether r and other share any byte.
func (r Range) Overlaps(other Range) bool { return r.Start < other.End && other.Start < r.End }

// Entry is one (raw_range, templated_range, kind) tuple.
type Entry struct {
	Raw       Range
	Templated Range
	Kind      Kind
}

// ErrOverlappingSlices is raised when a Map's entries overlap or leave a
// gap, violating the templater contract.
var ErrOverlappingSlices = goerrors.NewKind("slice map is not a gap-free, non-overlapping partition: %s")

// Map is the sorted, gap-free partition of the templated source produced by
// a templater.
type Map struct {
	entries []Entry
}

// NewRaw builds the trivial single-literal-slice map used when the
// templater is `raw`: the templated source equals the raw source exactly.
func NewRaw(source string) *Map {
	return &Map{entries: []Entry{{
		Raw:       Range{0, len(source)},
		Templated: Range{0, len(source)},
		Kind:      Literal,
	}}}
}

// New builds a Map from entries already sorted by templated offset. The
// caller (the templater integration) is responsible for ordering; New
// re-validates via Validate.
func New(entries []Entry) (*Map, error) {
	m := &Map{entries: entries}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the templater contract: entries partition the templated
// source completely, without overlap, raw ranges do not overlap either,
// and literal slices have equal-length raw/templated ranges.
func (m *Map) Validate() error {
	if len(m.entries) == 0 {
		return ErrOverlappingSlices.New("empty slice map")
	}
	sorted := make([]Entry, len(m.entries))
	copy(sorted, m.entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Templated.Start < sorted[j].Templated.Start })

	for i, e := range sorted {
		if e.Kind == Literal && e.Raw.Len() != e.Templated.Len() {
			return ErrOverlappingSlices.New("literal slice has mismatched lengths")
		}
		if i > 0 && sorted[i-1].Templated.End != e.Templated.Start {
			return ErrOverlappingSlices.New("gap or overlap between templated slices")
		}
		if i > 0 && sorted[i-1].Raw.End > e.Raw.Start {
			return ErrOverlappingSlices.New("overlap between raw slices")
		}
	}
	return nil
}

// EntryAt returns the entry covering the given templated-source offset.
func (m *Map) EntryAt(templatedOffset int) (Entry, bool) {
	for _, e := range m.entries {
		if e.Templated.Contains(templatedOffset) || (templatedOffset == e.Templated.End && e.Templated.Len() == 0) {
			return e, true
		}
	}
	// Offset at the very end of the file belongs to the last entry.
	if n := len(m.entries); n > 0 && templatedOffset == m.entries[n-1].Templated.End {
		return m.entries[n-1], true
	}
	return Entry{}, false
}

// IsTemplated reports whether the templated byte range [start,end) lies, in
// whole or in part, inside a Templated slice.
func (m *Map) IsTemplated(start, end int) bool {
	for _, e := range m.entries {
		if e.Kind != Templated {
			continue
		}
		if e.Templated.Overlaps(Range{start, end}) {
			return true
		}
	}
	return false
}

// ToRaw translates a templated-source byte range to the corresponding
// raw-source byte range. It returns ok=false if the range is not entirely
// contained in a single literal slice (the only case in which a precise,
// safe translation is guaranteed).
func (m *Map) ToRaw(start, end int) (Range, bool) {
	for _, e := range m.entries {
		if e.Kind != Literal {
			continue
		}
		if e.Templated.Start <= start && end <= e.Templated.End {
			delta := e.Raw.Start - e.Templated.Start
			return Range{start + delta, end + delta}, true
		}
	}
	return Range{}, false
}

// Entries returns the underlying entries in templated order.
func (m *Map) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}
