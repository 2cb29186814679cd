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

// Package fixapplier turns a sorted, non-overlapping set of LintFixes
// into a fresh source string, per spec.md §4.7. It never mutates the
// caller's string or parse tree; IntegrityCheck reports whether a pass
// regressed (increased) the non-layout violation count, so the caller's
// fix loop can roll that pass back, per spec.md §4.7's "integrity check".
package fixapplier

import (
	"sort"
	"strings"

	goerrors "gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/sqrlint/rules"
	"github.com/dolthub/sqrlint/slice"
)

// ErrConflictingEdits is returned by Apply when two surviving edits
// overlap in the raw byte range after conflict resolution should have
// already removed that possibility — a defensive check on an invariant
// the caller (the fix-composition loop) is expected to uphold.
var ErrConflictingEdits = goerrors.NewKind("fixapplier: overlapping edits at byte %d")

// edit is one resolved (raw_range, replacement) pair, spec.md §4.7's
// input shape.
type edit struct {
	start, end int
	replace    string
	fix        rules.LintFix
}

func toEdit(f rules.LintFix) edit {
	r := f.Anchor.Slice()
	var replace string
	for _, s := range f.NewSegments {
		replace += s.Raw()
	}
	switch f.Kind {
	case rules.Replace:
		return edit{start: r.Start, end: r.End, replace: replace}
	case rules.Delete:
		return edit{start: r.Start, end: r.End, replace: ""}
	case rules.CreateBefore:
		return edit{start: r.Start, end: r.Start, replace: replace}
	case rules.CreateAfter:
		return edit{start: r.End, end: r.End, replace: replace}
	}
	return edit{start: r.Start, end: r.End, replace: replace}
}

// GroupByAnchor implements spec.md §4.5 step 2: group fixes by the raw
// byte range they touch. Fixes with an identical range are conflict
// candidates; ResolveConflicts picks one and defers the rest.
func GroupByAnchor(fixes []rules.LintFix) map[slice.Range][]rules.LintFix {
	groups := make(map[slice.Range][]rules.LintFix)
	for _, f := range fixes {
		groups[f.Anchor.Slice()] = append(groups[f.Anchor.Slice()], f)
	}
	return groups
}

// ResolveConflicts implements spec.md §4.5 step 3: for each anchor with
// more than one proposed fix, keep the first (registration/crawl order)
// and defer the rest to the next pass.
func ResolveConflicts(groups map[slice.Range][]rules.LintFix) (applied []rules.LintFix, deferred []rules.LintFix) {
	// Deterministic order: sort by range start so output is stable
	// across runs regardless of map iteration order.
	ranges := make([]slice.Range, 0, len(groups))
	for r := range groups {
		ranges = append(ranges, r)
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })

	for _, r := range ranges {
		fs := groups[r]
		applied = append(applied, fs[0])
		deferred = append(deferred, fs[1:]...)
	}
	return applied, deferred
}

// Apply applies fixes (assumed already conflict-resolved and sorted by
// Anchor position) to raw and returns the rewritten source. Edits that
// would cross a templated-slice boundary are silently skipped (spec.md
// §4.6's TemplatedEditRefused failure mode: "recorded, no fix emitted")
// when sliceMap is non-nil; sliceMap may be nil for untemplated input.
func Apply(raw string, fixes []rules.LintFix, sliceMap *slice.Map) (string, []rules.LintFix, error) {
	edits := make([]edit, 0, len(fixes))
	var skipped []rules.LintFix
	for _, f := range fixes {
		e := toEdit(f)
		e.fix = f
		if sliceMap != nil && crossesTemplateBoundary(sliceMap, e.start, e.end) {
			skipped = append(skipped, f)
			continue
		}
		edits = append(edits, e)
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var sb strings.Builder
	cursor := 0
	for _, e := range edits {
		if e.start < cursor {
			// Overlap with an edit already written: the composition
			// loop should have prevented this via GroupByAnchor, so
			// treat it as a hard error rather than silently corrupting
			// the output.
			return "", nil, ErrConflictingEdits.New(e.start)
		}
		sb.WriteString(raw[cursor:e.start])
		sb.WriteString(e.replace)
		cursor = e.end
	}
	sb.WriteString(raw[cursor:])
	return sb.String(), skipped, nil
}

func crossesTemplateBoundary(sm *slice.Map, start, end int) bool {
	for _, entry := range sm.Entries() {
		if entry.Kind != slice.Literal && rangesOverlap(entry.Raw, start, end) && !rangeContains(entry.Raw, start, end) {
			return true
		}
	}
	return false
}

func rangesOverlap(r slice.Range, start, end int) bool {
	return start < r.End && end > r.Start
}

func rangeContains(r slice.Range, start, end int) bool {
	return start >= r.Start && end <= r.End
}

// IntegrityCheck re-runs the given non-layout crawl over the re-parsed
// output and reports whether fixing regressed (increased) the violation
// count, per spec.md §4.7. recheck is supplied by the caller (typically
// a closure over the lexer/parser/rules pipeline) so this package does
// not need to import parser (which would create an import cycle through
// rules -> reflow -> fixapplier's callers).
func IntegrityCheck(before int, recheck func() (int, error)) (regressed bool, err error) {
	count, err := recheck()
	if err != nil {
		return false, err
	}
	return count > before, nil
}
