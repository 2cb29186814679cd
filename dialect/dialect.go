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

// Package dialect holds the dialect registry: named dialects, each a set
// of keyword sets and named grammar rules, layered over a single parent by
// shallow-copy-then-override-then-extend. The registry is populated once
// at program start and is read-only thereafter; callers always pass the
// active *Dialect explicitly rather than reaching for a hidden singleton.
package dialect

import (
	iradix "github.com/hashicorp/go-immutable-radix"
	goerrors "gopkg.in/src-d/go-errors.v1"
)

// ErrUnknownDialect is raised when a config or CLI flag names a dialect
// that was never registered.
var ErrUnknownDialect = goerrors.NewKind("unknown dialect: %s")

// ErrCyclicParent is raised at registration time when a dialect's parent
// chain loops back on itself.
var ErrCyclicParent = goerrors.NewKind("cyclic dialect parent chain starting at %s")

// ErrDuplicateDialect is raised when the same dialect name is registered
// twice.
var ErrDuplicateDialect = goerrors.NewKind("dialect %s already registered")

// KeywordSetName names one of a dialect's layered keyword sets.
type KeywordSetName string

// Keyword set names recognized across the grammar and rule engine.
const (
	Reserved       KeywordSetName = "reserved"
	Unreserved     KeywordSetName = "unreserved"
	BareFunctions  KeywordSetName = "bare_functions"
	DatetimeUnits  KeywordSetName = "datetime_units"
)

// GrammarRule is a named, possibly-recursive grammar expansion. The
// concrete Matcher values live in package grammar; Dialect stores them
// behind this alias to avoid an import cycle (grammar references
// dialect.Dialect to resolve Ref(name) lookups, so dialect cannot import
// grammar's concrete Matcher type back).
type GrammarRule interface {
	// MatchName is a marker method only so the grammar package's Matcher
	// interface is structurally assignable here without a direct import.
	MatchName() string
}

// Definition is the registration-time description of a dialect. Parent is
// resolved once, by name, when Register is called.
type Definition struct {
	Name          string
	Parent        string // empty for the root (ansi)
	KeywordSets   map[KeywordSetName][]string
	GrammarRules  map[string]GrammarRule
	LexerMatchers []LexerMatcher
}

// LexerMatcher is one dialect-configurable regular-expression-like token
// matcher. The concrete regex lives in package lexer; Dialect only stores
// the ordered list so the lexer can compile it per dialect.
type LexerMatcher struct {
	Name    string
	Pattern string
	Tag     string
}

// Dialect is the effective, fully-layered rule set for one named dialect:
// parent rules shallow-copied, then overridden by name, then extended.
type Dialect struct {
	Name          string
	Parent        *Dialect
	keywordSets   map[KeywordSetName]*iradix.Tree
	GrammarRules  map[string]GrammarRule
	LexerMatchers []LexerMatcher
}

// IsReserved reports whether word (compared case-insensitively) is a
// member of the dialect's reserved keyword set.
func (d *Dialect) IsReserved(word string) bool {
	return d.inSet(Reserved, word)
}

// IsUnreserved reports membership in the unreserved set (keywords usable
// as identifiers in specific grammar positions).
func (d *Dialect) IsUnreserved(word string) bool {
	return d.inSet(Unreserved, word)
}

// IsBareFunction reports whether word is a bare (no-parens) function name
// for this dialect, e.g. CURRENT_TIMESTAMP.
func (d *Dialect) IsBareFunction(word string) bool {
	return d.inSet(BareFunctions, word)
}

// IsDatetimeUnit reports membership in the datetime-units set.
func (d *Dialect) IsDatetimeUnit(word string) bool {
	return d.inSet(DatetimeUnits, word)
}

func (d *Dialect) inSet(name KeywordSetName, word string) bool {
	t, ok := d.keywordSets[name]
	if !ok {
		return false
	}
	_, found := t.Get([]byte(normalizeKeyword(word)))
	return found
}

// Rule looks up a named grammar rule in this dialect's effective rule
// set. Register has already layered the parent's rules into that set at
// registration time, so the parent chain is not walked here.
func (d *Dialect) Rule(name string) (GrammarRule, bool) {
	r, ok := d.GrammarRules[name]
	return r, ok
}

// Registry is the init-once catalog of registered dialects.
type Registry struct {
	dialects map[string]*Dialect
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{dialects: make(map[string]*Dialect)}
}

// Register layers def over its named parent (if any) and adds the result
// to the registry. The ANSI root dialect has no parent. Keyword sets are
// layered key-by-key: child entries are added to (never remove from) the
// parent's set for that name.
func (r *Registry) Register(def Definition) (*Dialect, error) {
	if _, exists := r.dialects[def.Name]; exists {
		return nil, ErrDuplicateDialect.New(def.Name)
	}

	var parent *Dialect
	if def.Parent != "" {
		p, ok := r.dialects[def.Parent]
		if !ok {
			return nil, ErrUnknownDialect.New(def.Parent)
		}
		if err := checkAcyclic(p, def.Name); err != nil {
			return nil, err
		}
		parent = p
	}

	d := &Dialect{
		Name:          def.Name,
		Parent:        parent,
		keywordSets:   layerKeywordSets(parent, def.KeywordSets),
		GrammarRules:  layerGrammarRules(parent, def.GrammarRules),
		LexerMatchers: layerLexerMatchers(parent, def.LexerMatchers),
	}
	r.dialects[def.Name] = d
	return d, nil
}

func checkAcyclic(parent *Dialect, newName string) error {
	for p := parent; p != nil; p = p.Parent {
		if p.Name == newName {
			return ErrCyclicParent.New(newName)
		}
	}
	return nil
}

func layerKeywordSets(parent *Dialect, overrides map[KeywordSetName][]string) map[KeywordSetName]*iradix.Tree {
	out := make(map[KeywordSetName]*iradix.Tree)
	if parent != nil {
		for name, tree := range parent.keywordSets {
			out[name] = tree
		}
	}
	for name, words := range overrides {
		tree, ok := out[name]
		if !ok {
			tree = iradix.New()
		}
		txn := tree.Txn()
		for _, w := range words {
			txn.Insert([]byte(normalizeKeyword(w)), struct{}{})
		}
		out[name] = txn.Commit()
	}
	return out
}

func normalizeKeyword(w string) string {
	b := []byte(w)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func layerGrammarRules(parent *Dialect, overrides map[string]GrammarRule) map[string]GrammarRule {
	out := make(map[string]GrammarRule)
	if parent != nil {
		for name, rule := range parent.GrammarRules {
			out[name] = rule
		}
	}
	for name, rule := range overrides {
		out[name] = rule
	}
	return out
}

func layerLexerMatchers(parent *Dialect, overrides []LexerMatcher) []LexerMatcher {
	byName := make(map[string]LexerMatcher)
	var order []string
	if parent != nil {
		for _, m := range parent.LexerMatchers {
			byName[m.Name] = m
			order = append(order, m.Name)
		}
	}
	for _, m := range overrides {
		if _, exists := byName[m.Name]; !exists {
			order = append(order, m.Name)
		}
		byName[m.Name] = m
	}
	out := make([]LexerMatcher, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out
}

// Get looks up a registered, effective Dialect by name; ok is false when
// no dialect of that name was registered.
func (r *Registry) Get(name string) (*Dialect, bool) {
	d, ok := r.dialects[name]
	return d, ok
}

// Names returns every registered dialect name.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.dialects))
	for n := range r.dialects {
		names = append(names, n)
	}
	return names
}
