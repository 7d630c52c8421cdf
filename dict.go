// Copyright (c) 2026 Huy Duc Le
// SPDX-License-Identifier: MIT

package dict

import (
	"errors"

	"github.com/lehuyduc/vndict/norm"
	"github.com/lehuyduc/vndict/suffixtree"
	"github.com/lehuyduc/vndict/tst"
)

// ErrInvalidUTF8 is returned by Put when key is not well-formed UTF-8.
var ErrInvalidUTF8 = errors.New("dict: invalid UTF-8 key")

// ErrEmptyKey is returned by Put when key is empty.
var ErrEmptyKey = errors.New("dict: empty key")

// KeyValue re-exports suffixtree.KeyValue for callers of SubstringSearch.
type KeyValue = suffixtree.KeyValue

// Dict is a Unicode dictionary: exact/prefix lookup via an RB-balanced
// ternary search trie, substring lookup via a generalized suffix tree. Put
// writes through to both; Remove only affects the trie, since Ukkonen's
// online construction defines no deletion.
//
// Single-threaded, synchronous, like its component indexes: a Dict shared
// across goroutines needs external locking.
type Dict struct {
	trie   *tst.Tree
	suffix *suffixtree.Tree
}

// New returns an empty Dict.
func New() *Dict {
	return &Dict{
		trie:   tst.New(),
		suffix: suffixtree.New(),
	}
}

// Put associates value with key in both indexes. An empty or
// invalid-UTF-8 key leaves the Dict unchanged and returns the matching
// sentinel error. A key that already exists has its value overwritten in
// the trie. The suffix index only appends: it is not updated for an
// existing key, so SubstringSearch can still report the earlier value.
func (d *Dict) Put(key, value string) error {
	if _, err := norm.ToCodepoints(key); err != nil {
		return ErrInvalidUTF8
	}
	if key == "" {
		return ErrEmptyKey
	}

	d.trie.Insert(key, value)
	d.suffix.Add(key, value)
	return nil
}

// Lookup performs an exact search for key, reporting whether it is
// present.
func (d *Dict) Lookup(key string) (string, bool) {
	v, res := d.trie.Search(key)
	return v, res == tst.Found
}

// PrefixSearch returns every stored key that has prefix as a prefix, in
// ascending order.
func (d *Dict) PrefixSearch(prefix string) []string {
	return d.trie.PrefixSearch(prefix)
}

// SubstringSearch returns every distinct (key, value) pair whose key
// contains substr anywhere.
func (d *Dict) SubstringSearch(substr string) []KeyValue {
	return d.suffix.Find(substr)
}

// Remove deletes key from the exact/prefix index. The suffix index is left
// untouched: Ukkonen's online construction has no standard deletion rule,
// so a removed key's substrings remain findable via SubstringSearch. This
// asymmetry is inherited from the underlying algorithm, not a missing
// feature.
func (d *Dict) Remove(key string) bool {
	return d.trie.Remove(key)
}

// SaveSuffixIndex persists the substring index to dir/name.{text,sate,tree}.
func (d *Dict) SaveSuffixIndex(dir, name string) bool {
	return d.suffix.Serialize(dir, name)
}

// LoadSuffixIndex replaces the substring index with one reloaded from
// dir/name.{text,sate,tree}. The exact/prefix index is unaffected.
func (d *Dict) LoadSuffixIndex(dir, name string) bool {
	return d.suffix.Deserialize(dir, name)
}
