// Copyright (c) 2026 Huy Duc Le
// SPDX-License-Identifier: MIT

// Package dict is a Unicode-aware in-memory dictionary index: exact and
// prefix lookup over a red-black-balanced ternary search trie, and
// substring lookup over a generalized Ukkonen suffix tree, both operating
// on NFD-normalized code points so that "e" + combining acute and
// precomposed "é" are always the same key.
//
// Dict is the single front door wiring the three lower layers together
// (see norm, rbmap, tst, and suffixtree for the individual components):
// Put writes through to both indexes, Lookup and PrefixSearch read from
// the trie, and SubstringSearch reads from the suffix tree.
package dict
