// Copyright (c) 2026 Huy Duc Le
// SPDX-License-Identifier: MIT

// Package suffixtree implements a generalized suffix tree over a
// concatenated, multi-document Unicode text buffer, built online with
// Ukkonen's algorithm and extended with per-document satellite records so
// that a substring query can report which stored key (and value) it came
// from.
//
// The tree is "generalized" in the classic sense: each call to Add appends
// one more document's code points (terminated by a sentinel that cannot
// occur in real text) to a single shared text buffer, letting suffixes from
// every document interleave in one tree. A leaf's ordinarily-unused suffix
// link slot is overloaded to carry the index of the satellite record it
// belongs to, encoded as a non-positive integer so it can never be confused
// with a real (positive) suffix link.
//
// Edge-label dispatch at each internal node is itself an ordered map
// (code point -> child index), backed by this module's own generic
// red-black map, the rbmap package.
package suffixtree

import (
	"math"

	"github.com/lehuyduc/vndict/norm"
	"github.com/lehuyduc/vndict/rbmap"
)

// sentinel terminates every document's code-point run in the shared text
// buffer. U+FFFF is a Unicode non-character that NFD normalization never
// produces from other text. Add does not reject it, so a key that itself
// contains U+FFFF collides with the sentinel.
const sentinel rune = '￿'

// ooEnd marks a leaf's open-ended edge: its right boundary tracks the
// current length of the text buffer rather than a fixed offset.
const ooEnd int32 = math.MaxInt32

func runeLess(a, b rune) bool { return a < b }

// node is one arena-resident suffix-tree node. Index 0 is the root itself
// (unlike rbmap/tst, a suffix tree has no need for a reserved NIL index:
// "no such child" is represented by absence from next, not by a sentinel
// index).
type node struct {
	start, end int32
	link       int32 // >0: suffix link target; <=0: leaf satellite index as -link
	next       *rbmap.Tree[rune, int32]
}

func (n *node) edgeLength(pos int32) int32 {
	e := n.end
	if pos+1 < e {
		e = pos + 1
	}
	return e - n.start
}

func (n *node) isLeaf() bool { return n.end == ooEnd }

type satellite struct {
	data   string
	keyLen int32
	keyPos int32
}

// KeyValue is one match returned by Find: the full stored key that a
// matched substring occurs in, and the value it was inserted with.
type KeyValue struct {
	Key   string
	Value string
}

// Tree is a generalized suffix tree. The zero value is not ready to use;
// construct one with New.
type Tree struct {
	text       []rune
	nodes      []node
	satellites []satellite

	root   int32
	needSL int32

	remainder                            int32
	activeNode, activeEdge, activeLength int32
}

// New returns an empty Tree.
func New() *Tree {
	t := &Tree{}
	t.root = t.newNode(-1, -1, 0)
	t.activeNode = t.root
	return t
}

func (t *Tree) newNode(start, end, satelliteLink int32) int32 {
	t.nodes = append(t.nodes, node{start: start, end: end, link: -satelliteLink})
	return int32(len(t.nodes) - 1)
}

func (t *Tree) childOf(n int32, c rune) (int32, bool) {
	next := t.nodes[n].next
	if next == nil {
		return 0, false
	}
	return next.Find(c)
}

func (t *Tree) setChild(n int32, c rune, child int32) {
	if t.nodes[n].next == nil {
		t.nodes[n].next = rbmap.New[rune, int32](runeLess)
	}
	t.nodes[n].next.Set(c, child)
}

func (t *Tree) activeEdgeChar() rune {
	return t.text[t.activeEdge]
}

// addLink implements Rule 2: link a still-pending internal node to node,
// then remember node itself in case a subsequent step needs to link to it.
func (t *Tree) addLink(n int32) {
	if t.needSL > 0 {
		t.nodes[t.needSL].link = n
	}
	t.needSL = n
}

// walkDown implements Observation 2: skip down an edge whose full length
// the active point has already consumed.
func (t *Tree) walkDown(n int32) bool {
	length := t.nodes[n].edgeLength(int32(len(t.text)) - 1)
	if t.activeLength >= length {
		t.activeEdge += length
		t.activeLength -= length
		t.activeNode = n
		return true
	}
	return false
}

// Extend runs one step of Ukkonen's online construction, appending c to the
// text buffer and tying any newly created leaves to satelliteLink.
func (t *Tree) Extend(c rune, satelliteLink int32) {
	t.text = append(t.text, c)
	t.needSL = 0
	t.remainder++

	for t.remainder > 0 {
		if t.activeLength == 0 {
			t.activeEdge = int32(len(t.text)) - 1
		}

		edgeChar := t.activeEdgeChar()
		next, exists := t.childOf(t.activeNode, edgeChar)

		if !exists {
			leaf := t.newNode(int32(len(t.text))-1, ooEnd, satelliteLink)
			t.setChild(t.activeNode, edgeChar, leaf)
			t.addLink(t.activeNode)
		} else {
			if t.walkDown(next) {
				continue
			}
			if t.text[t.nodes[next].start+t.activeLength] == c {
				t.activeLength++
				t.addLink(t.activeNode)
				break
			}

			split := t.newNode(t.nodes[next].start, t.nodes[next].start+t.activeLength, 0)
			t.setChild(t.activeNode, edgeChar, split)
			leaf := t.newNode(int32(len(t.text))-1, ooEnd, satelliteLink)
			t.setChild(split, c, leaf)
			t.nodes[next].start += t.activeLength
			t.setChild(split, t.text[t.nodes[next].start], next)
			t.addLink(split)
		}

		t.remainder--
		if t.activeNode == t.root && t.activeLength > 0 {
			t.activeLength--
			t.activeEdge = int32(len(t.text)) - t.remainder
		} else if t.nodes[t.activeNode].link > 0 {
			t.activeNode = t.nodes[t.activeNode].link
		} else {
			t.activeNode = t.root
		}
	}
}

// Add indexes key, associating it with value. It appends key's NFD code
// points followed by the sentinel to the shared text buffer and runs
// Extend for each. Empty or invalid-UTF-8 keys are silently ignored.
func (t *Tree) Add(key, value string) bool {
	cps, err := norm.ToCodepoints(key)
	if err != nil || len(cps) == 0 {
		return false
	}

	t.satellites = append(t.satellites, satellite{
		data:   value,
		keyLen: int32(len(cps)),
		keyPos: int32(len(t.text)),
	})
	satIdx := int32(len(t.satellites) - 1)

	for _, c := range cps {
		t.Extend(c, satIdx)
	}
	t.Extend(sentinel, satIdx)
	return true
}

// descend walks from the root matching cps against edge labels, returning
// the node reached and whether every code point matched.
func (t *Tree) descend(cps []rune) (int32, bool) {
	curNode := t.root
	curLength := int32(0)
	pos := int32(len(t.text)) - 1

	for _, c := range cps {
		if curLength == t.nodes[curNode].edgeLength(pos) {
			child, ok := t.childOf(curNode, c)
			if !ok {
				return 0, false
			}
			curNode = child
			curLength = 1
		} else if c == t.text[t.nodes[curNode].start+curLength] {
			curLength++
		} else {
			return 0, false
		}
	}
	return curNode, true
}

// Contain reports whether s occurs anywhere in the indexed text (as a
// substring of the concatenated corpus, not necessarily a full key).
func (t *Tree) Contain(s string) bool {
	cps, err := norm.ToCodepoints(s)
	if err != nil || len(cps) == 0 {
		return false
	}
	_, ok := t.descend(cps)
	return ok
}

// collect performs an iterative depth-first walk of the subtree rooted at
// start, reporting one KeyValue per distinct satellite record reached
// through a leaf beneath it, in ascending child order. It marks each
// satellite it reports (keyPos := -(keyPos+1)) and returns the list of
// marked indices so the caller can restore them afterward.
func (t *Tree) collect(start int32) ([]KeyValue, []int32) {
	var results []KeyValue
	var marked []int32

	stack := []int32{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if t.nodes[n].isLeaf() {
			satIdx := -t.nodes[n].link
			sat := &t.satellites[satIdx]
			if sat.keyPos >= 0 {
				key := t.extractKey(sat)
				results = append(results, KeyValue{Key: key, Value: sat.data})
				sat.keyPos = -sat.keyPos - 1
				marked = append(marked, satIdx)
			}
			continue
		}

		next := t.nodes[n].next
		if next == nil {
			continue
		}
		var children []int32
		for _, child := range next.All() {
			children = append(children, child)
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	return results, marked
}

func (t *Tree) extractKey(sat *satellite) string {
	cps := t.text[sat.keyPos : sat.keyPos+sat.keyLen]
	return norm.ToOutputBytes(cps)
}

// Find returns every distinct (key, value) pair whose stored key contains
// substr, deduplicated so that a key with many matching suffixes is
// reported once. Empty, invalid-UTF-8, or unmatched input yields nil.
func (t *Tree) Find(substr string) []KeyValue {
	cps, err := norm.ToCodepoints(substr)
	if err != nil || len(cps) == 0 {
		return nil
	}

	matchNode, ok := t.descend(cps)
	if !ok {
		return nil
	}

	results, marked := t.collect(matchNode)
	for _, i := range marked {
		t.satellites[i].keyPos = -(t.satellites[i].keyPos + 1)
	}
	return results
}

// List returns every suffix of the indexed text, NFC-composed, as a debug
// aid. Built with an explicit stack rather than recursion so it tolerates
// arbitrarily long corpora.
func (t *Tree) List() []string {
	var results []string

	type frame struct {
		node int32
		buf  []rune
	}
	stack := []frame{{t.root, nil}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[f.node]
		var end int32
		if n.isLeaf() {
			end = int32(len(t.text))
		} else {
			end = n.end
		}
		buf := append([]rune(nil), f.buf...)
		if f.node != t.root {
			buf = append(buf, t.text[n.start:end]...)
		}

		if n.isLeaf() {
			results = append(results, norm.ToOutputBytes(buf))
			continue
		}

		if n.next == nil {
			continue
		}
		var children []int32
		for _, child := range n.next.All() {
			children = append(children, child)
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{children[i], buf})
		}
	}

	return results
}

// Validate confirms every suffix of the indexed text is found by Contain,
// a self-consistency check exercising the whole tree.
func (t *Tree) Validate() bool {
	for i := range t.text {
		if !t.containCps(t.text[i:]) {
			return false
		}
	}
	return true
}

func (t *Tree) containCps(cps []rune) bool {
	_, ok := t.descend(cps)
	return ok
}

// Count returns the length of the shared text buffer, in code points.
func (t *Tree) Count() int {
	return len(t.text)
}

// Size returns the number of nodes in the tree's arena.
func (t *Tree) Size() int {
	return len(t.nodes)
}
