// Copyright (c) 2026 Huy Duc Le
// SPDX-License-Identifier: MIT

package rbmap

import (
	"math/rand"
	"slices"
	"testing"
)

func less[T int | int32 | string](a, b T) bool { return a < b }

func TestInsertFindRemove(t *testing.T) {
	tr := New[int, string](less[int])

	if _, ok := tr.Find(1); ok {
		t.Fatalf("empty tree should not find key")
	}

	if !tr.Insert(1, "one") {
		t.Fatalf("insert of new key should report true")
	}
	if tr.Insert(1, "uno") {
		t.Fatalf("insert of duplicate key should report false")
	}
	if v, ok := tr.Find(1); !ok || v != "one" {
		t.Fatalf("duplicate insert must be ignored, got %q", v)
	}

	if !tr.Remove(1) {
		t.Fatalf("remove of present key should report true")
	}
	if tr.Remove(1) {
		t.Fatalf("remove of absent key should report false")
	}
}

func TestAscendingIteration(t *testing.T) {
	tr := New[int, int](less[int])
	want := []int{5, 3, 8, 1, 9, 2, 7, 4, 6, 0}
	for _, k := range want {
		tr.Insert(k, k*k)
	}

	var got []int
	for k := range tr.All() {
		got = append(got, k)
	}

	sorted := slices.Clone(want)
	slices.Sort(sorted)
	if !slices.Equal(got, sorted) {
		t.Fatalf("All() not ascending: got %v, want %v", got, sorted)
	}
}

func TestSet(t *testing.T) {
	tr := New[string, int](less[string])
	tr.Set("a", 1)
	if v, ok := tr.Find("a"); !ok || v != 1 {
		t.Fatalf("Set on missing key = (%d, %v), want (1, true)", v, ok)
	}
	tr.Set("a", 2)
	if v, ok := tr.Find("a"); !ok || v != 2 {
		t.Fatalf("Set on existing key should overwrite, got (%d, %v)", v, ok)
	}
}

func TestGetOrInsert(t *testing.T) {
	tr := New[string, int](less[string])
	v := tr.GetOrInsert("a", 42)
	if v != 42 {
		t.Fatalf("GetOrInsert on missing key = %d, want 42", v)
	}
	v = tr.GetOrInsert("a", 99)
	if v != 42 {
		t.Fatalf("GetOrInsert on existing key = %d, want 42 (unchanged)", v)
	}
}

// checkInvariants walks the tree validating the red-black rules from first
// principles, independent of the tree's own rotation code.
func checkInvariants[K any, V any](t *testing.T, tr *Tree[K, V]) {
	t.Helper()

	if tr.root != nilIdx && tr.nodes[tr.root].color != black {
		t.Fatalf("root is not black")
	}

	var walk func(x int32) (blackHeight int)
	walk = func(x int32) int {
		if x == nilIdx {
			return 1
		}
		if tr.nodes[x].color == red {
			if tr.isRed(tr.nodes[x].left) || tr.isRed(tr.nodes[x].right) {
				t.Fatalf("red node %d has a red child", x)
			}
		}
		lh := walk(tr.nodes[x].left)
		rh := walk(tr.nodes[x].right)
		if lh != rh {
			t.Fatalf("black-height mismatch at node %d: left=%d right=%d", x, lh, rh)
		}
		if tr.nodes[x].color == black {
			lh++
		}
		return lh
	}
	walk(tr.root)
}

func TestRandomizedInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tr := New[int, int](less[int])
	reference := map[int]int{}

	for i := 0; i < 20000; i++ {
		k := rng.Intn(500)
		if rng.Intn(3) == 0 {
			tr.Remove(k)
			delete(reference, k)
		} else {
			if _, exists := reference[k]; !exists {
				reference[k] = k * 2
			}
			tr.Insert(k, k*2)
		}
		if i%500 == 0 {
			checkInvariants(t, tr)
		}
	}
	checkInvariants(t, tr)

	if tr.Size() != len(reference) {
		t.Fatalf("Size() = %d, want %d", tr.Size(), len(reference))
	}
	for k, v := range reference {
		got, ok := tr.Find(k)
		if !ok || got != v {
			t.Fatalf("Find(%d) = (%d, %v), want (%d, true)", k, got, ok, v)
		}
	}
}

func TestRandomizedAgainstReferenceOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	tr := New[int32, int32](less[int32])
	seen := map[int32]bool{}
	var keys []int32

	for i := 0; i < 10000; i++ {
		k := rng.Int31()
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
		tr.Insert(k, k)
	}

	slices.Sort(keys)

	var got []int32
	for k := range tr.All() {
		got = append(got, k)
	}

	if !slices.Equal(got, keys) {
		t.Fatalf("iteration order diverges from sorted reference")
	}
}
