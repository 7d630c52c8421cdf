// Copyright (c) 2026 Huy Duc Le
// SPDX-License-Identifier: MIT

package suffixtree

import (
	"bufio"
	"encoding/binary"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehuyduc/vndict/rbmap"
)

// Serialize writes the tree's full state — text buffer, satellite
// records, node arena, and active-point builder state — to three sibling
// files under dir: <name>.text, <name>.sate, <name>.tree. All integers are
// little-endian, fixed-width (int32 for counts/offsets, uint32 for code
// points). It returns false (and logs the cause) on any I/O failure,
// including dir existing as a non-directory path.
func (t *Tree) Serialize(dir, name string) bool {
	if info, err := os.Stat(dir); err != nil {
		if !os.IsNotExist(err) {
			slog.Error("suffixtree: stat directory", "dir", dir, "err", err)
			return false
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Error("suffixtree: create directory", "dir", dir, "err", err)
			return false
		}
	} else if !info.IsDir() {
		slog.Error("suffixtree: path exists and is not a directory", "dir", dir)
		return false
	}

	if err := t.writeText(filepath.Join(dir, name+".text")); err != nil {
		slog.Error("suffixtree: write text file", "err", err)
		return false
	}
	if err := t.writeSatellites(filepath.Join(dir, name+".sate")); err != nil {
		slog.Error("suffixtree: write satellite file", "err", err)
		return false
	}
	if err := t.writeTree(filepath.Join(dir, name+".tree")); err != nil {
		slog.Error("suffixtree: write tree file", "err", err)
		return false
	}
	return true
}

func (t *Tree) writeText(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	if err := binary.Write(w, binary.LittleEndian, int32(len(t.text))); err != nil {
		return err
	}
	for _, c := range t.text {
		if err := binary.Write(w, binary.LittleEndian, uint32(c)); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (t *Tree) writeSatellites(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	if err := binary.Write(w, binary.LittleEndian, int32(len(t.satellites))); err != nil {
		return err
	}
	for _, sat := range t.satellites {
		data := []byte(sat.data)
		if err := binary.Write(w, binary.LittleEndian, int32(len(data))); err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, sat.keyLen); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, sat.keyPos); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (t *Tree) writeTree(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	header := []int32{t.root, t.needSL, t.remainder, t.activeNode, t.activeEdge, t.activeLength}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	if err := binary.Write(w, binary.LittleEndian, int32(len(t.nodes))); err != nil {
		return err
	}
	for i := range t.nodes {
		n := &t.nodes[i]
		if err := binary.Write(w, binary.LittleEndian, n.start); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, n.end); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, n.link); err != nil {
			return err
		}

		mapSize := int32(0)
		if n.next != nil {
			for range n.next.All() {
				mapSize++
			}
		}
		if err := binary.Write(w, binary.LittleEndian, mapSize); err != nil {
			return err
		}
		if n.next != nil {
			for cp, child := range n.next.All() {
				if err := binary.Write(w, binary.LittleEndian, uint32(cp)); err != nil {
					return err
				}
				if err := binary.Write(w, binary.LittleEndian, child); err != nil {
					return err
				}
			}
		}
	}

	return w.Flush()
}

// Deserialize replaces the tree's state by reading the three files written
// by Serialize. It returns false if any file is missing or malformed.
func (t *Tree) Deserialize(dir, name string) bool {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		slog.Error("suffixtree: directory unavailable", "dir", dir)
		return false
	}

	text, err := readText(filepath.Join(dir, name+".text"))
	if err != nil {
		slog.Error("suffixtree: read text file", "err", err)
		return false
	}
	sats, err := readSatellites(filepath.Join(dir, name+".sate"))
	if err != nil {
		slog.Error("suffixtree: read satellite file", "err", err)
		return false
	}
	nodes, root, needSL, remainder, activeNode, activeEdge, activeLength, err :=
		readTree(filepath.Join(dir, name+".tree"))
	if err != nil {
		slog.Error("suffixtree: read tree file", "err", err)
		return false
	}

	t.text = text
	t.satellites = sats
	t.nodes = nodes
	t.root = root
	t.needSL = needSL
	t.remainder = remainder
	t.activeNode = activeNode
	t.activeEdge = activeEdge
	t.activeLength = activeLength
	return true
}

func readText(path string) ([]rune, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var size int32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	text := make([]rune, size)
	for i := range text {
		var cp uint32
		if err := binary.Read(r, binary.LittleEndian, &cp); err != nil {
			return nil, err
		}
		text[i] = rune(cp)
	}
	return text, nil
}

func readSatellites(path string) ([]satellite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var cnt int32
	if err := binary.Read(r, binary.LittleEndian, &cnt); err != nil {
		return nil, err
	}
	sats := make([]satellite, cnt)
	for i := range sats {
		var dataSize int32
		if err := binary.Read(r, binary.LittleEndian, &dataSize); err != nil {
			return nil, err
		}
		data := make([]byte, dataSize)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, err
		}
		sats[i].data = string(data)
		if err := binary.Read(r, binary.LittleEndian, &sats[i].keyLen); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &sats[i].keyPos); err != nil {
			return nil, err
		}
	}
	return sats, nil
}

func readTree(path string) (nodes []node, root, needSL, remainder, activeNode, activeEdge, activeLength int32, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, 0, 0, 0, 0, err
	}
	defer f.Close()
	r := bufio.NewReader(f)

	header := make([]*int32, 6)
	header[0], header[1], header[2] = &root, &needSL, &remainder
	header[3], header[4], header[5] = &activeNode, &activeEdge, &activeLength
	for _, h := range header {
		if err := binary.Read(r, binary.LittleEndian, h); err != nil {
			return nil, 0, 0, 0, 0, 0, 0, err
		}
	}

	var treeSize int32
	if err := binary.Read(r, binary.LittleEndian, &treeSize); err != nil {
		return nil, 0, 0, 0, 0, 0, 0, err
	}

	nodes = make([]node, treeSize)
	for i := range nodes {
		n := &nodes[i]
		if err := binary.Read(r, binary.LittleEndian, &n.start); err != nil {
			return nil, 0, 0, 0, 0, 0, 0, err
		}
		if err := binary.Read(r, binary.LittleEndian, &n.end); err != nil {
			return nil, 0, 0, 0, 0, 0, 0, err
		}
		if err := binary.Read(r, binary.LittleEndian, &n.link); err != nil {
			return nil, 0, 0, 0, 0, 0, 0, err
		}

		var mapSize int32
		if err := binary.Read(r, binary.LittleEndian, &mapSize); err != nil {
			return nil, 0, 0, 0, 0, 0, 0, err
		}
		for j := int32(0); j < mapSize; j++ {
			var cp uint32
			var child int32
			if err := binary.Read(r, binary.LittleEndian, &cp); err != nil {
				return nil, 0, 0, 0, 0, 0, 0, err
			}
			if err := binary.Read(r, binary.LittleEndian, &child); err != nil {
				return nil, 0, 0, 0, 0, 0, 0, err
			}
			if n.next == nil {
				n.next = rbmap.New[rune, int32](runeLess)
			}
			n.next.Set(rune(cp), child)
		}
	}

	return nodes, root, needSL, remainder, activeNode, activeEdge, activeLength, nil
}
