package object

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Tree mode tags, normalized to six digits. The leading digit group selects
// the kind of object behind the entry: 04 tree, 10 and 12 blob, 16 commit.
const (
	ModeDir        = "040000"
	ModeFile       = "100644"
	ModeExecutable = "100755"
	ModeSymlink    = "120000"
	ModeSubmodule  = "160000"
)

// TreeEntry names one child of a directory snapshot.
type TreeEntry struct {
	Mode string // six-digit tag; five-digit input is zero-padded on decode
	Path string // path segment relative to the containing tree
	Hash Hash   // digest of the child object
}

// Tree is a directory snapshot: a list of entries. Marshal sorts the entries,
// so two trees describing the same directory serialize to the same bytes and
// hash to the same digest.
type Tree struct {
	Entries []TreeEntry
}

func (t *Tree) Type() Type { return TypeTree }

func (t *Tree) Marshal() []byte { return MarshalTree(t) }

// KindForMode maps a tree entry mode tag to the object kind expected behind
// it. Tags outside the known groups are a decode error.
func KindForMode(mode string) (Type, error) {
	m := normalizeMode(mode)
	if len(m) != 6 {
		return "", fmt.Errorf("tree entry mode %q: %w", mode, ErrMalformed)
	}
	switch m[:2] {
	case "04":
		return TypeTree, nil
	case "10", "12":
		return TypeBlob, nil
	case "16":
		return TypeCommit, nil
	}
	return "", fmt.Errorf("tree entry mode %q: %w", mode, ErrMalformed)
}

func normalizeMode(mode string) string {
	if len(mode) == 5 {
		return "0" + mode
	}
	return mode
}

// sortKey orders entries the way the digest requires: anything that is not a
// plain file compares as if its name ended in a separator, so the tree "sub"
// sorts after the file "sub.go" instead of before it.
func (e TreeEntry) sortKey() string {
	if strings.HasPrefix(normalizeMode(e.Mode), "10") {
		return e.Path
	}
	return e.Path + "/"
}

// MarshalTree serializes a tree: entries sorted by sortKey, each encoded as
// "mode SP path NUL" followed by the 20 raw digest bytes. The output is
// deterministic, which makes tree digests reproducible.
func MarshalTree(t *Tree) []byte {
	sorted := make([]TreeEntry, len(t.Entries))
	copy(sorted, t.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].sortKey() < sorted[j].sortKey()
	})

	var buf bytes.Buffer
	for _, e := range sorted {
		buf.WriteString(normalizeMode(e.Mode))
		buf.WriteByte(' ')
		buf.WriteString(e.Path)
		buf.WriteByte(0)
		buf.Write(e.Hash.Raw())
	}
	return buf.Bytes()
}

// UnmarshalTree parses a serialized tree. The digest field is fixed-width,
// so entries are consumed back to back until the buffer is exhausted.
func UnmarshalTree(data []byte) (*Tree, error) {
	t := &Tree{}
	pos := 0
	for pos < len(data) {
		entry, next, err := parseTreeEntry(data, pos)
		if err != nil {
			return nil, err
		}
		t.Entries = append(t.Entries, entry)
		pos = next
	}
	return t, nil
}

func parseTreeEntry(data []byte, pos int) (TreeEntry, int, error) {
	sp := bytes.IndexByte(data[pos:], ' ')
	if sp < 0 {
		return TreeEntry{}, 0, fmt.Errorf("tree entry at offset %d has no mode terminator: %w", pos, ErrMalformed)
	}
	mode := normalizeMode(string(data[pos : pos+sp]))
	if _, err := KindForMode(mode); err != nil {
		return TreeEntry{}, 0, err
	}

	rest := data[pos+sp+1:]
	nul := bytes.IndexByte(rest, 0)
	if nul < 0 {
		return TreeEntry{}, 0, fmt.Errorf("tree entry at offset %d has no path terminator: %w", pos, ErrMalformed)
	}
	path := string(rest[:nul])

	digestStart := pos + sp + 1 + nul + 1
	if digestStart+rawDigestLen > len(data) {
		return TreeEntry{}, 0, fmt.Errorf("tree entry %q is missing digest bytes: %w", path, ErrMalformed)
	}
	h := Hash(hex.EncodeToString(data[digestStart : digestStart+rawDigestLen]))

	return TreeEntry{Mode: mode, Path: path, Hash: h}, digestStart + rawDigestLen, nil
}
