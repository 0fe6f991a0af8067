package repo

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/gritvcs/grit/pkg/object"
)

// Index file layout: 4-byte magic, 4-byte big-endian version, 4-byte
// big-endian entry count, then entries of {8-byte big-endian mtime seconds,
// 20 raw digest bytes, 8-byte big-endian size, 2-byte big-endian path
// length, UTF-8 path}.
var indexMagic = []byte("DIRC")

const indexVersion = 2

const indexEntryFixedLen = 8 + 20 + 8 + 2

// ErrCorruptIndex reports an index file whose magic, version or entry
// structure cannot be read. The file is rejected whole; no repair is
// attempted.
var ErrCorruptIndex = errors.New("corrupt index")

// IndexEntry records one staged file.
type IndexEntry struct {
	MTime int64       // modification time, seconds since epoch
	Hash  object.Hash // digest of the staged blob
	Size  uint64      // file size in bytes
	Path  string      // absolute path of the staged file
}

// Index is the staging area: an ordered entry list, read whole and rewritten
// whole on every mutation.
type Index struct {
	Entries []IndexEntry
}

// Set replaces the entry for e.Path or appends e when the path is new.
func (idx *Index) Set(e IndexEntry) {
	for i := range idx.Entries {
		if idx.Entries[i].Path == e.Path {
			idx.Entries[i] = e
			return
		}
	}
	idx.Entries = append(idx.Entries, e)
}

// Lookup returns the entry staged for path.
func (idx *Index) Lookup(path string) (IndexEntry, bool) {
	for _, e := range idx.Entries {
		if e.Path == path {
			return e, true
		}
	}
	return IndexEntry{}, false
}

// ReadIndex loads the staging area. A repository that has never staged
// anything has no index file, which reads as an empty index.
func (r *Repo) ReadIndex() (*Index, error) {
	if !r.meta.Exists("index") {
		return &Index{}, nil
	}
	rc, err := r.meta.Open("index")
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	idx, err := parseIndex(data)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	return idx, nil
}

func parseIndex(data []byte) (*Index, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("header truncated: %w", ErrCorruptIndex)
	}
	if !bytes.Equal(data[:4], indexMagic) {
		return nil, fmt.Errorf("bad magic %q: %w", data[:4], ErrCorruptIndex)
	}
	if v := binary.BigEndian.Uint32(data[4:8]); v != indexVersion {
		return nil, fmt.Errorf("unsupported version %d: %w", v, ErrCorruptIndex)
	}
	count := binary.BigEndian.Uint32(data[8:12])

	idx := &Index{}
	pos := 12
	for i := uint32(0); i < count; i++ {
		entry, next, err := parseIndexEntry(data, pos)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		idx.Entries = append(idx.Entries, entry)
		pos = next
	}
	// Bytes past the declared count are ignored.
	return idx, nil
}

func parseIndexEntry(data []byte, pos int) (IndexEntry, int, error) {
	if pos+indexEntryFixedLen > len(data) {
		return IndexEntry{}, 0, fmt.Errorf("fixed fields truncated: %w", ErrCorruptIndex)
	}
	mtime := binary.BigEndian.Uint64(data[pos:])
	digest := hex.EncodeToString(data[pos+8 : pos+28])
	size := binary.BigEndian.Uint64(data[pos+28:])
	pathLen := int(binary.BigEndian.Uint16(data[pos+36:]))

	start := pos + indexEntryFixedLen
	if start+pathLen > len(data) {
		return IndexEntry{}, 0, fmt.Errorf("path truncated: %w", ErrCorruptIndex)
	}
	pathBytes := data[start : start+pathLen]
	if !utf8.Valid(pathBytes) {
		return IndexEntry{}, 0, fmt.Errorf("path is not valid UTF-8: %w", ErrCorruptIndex)
	}

	return IndexEntry{
		MTime: int64(mtime),
		Hash:  object.Hash(digest),
		Size:  size,
		Path:  string(pathBytes),
	}, start + pathLen, nil
}

// WriteIndex replaces the staging file with the given entries.
func (r *Repo) WriteIndex(idx *Index) error {
	data, err := serializeIndex(idx)
	if err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	if err := r.writeMetaFile(data, "index"); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

func serializeIndex(idx *Index) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(indexMagic)

	var u16 [2]byte
	var u32 [4]byte
	var u64 [8]byte

	binary.BigEndian.PutUint32(u32[:], indexVersion)
	buf.Write(u32[:])
	binary.BigEndian.PutUint32(u32[:], uint32(len(idx.Entries)))
	buf.Write(u32[:])

	for _, e := range idx.Entries {
		if !e.Hash.Valid() {
			return nil, fmt.Errorf("entry %q has digest %q", e.Path, e.Hash)
		}
		if len(e.Path) > int(^uint16(0)) {
			return nil, fmt.Errorf("entry path longer than %d bytes", ^uint16(0))
		}

		binary.BigEndian.PutUint64(u64[:], uint64(e.MTime))
		buf.Write(u64[:])
		buf.Write(e.Hash.Raw())
		binary.BigEndian.PutUint64(u64[:], e.Size)
		buf.Write(u64[:])
		binary.BigEndian.PutUint16(u16[:], uint16(len(e.Path)))
		buf.Write(u16[:])
		buf.WriteString(e.Path)
	}
	return buf.Bytes(), nil
}
