package object

import (
	"fmt"
)

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob. Any byte sequence is a
// valid blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// Commit
// ---------------------------------------------------------------------------

// MarshalCommit serializes a commit as its header block and message.
func MarshalCommit(c *Commit) []byte {
	return c.kv.Serialize()
}

// UnmarshalCommit parses a commit payload. The tree header is required;
// everything else, parents included, is optional.
func UnmarshalCommit(data []byte) (*Commit, error) {
	kv, err := ParseKVLM(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal commit: %w", err)
	}
	if _, ok := kv.First("tree"); !ok {
		return nil, fmt.Errorf("unmarshal commit: missing tree header: %w", ErrMalformed)
	}
	return &Commit{kv: kv}, nil
}

// ---------------------------------------------------------------------------
// Tag
// ---------------------------------------------------------------------------

// MarshalTag serializes an annotation as its header block and message.
func MarshalTag(t *Tag) []byte {
	return t.kv.Serialize()
}

// UnmarshalTag parses an annotation payload. The object and tag headers are
// required.
func UnmarshalTag(data []byte) (*Tag, error) {
	kv, err := ParseKVLM(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal tag: %w", err)
	}
	for _, key := range []string{"object", "tag"} {
		if _, ok := kv.First(key); !ok {
			return nil, fmt.Errorf("unmarshal tag: missing %s header: %w", key, ErrMalformed)
		}
	}
	return &Tag{kv: kv}, nil
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

// Unmarshal decodes a payload into the typed object for kind t. A kind
// outside the four known tags is reported as malformed rather than a panic:
// the only way one reaches this function is through an envelope header read
// from disk.
func Unmarshal(t Type, data []byte) (Object, error) {
	switch t {
	case TypeBlob:
		return UnmarshalBlob(data)
	case TypeCommit:
		return UnmarshalCommit(data)
	case TypeTag:
		return UnmarshalTag(data)
	case TypeTree:
		return UnmarshalTree(data)
	}
	return nil, fmt.Errorf("unknown object kind %q: %w", t, ErrMalformed)
}
