package object

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/klauspost/compress/zlib"
	log "github.com/sirupsen/logrus"
)

// Backend is the slice of repository storage the store needs: path
// computation under the metadata directory, existence checks, opening files
// for read, creating them (parents included) for write, and listing one
// directory level. Create must hand back a writer whose Close makes the file
// visible atomically. List returns nil for a directory that does not exist.
type Backend interface {
	Path(parts ...string) string
	Exists(parts ...string) bool
	Open(parts ...string) (io.ReadCloser, error)
	Create(parts ...string) (io.WriteCloser, error)
	List(parts ...string) ([]string, error)
}

// Objects never change once written, so cached reads are never invalidated.
const readCacheSize = 512

type cachedObject struct {
	kind    Type
	payload []byte
}

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123... Payloads are wrapped in the
// envelope "kind len\x00payload" and zlib-compressed on disk; the digest is
// computed over the uncompressed envelope.
type Store struct {
	fs    Backend
	cache *simplelru.LRU[Hash, cachedObject]
}

// NewStore creates a Store over the given backend. The objects/ fan-out
// directories are created lazily on first write.
func NewStore(fs Backend) *Store {
	cache, err := simplelru.NewLRU[Hash, cachedObject](readCacheSize, nil)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(err)
	}
	return &Store{fs: fs, cache: cache}
}

// Has reports whether the store contains an object with the given digest.
func (s *Store) Has(h Hash) bool {
	if s.cache.Contains(h) {
		return true
	}
	return s.fs.Exists("objects", string(h[:2]), string(h[2:]))
}

// Write stores a payload under the given kind and returns its digest.
// Identical payloads land at identical paths, so writing an object that
// already exists is a no-op. Kind must be one of the four known tags;
// anything else is a programmer error and panics.
func (s *Store) Write(t Type, payload []byte) (Hash, error) {
	if !t.known() {
		panic(fmt.Sprintf("object: write of unrecognized kind %q", t))
	}

	h := ComputeHash(t, payload)
	if s.Has(h) {
		return h, nil
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := fmt.Fprintf(zw, "%s %d\x00", t, len(payload)); err != nil {
		return "", fmt.Errorf("write object %s: %w", h, err)
	}
	if _, err := zw.Write(payload); err != nil {
		return "", fmt.Errorf("write object %s: %w", h, err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("write object %s: %w", h, err)
	}

	w, err := s.fs.Create("objects", string(h[:2]), string(h[2:]))
	if err != nil {
		return "", fmt.Errorf("write object %s: %w", h, err)
	}
	if _, err := w.Write(compressed.Bytes()); err != nil {
		w.Close()
		return "", fmt.Errorf("write object %s: %w", h, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("write object %s: %w", h, err)
	}

	s.cacheAdd(h, t, payload)
	log.Debugf("stored %s %s (%d bytes)", t, h, len(payload))
	return h, nil
}

// Read loads the object behind h, returning its kind and payload. A digest
// with no file behind it is ErrNotFound; an envelope whose header or length
// does not parse is ErrMalformed.
func (s *Store) Read(h Hash) (Type, []byte, error) {
	if obj, ok := s.cache.Get(h); ok {
		out := make([]byte, len(obj.payload))
		copy(out, obj.payload)
		return obj.kind, out, nil
	}

	if !s.Has(h) {
		return "", nil, fmt.Errorf("object %s: %w", h, ErrNotFound)
	}

	rc, err := s.fs.Open("objects", string(h[:2]), string(h[2:]))
	if err != nil {
		return "", nil, fmt.Errorf("read object %s: %w", h, err)
	}
	defer rc.Close()

	zr, err := zlib.NewReader(rc)
	if err != nil {
		return "", nil, fmt.Errorf("read object %s: decompress: %w", h, err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		zr.Close()
		return "", nil, fmt.Errorf("read object %s: decompress: %w", h, err)
	}
	if err := zr.Close(); err != nil {
		return "", nil, fmt.Errorf("read object %s: decompress: %w", h, err)
	}

	t, payload, err := splitEnvelope(h, raw)
	if err != nil {
		return "", nil, err
	}
	s.cacheAdd(h, t, payload)
	return t, payload, nil
}

// ReadKind returns just the kind tag of the object behind h.
func (s *Store) ReadKind(h Hash) (Type, error) {
	t, _, err := s.Read(h)
	return t, err
}

// FindByPrefix returns the digests of every stored object whose hex form
// starts with prefix, in lexicographic order. The prefix must carry at least
// the two fan-out characters; matching across fan-out directories would
// require scanning all of them.
func (s *Store) FindByPrefix(prefix string) ([]Hash, error) {
	prefix = strings.ToLower(prefix)
	if len(prefix) < 2 {
		return nil, fmt.Errorf("object prefix %q is shorter than the fan-out directory", prefix)
	}

	names, err := s.fs.List("objects", prefix[:2])
	if err != nil {
		return nil, fmt.Errorf("scan objects/%s: %w", prefix[:2], err)
	}

	var out []Hash
	for _, name := range names {
		if !strings.HasPrefix(name, prefix[2:]) {
			continue
		}
		h := Hash(prefix[:2] + name)
		// Skip stray temp files and anything else that is not a digest.
		if h.Valid() {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *Store) cacheAdd(h Hash, t Type, payload []byte) {
	owned := make([]byte, len(payload))
	copy(owned, payload)
	s.cache.Add(h, cachedObject{kind: t, payload: owned})
}

// splitEnvelope validates and splits "kind len\x00payload".
func splitEnvelope(h Hash, raw []byte) (Type, []byte, error) {
	nul := bytes.IndexByte(raw, 0)
	if nul < 0 {
		return "", nil, fmt.Errorf("object %s: envelope has no NUL terminator: %w", h, ErrMalformed)
	}
	header := string(raw[:nul])
	payload := raw[nul+1:]

	kind, lenField, ok := strings.Cut(header, " ")
	if !ok {
		return "", nil, fmt.Errorf("object %s: envelope header %q has no space: %w", h, header, ErrMalformed)
	}
	length, err := strconv.Atoi(lenField)
	if err != nil {
		return "", nil, fmt.Errorf("object %s: envelope length %q: %w", h, lenField, ErrMalformed)
	}
	if length != len(payload) {
		return "", nil, fmt.Errorf("object %s: envelope declares %d bytes, payload has %d: %w", h, length, len(payload), ErrMalformed)
	}
	return Type(kind), payload, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteObject serializes and stores any object.
func (s *Store) WriteObject(obj Object) (Hash, error) {
	return s.Write(obj.Type(), obj.Marshal())
}

// ReadObject reads the object behind h and decodes it by its stored kind.
func (s *Store) ReadObject(h Hash) (Object, error) {
	t, payload, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	return Unmarshal(t, payload)
}

func (s *Store) readExpecting(h Hash, want Type) ([]byte, error) {
	t, payload, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if t != want {
		return nil, &KindMismatchError{Hash: h, Want: want, Got: t}
	}
	return payload, nil
}

// WriteBlob serializes and stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.Write(TypeBlob, MarshalBlob(b))
}

// ReadBlob reads and deserializes a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	payload, err := s.readExpecting(h, TypeBlob)
	if err != nil {
		return nil, err
	}
	return UnmarshalBlob(payload)
}

// WriteTree serializes and stores a Tree.
func (s *Store) WriteTree(t *Tree) (Hash, error) {
	return s.Write(TypeTree, MarshalTree(t))
}

// ReadTree reads and deserializes a Tree.
func (s *Store) ReadTree(h Hash) (*Tree, error) {
	payload, err := s.readExpecting(h, TypeTree)
	if err != nil {
		return nil, err
	}
	return UnmarshalTree(payload)
}

// WriteCommit serializes and stores a Commit.
func (s *Store) WriteCommit(c *Commit) (Hash, error) {
	return s.Write(TypeCommit, MarshalCommit(c))
}

// ReadCommit reads and deserializes a Commit.
func (s *Store) ReadCommit(h Hash) (*Commit, error) {
	payload, err := s.readExpecting(h, TypeCommit)
	if err != nil {
		return nil, err
	}
	return UnmarshalCommit(payload)
}

// WriteTag serializes and stores a Tag.
func (s *Store) WriteTag(t *Tag) (Hash, error) {
	return s.Write(TypeTag, MarshalTag(t))
}

// ReadTag reads and deserializes a Tag.
func (s *Store) ReadTag(h Hash) (*Tag, error) {
	payload, err := s.readExpecting(h, TypeTag)
	if err != nil {
		return nil, err
	}
	return UnmarshalTag(payload)
}
