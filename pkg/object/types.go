package object

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Type identifies the kind of an object.
type Type string

const (
	TypeBlob   Type = "blob"
	TypeCommit Type = "commit"
	TypeTag    Type = "tag"
	TypeTree   Type = "tree"
)

// ParseType validates a kind name supplied by a caller, typically from a
// command-line flag.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.known() {
		return "", fmt.Errorf("unrecognized object kind %q", s)
	}
	return t, nil
}

func (t Type) known() bool {
	switch t {
	case TypeBlob, TypeCommit, TypeTag, TypeTree:
		return true
	}
	return false
}

// Object is the capability shared by the four object kinds: each knows its
// kind tag and can serialize itself to the payload stored behind its digest.
type Object interface {
	Type() Type
	Marshal() []byte
}

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// Blob holds flat file content. The payload is the content itself, with no
// interior structure.
type Blob struct {
	Data []byte
}

func (b *Blob) Type() Type { return TypeBlob }

func (b *Blob) Marshal() []byte { return MarshalBlob(b) }

// ---------------------------------------------------------------------------
// Commit
// ---------------------------------------------------------------------------

// Commit is a history node: a KVLM whose headers name the recorded tree,
// zero or more parent commits, and the author and committer identities, and
// whose message is the commit message.
type Commit struct {
	kv *KVLM
}

// NewCommit builds a commit recording the tree snapshot with the given
// parents. The author identity is used for both the author and committer
// headers.
func NewCommit(tree Hash, parents []Hash, author string, when time.Time, message string) *Commit {
	kv := NewKVLM()
	kv.Append("tree", string(tree))
	for _, p := range parents {
		kv.Append("parent", string(p))
	}
	ident := formatIdent(author, when)
	kv.Append("author", ident)
	kv.Append("committer", ident)
	kv.SetMessage(message)
	return &Commit{kv: kv}
}

func (c *Commit) Type() Type { return TypeCommit }

func (c *Commit) Marshal() []byte { return MarshalCommit(c) }

// TreeHash returns the digest of the directory snapshot this commit records.
func (c *Commit) TreeHash() (Hash, error) {
	v, ok := c.kv.First("tree")
	if !ok {
		return "", fmt.Errorf("commit has no tree header: %w", ErrMalformed)
	}
	return Hash(v), nil
}

// Parents returns the parent digests in header order. A root commit returns
// an empty slice.
func (c *Commit) Parents() []Hash {
	vals := c.kv.Get("parent")
	out := make([]Hash, len(vals))
	for i, v := range vals {
		out[i] = Hash(v)
	}
	return out
}

// Author returns the raw author header, e.g. "Jo <jo@x> 1724572800 +0000".
func (c *Commit) Author() string {
	v, _ := c.kv.First("author")
	return v
}

func (c *Commit) Message() string { return c.kv.Message() }

// Subject returns the first line of the commit message.
func (c *Commit) Subject() string {
	msg := c.kv.Message()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return msg[:i]
	}
	return msg
}

// ---------------------------------------------------------------------------
// Tag
// ---------------------------------------------------------------------------

// Tag is an annotation object: a KVLM whose headers name the tagged object,
// its kind, the tag name and the tagger identity, and whose message is the
// annotation text.
type Tag struct {
	kv *KVLM
}

// NewTag builds an annotation pointing at target, which has kind targetType.
func NewTag(target Hash, targetType Type, name, tagger string, when time.Time, message string) *Tag {
	kv := NewKVLM()
	kv.Append("object", string(target))
	kv.Append("type", string(targetType))
	kv.Append("tag", name)
	kv.Append("tagger", formatIdent(tagger, when))
	kv.SetMessage(message)
	return &Tag{kv: kv}
}

func (t *Tag) Type() Type { return TypeTag }

func (t *Tag) Marshal() []byte { return MarshalTag(t) }

// TargetHash returns the digest of the tagged object.
func (t *Tag) TargetHash() (Hash, error) {
	v, ok := t.kv.First("object")
	if !ok {
		return "", fmt.Errorf("tag has no object header: %w", ErrMalformed)
	}
	return Hash(v), nil
}

// Name returns the tag name recorded in the object.
func (t *Tag) Name() (string, error) {
	v, ok := t.kv.First("tag")
	if !ok {
		return "", fmt.Errorf("tag has no tag header: %w", ErrMalformed)
	}
	return v, nil
}

func (t *Tag) Message() string { return t.kv.Message() }

// SetSignature attaches an encoded signature over the unsigned tag payload.
func (t *Tag) SetSignature(sig string) { t.kv.Set("signature", sig) }

// Signature returns the attached signature, if any.
func (t *Tag) Signature() (string, bool) { return t.kv.First("signature") }

// ---------------------------------------------------------------------------
// Identity headers
// ---------------------------------------------------------------------------

// formatIdent renders "who <unix seconds> <offset>" the way commit and tag
// headers record identities.
func formatIdent(who string, when time.Time) string {
	return fmt.Sprintf("%s %d %s", who, when.Unix(), formatTimezoneOffset(when))
}

// formatTimezoneOffset renders a time's UTC offset as +hhmm or -hhmm.
func formatTimezoneOffset(t time.Time) string {
	_, offset := t.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hours := offset / 3600
	minutes := (offset % 3600) / 60
	return fmt.Sprintf("%s%02d%02d", sign, hours, minutes)
}

// ParseIdent splits an identity header back into who and when. The last two
// fields are the unix seconds and the +hhmm offset; everything before them
// is the identity, which may itself contain spaces.
func ParseIdent(ident string) (who string, when time.Time, err error) {
	i := strings.LastIndexByte(ident, ' ')
	if i < 0 {
		return "", time.Time{}, fmt.Errorf("ident %q: %w", ident, ErrMalformed)
	}
	zone := ident[i+1:]
	rest := ident[:i]

	j := strings.LastIndexByte(rest, ' ')
	if j < 0 {
		return "", time.Time{}, fmt.Errorf("ident %q: %w", ident, ErrMalformed)
	}
	secs, err := strconv.ParseInt(rest[j+1:], 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("ident %q: %w", ident, ErrMalformed)
	}

	if len(zone) != 5 || (zone[0] != '+' && zone[0] != '-') {
		return "", time.Time{}, fmt.Errorf("ident %q: %w", ident, ErrMalformed)
	}
	hours, err := strconv.Atoi(zone[1:3])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("ident %q: %w", ident, ErrMalformed)
	}
	minutes, err := strconv.Atoi(zone[3:5])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("ident %q: %w", ident, ErrMalformed)
	}
	offset := hours*3600 + minutes*60
	if zone[0] == '-' {
		offset = -offset
	}

	return rest[:j], time.Unix(secs, 0).In(time.FixedZone(zone, offset)), nil
}
