package object

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// KVLM is the key-value-list-with-message encoding shared by commit and tag
// payloads. Keys keep first-seen order and a key may carry several values,
// which keep arrival order. Repeated keys must be contiguous in the source
// text for the round trip to reproduce the input bytes; that is an accepted
// restriction on input shape, not something the parser rejects.
type KVLM struct {
	keys       []string
	values     map[string][]string
	message    string
	hasMessage bool
}

// NewKVLM returns an empty KVLM.
func NewKVLM() *KVLM {
	return &KVLM{values: make(map[string][]string)}
}

// Append adds a value under key, keeping any values already present.
func (k *KVLM) Append(key, value string) {
	if _, ok := k.values[key]; !ok {
		k.keys = append(k.keys, key)
	}
	k.values[key] = append(k.values[key], value)
}

// Set replaces all values under key with the single given value.
func (k *KVLM) Set(key, value string) {
	if _, ok := k.values[key]; !ok {
		k.keys = append(k.keys, key)
	}
	k.values[key] = []string{value}
}

// Get returns the values stored under key in arrival order, or nil.
func (k *KVLM) Get(key string) []string {
	return k.values[key]
}

// First returns the first value stored under key.
func (k *KVLM) First(key string) (string, bool) {
	vals := k.values[key]
	if len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Keys returns the keys in first-seen order.
func (k *KVLM) Keys() []string {
	out := make([]string, len(k.keys))
	copy(out, k.keys)
	return out
}

// Message returns the free-form text after the header block.
func (k *KVLM) Message() string { return k.message }

// SetMessage sets the free-form text after the header block.
func (k *KVLM) SetMessage(m string) {
	k.message = m
	k.hasMessage = true
}

// Without returns a copy with every header except key, preserving order and
// the message. Used to rebuild the byte range a signature covers.
func (k *KVLM) Without(key string) *KVLM {
	out := NewKVLM()
	for _, existing := range k.keys {
		if existing == key {
			continue
		}
		for _, value := range k.values[existing] {
			out.Append(existing, value)
		}
	}
	out.message = k.message
	out.hasMessage = k.hasMessage
	return out
}

// ParseKVLM decodes a header block followed by an optional message. Each
// header line is "key SP value"; a value continues onto the next line when
// that line starts with a space, with the space stripped on decode. The
// first blank line ends the headers, and everything after it is the message.
func ParseKVLM(raw []byte) (*KVLM, error) {
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("kvlm payload is not valid UTF-8: %w", ErrMalformed)
	}

	kv := NewKVLM()
	pos := 0
	for pos < len(raw) {
		if raw[pos] == '\n' {
			kv.SetMessage(string(raw[pos+1:]))
			return kv, nil
		}

		line := raw[pos:]
		sp := bytes.IndexByte(line, ' ')
		nl := bytes.IndexByte(line, '\n')
		if sp < 0 || (nl >= 0 && nl < sp) {
			return nil, fmt.Errorf("kvlm header line has no key separator: %w", ErrMalformed)
		}
		key := string(line[:sp])

		// The value runs to the first newline not followed by a space.
		end := pos + sp
		for {
			i := bytes.IndexByte(raw[end+1:], '\n')
			if i < 0 {
				return nil, fmt.Errorf("kvlm value for %q is unterminated: %w", key, ErrMalformed)
			}
			end += 1 + i
			if end+1 >= len(raw) || raw[end+1] != ' ' {
				break
			}
		}

		value := strings.ReplaceAll(string(raw[pos+sp+1:end]), "\n ", "\n")
		kv.Append(key, value)
		pos = end + 1
	}
	return kv, nil
}

// Serialize encodes the headers in first-seen key order, expanding embedded
// newlines in values back into continuation lines, then a blank line and the
// message. Serialize(ParseKVLM(x)) reproduces x for any payload whose
// repeated keys are contiguous.
func (k *KVLM) Serialize() []byte {
	var buf bytes.Buffer
	for _, key := range k.keys {
		for _, value := range k.values[key] {
			buf.WriteString(key)
			buf.WriteByte(' ')
			buf.WriteString(strings.ReplaceAll(value, "\n", "\n "))
			buf.WriteByte('\n')
		}
	}
	if k.hasMessage {
		buf.WriteByte('\n')
		buf.WriteString(k.message)
	}
	return buf.Bytes()
}
