package repo

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gritvcs/grit/pkg/object"
)

// Names of 2 to 40 hex digits are digest prefixes; everything else is tried
// against the reference namespaces.
var hexNameRE = regexp.MustCompile(`^[0-9A-Fa-f]{2,40}$`)

// AmbiguousError reports a name that resolves to more than one digest. The
// candidate list is complete so the caller can disambiguate.
type AmbiguousError struct {
	Name       string
	Candidates []object.Hash
}

func (e *AmbiguousError) Error() string {
	parts := make([]string, len(e.Candidates))
	for i, h := range e.Candidates {
		parts[i] = string(h)
	}
	return fmt.Sprintf("name %q is ambiguous, candidates: %s", e.Name, strings.Join(parts, ", "))
}

// FindObject resolves a user-supplied name (HEAD, digest prefix, tag or
// branch name) to exactly one digest. want narrows the result to an object
// kind; the empty string accepts anything. When the resolved object has a
// different kind and follow is true, indirection is chased: an annotation
// leads to its target, a history node to its tree when a tree is wanted. A
// mismatch with no indirection left is a KindMismatchError.
func (r *Repo) FindObject(name string, want object.Type, follow bool) (object.Hash, error) {
	h, err := r.resolveName(name)
	if err != nil {
		return "", err
	}
	if want == "" {
		return h, nil
	}

	for {
		t, err := r.Store.ReadKind(h)
		if err != nil {
			return "", err
		}
		if t == want {
			return h, nil
		}
		if !follow {
			return "", &object.KindMismatchError{Hash: h, Want: want, Got: t}
		}

		switch {
		case t == object.TypeTag:
			tag, err := r.Store.ReadTag(h)
			if err != nil {
				return "", err
			}
			h, err = tag.TargetHash()
			if err != nil {
				return "", err
			}
		case t == object.TypeCommit && want == object.TypeTree:
			c, err := r.Store.ReadCommit(h)
			if err != nil {
				return "", err
			}
			h, err = c.TreeHash()
			if err != nil {
				return "", err
			}
		default:
			return "", &object.KindMismatchError{Hash: h, Want: want, Got: t}
		}
	}
}

// resolveName collects every digest the name could mean, then applies the
// zero/one/many rule. Candidates are gathered from all namespaces before the
// cardinality check so the outcome does not depend on probe order, and the
// same digest reached through two namespaces counts once.
func (r *Repo) resolveName(name string) (object.Hash, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("resolve %q: %w", name, object.ErrNotFound)
	}

	if name == "HEAD" {
		return r.ResolveRef("HEAD")
	}

	var candidates []object.Hash
	if hexNameRE.MatchString(name) {
		hits, err := r.Store.FindByPrefix(strings.ToLower(name))
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", name, err)
		}
		candidates = hits
	} else {
		for _, namespace := range []string{"refs/tags/", "refs/heads/", "refs/remotes/"} {
			h, err := r.ResolveRef(namespace + name)
			if err != nil {
				if errors.Is(err, ErrRefNotFound) {
					continue
				}
				return "", err
			}
			candidates = append(candidates, h)
		}
	}

	unique := dedupeHashes(candidates)
	switch len(unique) {
	case 0:
		return "", fmt.Errorf("no such object or reference %q: %w", name, object.ErrNotFound)
	case 1:
		return unique[0], nil
	default:
		return "", &AmbiguousError{Name: name, Candidates: unique}
	}
}

func dedupeHashes(in []object.Hash) []object.Hash {
	seen := make(map[object.Hash]bool, len(in))
	var out []object.Hash
	for _, h := range in {
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return out
}
