package repo

import (
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gritvcs/grit/pkg/object"
)

// TagSigner produces a detached signature over an annotated tag's unsigned
// payload. Implementations live with the caller; a nil signer writes tags
// unsigned.
type TagSigner interface {
	Sign(payload []byte) (string, error)
}

// CreateTag writes a lightweight tag: a ref under refs/tags pointing
// straight at target. Unless force is set, an existing tag is an error.
func (r *Repo) CreateTag(name string, target object.Hash, force bool) error {
	name = strings.TrimSpace(name)
	if err := validateRefName(name); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	if !target.Valid() {
		return fmt.Errorf("create tag: invalid target hash %q", target)
	}

	refName := "refs/tags/" + name
	if !force {
		if _, err := r.ResolveRef(refName); err == nil {
			return fmt.Errorf("create tag: tag %q already exists", name)
		}
	}
	if err := r.CreateRef(refName, target); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// CreateAnnotatedTag stores a tag object for target and points a ref under
// refs/tags at it. The tagger identity comes from the repository config, with
// an environment fallback; the repository's Signer, when set, adds a signature
// header over the unsigned payload.
func (r *Repo) CreateAnnotatedTag(name string, target object.Hash, message string, force bool) (object.Hash, error) {
	name = strings.TrimSpace(name)
	if err := validateRefName(name); err != nil {
		return "", fmt.Errorf("create annotated tag: %w", err)
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("create annotated tag: message is required")
	}
	tagger, err := r.requireAuthor()
	if err != nil {
		return "", fmt.Errorf("create annotated tag: %w", err)
	}

	targetType, err := r.Store.ReadKind(target)
	if err != nil {
		return "", fmt.Errorf("create annotated tag: read target %s: %w", target.Short(), err)
	}

	refName := "refs/tags/" + name
	if !force {
		if _, err := r.ResolveRef(refName); err == nil {
			return "", fmt.Errorf("create annotated tag: tag %q already exists", name)
		}
	}

	tag := object.NewTag(target, targetType, name, tagger, time.Now(), message+"\n")
	if r.Signer != nil {
		sig, err := r.Signer.Sign(object.TagSigningPayload(tag))
		if err != nil {
			return "", fmt.Errorf("create annotated tag: sign: %w", err)
		}
		tag.SetSignature(sig)
	}

	tagHash, err := r.Store.WriteTag(tag)
	if err != nil {
		return "", fmt.Errorf("create annotated tag: %w", err)
	}
	if err := r.CreateRef(refName, tagHash); err != nil {
		return "", fmt.Errorf("create annotated tag: %w", err)
	}
	log.Debugf("annotated tag %s -> %s", name, tagHash.Short())
	return tagHash, nil
}

// DeleteTag removes a tag ref. The tag object of an annotated tag stays in
// the store; objects are never deleted.
func (r *Repo) DeleteTag(name string) error {
	name = strings.TrimSpace(name)
	if err := validateRefName(name); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}

	if err := os.Remove(r.MetaPath("refs", "tags", name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("delete tag: tag %q does not exist", name)
		}
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

// ListTags returns tag names in the order ListRefs yields them, which is
// lexicographic per directory level.
func (r *Repo) ListTags() ([]RefEntry, error) {
	refs, err := r.ListRefs("tags")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	for i := range refs {
		refs[i].Name = strings.TrimPrefix(refs[i].Name, "refs/tags/")
	}
	return refs, nil
}

