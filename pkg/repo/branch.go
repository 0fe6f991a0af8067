package repo

import (
	"fmt"
	"os"
	"strings"

	"github.com/gritvcs/grit/pkg/object"
)

// CreateBranch writes refs/heads/<name> pointing at target. An existing
// branch of the same name is an error.
func (r *Repo) CreateBranch(name string, target object.Hash) error {
	name = strings.TrimSpace(name)
	if err := validateRefName(name); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	if !target.Valid() {
		return fmt.Errorf("create branch: invalid target hash %q", target)
	}

	refName := "refs/heads/" + name
	if r.meta.Exists(refName) {
		return fmt.Errorf("create branch: branch %q already exists", name)
	}
	if err := r.CreateRef(refName, target); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	return nil
}

// DeleteBranch removes refs/heads/<name>. The branch HEAD points at cannot
// be deleted.
func (r *Repo) DeleteBranch(name string) error {
	name = strings.TrimSpace(name)
	if err := validateRefName(name); err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}

	current, err := r.CurrentBranch()
	if err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	if current == name {
		return fmt.Errorf("delete branch: cannot delete current branch %q", name)
	}

	if err := os.Remove(r.MetaPath("refs", "heads", name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("delete branch: branch %q does not exist", name)
		}
		return fmt.Errorf("delete branch: %w", err)
	}
	return nil
}

// ListBranches returns branch names with their tip digests, in ListRefs
// order. A branch that has never been committed to does not exist on disk
// and is not listed.
func (r *Repo) ListBranches() ([]RefEntry, error) {
	refs, err := r.ListRefs("heads")
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	for i := range refs {
		refs[i].Name = strings.TrimPrefix(refs[i].Name, "refs/heads/")
	}
	return refs, nil
}

// CurrentBranch returns the branch HEAD points at, or "" when HEAD is
// detached.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("current branch: %w", err)
	}
	if name, ok := strings.CutPrefix(head, "refs/heads/"); ok {
		return name, nil
	}
	return "", nil
}
