package repo

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/gritvcs/grit/pkg/object"
)

// Checkout materializes the tree behind name into dest. name may be anything
// FindObject accepts; commits and annotated tags are followed to their tree.
// dest must be an empty directory, or missing, in which case it is created.
// The index and HEAD are left untouched.
func (r *Repo) Checkout(name, dest string) error {
	treeHash, err := r.FindObject(name, object.TypeTree, true)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	tree, err := r.Store.ReadTree(treeHash)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	abs, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	info, err := os.Stat(abs)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("checkout: %q is not a directory", dest)
		}
		entries, err := os.ReadDir(abs)
		if err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
		if len(entries) > 0 {
			return fmt.Errorf("checkout: directory %q is not empty", dest)
		}
	case os.IsNotExist(err):
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
	default:
		return fmt.Errorf("checkout: %w", err)
	}

	if err := r.checkoutTree(tree, abs); err != nil {
		return err
	}
	log.Debugf("checked out tree %s into %s", treeHash.Short(), abs)
	return nil
}

// checkoutTree writes one tree level into dir, recursing into subtrees. The
// dispatch is on the kind read back from the store, not the entry mode; an
// object of any other kind at a tree position is fatal. Symlink entries are
// written out as regular files holding the link target.
func (r *Repo) checkoutTree(tree *object.Tree, dir string) error {
	for _, entry := range tree.Entries {
		target := filepath.Join(dir, filepath.FromSlash(entry.Path))

		obj, err := r.Store.ReadObject(entry.Hash)
		if err != nil {
			return fmt.Errorf("checkout %q: %w", entry.Path, err)
		}
		switch o := obj.(type) {
		case *object.Tree:
			if err := os.Mkdir(target, 0o755); err != nil {
				return fmt.Errorf("checkout: mkdir %q: %w", entry.Path, err)
			}
			if err := r.checkoutTree(o, target); err != nil {
				return err
			}
		case *object.Blob:
			if err := os.WriteFile(target, o.Data, filePermFromMode(entry.Mode)); err != nil {
				return fmt.Errorf("checkout: write %q: %w", entry.Path, err)
			}
		default:
			want, kindErr := object.KindForMode(entry.Mode)
			if kindErr != nil {
				return fmt.Errorf("checkout %q: %w", entry.Path, kindErr)
			}
			return &object.KindMismatchError{Hash: entry.Hash, Want: want, Got: obj.Type()}
		}
	}
	return nil
}
