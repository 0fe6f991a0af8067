package repo

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/gritvcs/grit/pkg/object"
)

// Add stages the given working-tree paths. Each file's content is written to
// the object store as a blob, and its index entry replaces any previous
// entry for the same path. The index file is rewritten once after all paths
// are staged, so a failure partway leaves earlier blobs in the store but the
// index unchanged.
func (r *Repo) Add(paths []string) error {
	idx, err := r.ReadIndex()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	for _, p := range paths {
		abs, err := r.absWorktreePath(p)
		if err != nil {
			return fmt.Errorf("add: %w", err)
		}

		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("add: stat %q: %w", p, err)
		}
		if info.IsDir() {
			return fmt.Errorf("add: %q is a directory, only files can be staged", p)
		}

		content, err := os.ReadFile(abs)
		if err != nil {
			return fmt.Errorf("add: read %q: %w", p, err)
		}
		blobHash, err := r.Store.WriteBlob(&object.Blob{Data: content})
		if err != nil {
			return fmt.Errorf("add: write blob %q: %w", p, err)
		}

		mtime := info.ModTime().Unix()
		if mtime < 0 {
			mtime = 0
		}
		idx.Set(IndexEntry{
			MTime: mtime,
			Hash:  blobHash,
			Size:  uint64(info.Size()),
			Path:  abs,
		})
		log.Debugf("staged %s as %s", abs, blobHash.Short())
	}

	if err := r.WriteIndex(idx); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return nil
}

// absWorktreePath resolves p (absolute, or relative to the current working
// directory) to a cleaned absolute path and verifies it lies inside the
// working tree.
func (r *Repo) absWorktreePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", p, err)
	}
	if !r.InWorktree(abs) {
		return "", fmt.Errorf("path %q is outside the working tree", p)
	}
	return abs, nil
}
