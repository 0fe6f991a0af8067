package repo

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/gritvcs/grit/pkg/object"
)

// TreeFileEntry is a single leaf in a flattened tree: the repo-relative
// slash path plus the entry's mode and digest.
type TreeFileEntry struct {
	Path string
	Mode string
	Hash object.Hash
}

// treeSource is what the tree builder knows about one staged file.
type treeSource struct {
	hash object.Hash
	mode string
}

// BuildTreeFromIndex converts the flat index into a hierarchy of tree
// objects, writing each to the store, and returns the root tree's hash.
// An empty index yields the empty tree.
//
// The index records no mode, so the builder stats each working file for its
// executable bit; a file that vanished after staging falls back to the plain
// file mode.
func (r *Repo) BuildTreeFromIndex(idx *Index) (object.Hash, error) {
	files := make(map[string]treeSource, len(idx.Entries))
	for _, e := range idx.Entries {
		rel, err := r.workTreeRel(e.Path)
		if err != nil {
			return "", fmt.Errorf("build tree: %w", err)
		}
		mode := object.ModeFile
		if info, err := os.Stat(e.Path); err == nil && !info.IsDir() {
			mode = modeFromFileInfo(info)
		}
		files[rel] = treeSource{hash: e.Hash, mode: mode}
	}
	return r.buildTreeDir(files, "")
}

// buildTreeDir writes the tree object for one directory prefix and returns
// its hash, recursing into subdirectories first.
func (r *Repo) buildTreeDir(files map[string]treeSource, prefix string) (object.Hash, error) {
	// Collect direct children: file names and immediate subdirectory names.
	direct := make(map[string]treeSource)
	subdirs := make(map[string]struct{})

	for p, src := range files {
		rel := p
		if prefix != "" {
			var ok bool
			rel, ok = strings.CutPrefix(p, prefix+"/")
			if !ok {
				continue
			}
		}

		if name, _, nested := strings.Cut(rel, "/"); nested {
			subdirs[name] = struct{}{}
		} else {
			direct[rel] = src
		}
	}

	names := make([]string, 0, len(direct)+len(subdirs))
	for name := range direct {
		names = append(names, name)
	}
	for name := range subdirs {
		// A name cannot be both a file and a directory.
		if _, isFile := direct[name]; !isFile {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	tree := &object.Tree{}
	for _, name := range names {
		if src, isFile := direct[name]; isFile {
			tree.Entries = append(tree.Entries, object.TreeEntry{
				Mode: src.mode,
				Path: name,
				Hash: src.hash,
			})
			continue
		}

		childPrefix := name
		if prefix != "" {
			childPrefix = prefix + "/" + name
		}
		subHash, err := r.buildTreeDir(files, childPrefix)
		if err != nil {
			return "", err
		}
		tree.Entries = append(tree.Entries, object.TreeEntry{
			Mode: object.ModeDir,
			Path: name,
			Hash: subHash,
		})
	}

	h, err := r.Store.WriteTree(tree)
	if err != nil {
		return "", fmt.Errorf("write tree %q: %w", prefix, err)
	}
	return h, nil
}

// FlattenTree walks a tree recursively and returns every leaf entry with its
// full repo-relative path. Subtrees recurse; blobs, symlinks, and submodule
// pointers are all leaves.
func (r *Repo) FlattenTree(h object.Hash) ([]TreeFileEntry, error) {
	return r.flattenTreeRec(h, "")
}

func (r *Repo) flattenTreeRec(h object.Hash, prefix string) ([]TreeFileEntry, error) {
	tree, err := r.Store.ReadTree(h)
	if err != nil {
		return nil, fmt.Errorf("flatten tree %s: %w", h.Short(), err)
	}

	var result []TreeFileEntry
	for _, entry := range tree.Entries {
		fullPath := entry.Path
		if prefix != "" {
			fullPath = path.Join(prefix, entry.Path)
		}

		kind, err := object.KindForMode(entry.Mode)
		if err != nil {
			return nil, fmt.Errorf("flatten tree %s: entry %q: %w", h.Short(), fullPath, err)
		}
		if kind == object.TypeTree {
			sub, err := r.flattenTreeRec(entry.Hash, fullPath)
			if err != nil {
				return nil, err
			}
			result = append(result, sub...)
			continue
		}
		result = append(result, TreeFileEntry{
			Path: fullPath,
			Mode: entry.Mode,
			Hash: entry.Hash,
		})
	}
	return result, nil
}
