package repo

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gritvcs/grit/pkg/object"
)

// MetaDirName is the metadata directory created beside the working tree.
const MetaDirName = ".grit"

// Repo is an opened repository: a working tree plus the metadata directory
// inside it. All metadata access goes through the meta helper, which also
// serves as the object store's storage backend.
type Repo struct {
	WorkTree string        // working tree root
	GritDir  string        // metadata directory, <WorkTree>/.grit
	Store    *object.Store // content-addressed object store

	// Signer, when set, signs annotated tags. Left nil by Open; callers
	// wire one in.
	Signer TagSigner

	meta metaDir
}

func newRepo(workTree string) *Repo {
	meta := metaDir{root: filepath.Join(workTree, MetaDirName)}
	return &Repo{
		WorkTree: workTree,
		GritDir:  meta.root,
		Store:    object.NewStore(meta),
		meta:     meta,
	}
}

// Open searches upward from path for a metadata directory and opens the
// repository rooted there. The search stops at the filesystem root.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		info, err := os.Stat(filepath.Join(cur, MetaDirName))
		if err == nil && info.IsDir() {
			r := newRepo(cur)
			if err := r.checkFormatVersion(); err != nil {
				return nil, err
			}
			return r, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: not a grit repository (or any parent up to /)")
		}
		cur = parent
	}
}

// checkFormatVersion rejects repositories written by a later format. A repo
// without a config file reads as format zero.
func (r *Repo) checkFormatVersion() error {
	cfg, err := r.Config()
	if err != nil {
		return err
	}
	if cfg.Core.RepositoryFormatVersion != 0 {
		return fmt.Errorf("open: unsupported repositoryformatversion %d", cfg.Core.RepositoryFormatVersion)
	}
	return nil
}

// MetaPath returns the path of a file or directory under the metadata
// directory.
func (r *Repo) MetaPath(parts ...string) string {
	return r.meta.Path(parts...)
}

// InWorktree reports whether abs lies inside the working tree and outside
// the metadata directory.
func (r *Repo) InWorktree(abs string) bool {
	rel, err := filepath.Rel(r.WorkTree, abs)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if rel == MetaDirName || strings.HasPrefix(rel, MetaDirName+string(filepath.Separator)) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// workTreeRel converts an absolute path into the slash-separated form used
// in tree objects, relative to the working tree root.
func (r *Repo) workTreeRel(abs string) (string, error) {
	if !r.InWorktree(abs) {
		return "", fmt.Errorf("path %q is outside the working tree", abs)
	}
	rel, err := filepath.Rel(r.WorkTree, abs)
	if err != nil {
		return "", fmt.Errorf("path %q is outside the working tree", abs)
	}
	return filepath.ToSlash(rel), nil
}

// ---------------------------------------------------------------------------
// Metadata filesystem
// ---------------------------------------------------------------------------

// metaDir is the filesystem rooted at the metadata directory. It implements
// object.Backend, and every repository write outside the working tree goes
// through it.
type metaDir struct {
	root string
}

func (m metaDir) Path(parts ...string) string {
	return filepath.Join(append([]string{m.root}, parts...)...)
}

func (m metaDir) Exists(parts ...string) bool {
	_, err := os.Stat(m.Path(parts...))
	return err == nil
}

func (m metaDir) Open(parts ...string) (io.ReadCloser, error) {
	return os.Open(m.Path(parts...))
}

// Create opens a pending file that appears at its final path only when Close
// succeeds. Parent directories are created as needed.
func (m metaDir) Create(parts ...string) (io.WriteCloser, error) {
	dest := m.Path(parts...)
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return nil, err
	}
	return &pendingFile{File: tmp, dest: dest}, nil
}

func (m metaDir) List(parts ...string) ([]string, error) {
	entries, err := os.ReadDir(m.Path(parts...))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

// pendingFile is a temp file renamed over its destination when closed.
type pendingFile struct {
	*os.File
	dest string
	done bool
}

func (p *pendingFile) Close() error {
	if p.done {
		return nil
	}
	p.done = true

	if err := p.File.Sync(); err != nil {
		p.File.Close()
		os.Remove(p.File.Name())
		return err
	}
	if err := p.File.Close(); err != nil {
		os.Remove(p.File.Name())
		return err
	}
	if err := os.Rename(p.File.Name(), p.dest); err != nil {
		os.Remove(p.File.Name())
		return err
	}
	return nil
}

// writeMetaFile writes data to a file under the metadata directory through
// the pending-file path, replacing any previous content in one step.
func (r *Repo) writeMetaFile(data []byte, parts ...string) error {
	w, err := r.meta.Create(parts...)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
