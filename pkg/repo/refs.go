package repo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/gritvcs/grit/pkg/object"
)

// DefaultBranchRef is where HEAD points in a fresh repository.
const DefaultBranchRef = "refs/heads/main"

var (
	// ErrRefNotFound reports a reference file that does not exist.
	ErrRefNotFound = errors.New("reference not found")

	// ErrRefCycle reports indirect references that chase each other.
	ErrRefCycle = errors.New("reference cycle")
)

// RefEntry pairs a fully qualified reference name ("refs/heads/main") with
// the digest it resolves to.
type RefEntry struct {
	Name string
	Hash object.Hash
}

// Head returns the reference HEAD points at (e.g. "refs/heads/main"), or
// the bare digest when HEAD is detached.
func (r *Repo) Head() (string, error) {
	content, err := r.readRefFile("HEAD")
	if err != nil {
		return "", fmt.Errorf("head: %w", err)
	}
	if target, ok := strings.CutPrefix(content, "ref: "); ok {
		return target, nil
	}
	return content, nil
}

// ResolveRef follows a reference to a digest. Indirect references ("ref: "
// prefix) are chased; a chain that revisits a name fails with ErrRefCycle
// instead of recursing forever.
func (r *Repo) ResolveRef(name string) (object.Hash, error) {
	return r.resolveRef(name, make(map[string]bool))
}

func (r *Repo) resolveRef(name string, seen map[string]bool) (object.Hash, error) {
	if seen[name] {
		return "", fmt.Errorf("resolve ref %q: %w", name, ErrRefCycle)
	}
	seen[name] = true

	content, err := r.readRefFile(name)
	if err != nil {
		return "", fmt.Errorf("resolve ref %q: %w", name, err)
	}
	if target, ok := strings.CutPrefix(content, "ref: "); ok {
		return r.resolveRef(target, seen)
	}
	return object.Hash(content), nil
}

func (r *Repo) readRefFile(name string) (string, error) {
	if !r.meta.Exists(name) {
		return "", ErrRefNotFound
	}
	rc, err := r.meta.Open(name)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// validateRefName rejects leaf names that would escape the refs tree or
// smuggle whitespace into a reference file. Interior slashes are fine.
func validateRefName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return fmt.Errorf("invalid reference name %q", name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("invalid reference name %q", name)
	}
	if strings.ContainsAny(name, " \t\n\r") {
		return fmt.Errorf("invalid reference name %q", name)
	}
	return nil
}

// CreateRef writes a reference file holding the digest, creating parent
// directories as needed. An existing reference is replaced.
func (r *Repo) CreateRef(name string, h object.Hash) error {
	if err := r.writeMetaFile([]byte(string(h)+"\n"), name); err != nil {
		return fmt.Errorf("create ref %q: %w", name, err)
	}
	log.Debugf("ref %s -> %s", name, h)
	return nil
}

// ListRefs walks the reference tree under prefix ("" means all of refs/),
// resolving every file it finds. Directories are visited in lexicographic
// order and each directory's files are emitted before the walk moves on, so
// the result is fully ordered.
func (r *Repo) ListRefs(prefix string) ([]RefEntry, error) {
	dir := "refs"
	if strings.TrimSpace(prefix) != "" {
		dir = path.Join(dir, prefix)
	}
	return r.listRefDir(dir)
}

func (r *Repo) listRefDir(dir string) ([]RefEntry, error) {
	names, err := r.meta.List(dir)
	if err != nil {
		return nil, fmt.Errorf("list refs %q: %w", dir, err)
	}
	sort.Strings(names)

	var out []RefEntry
	for _, name := range names {
		full := path.Join(dir, name)
		info, err := os.Stat(r.meta.Path(full))
		if err != nil {
			return nil, fmt.Errorf("list refs %q: %w", full, err)
		}
		if info.IsDir() {
			sub, err := r.listRefDir(full)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			continue
		}
		h, err := r.ResolveRef(full)
		if err != nil {
			return nil, err
		}
		out = append(out, RefEntry{Name: full, Hash: h})
	}
	return out, nil
}
