package repo

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

const defaultDescription = "Unnamed repository; edit this file 'description' to name the repository.\n"

// Init creates a repository at path: the metadata directory with its fixed
// layout, a HEAD pointing at the default branch, a description stub and the
// default config. The working tree directory is created when missing. An
// existing non-empty metadata directory is refused.
func Init(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}

	if info, err := os.Stat(abs); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("init: %s is not a directory", abs)
		}
	} else if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("init: mkdir worktree: %w", err)
	}

	r := newRepo(abs)

	if entries, err := os.ReadDir(r.GritDir); err == nil && len(entries) > 0 {
		return nil, fmt.Errorf("init: %s already exists and is not empty", r.GritDir)
	}

	for _, parts := range [][]string{
		{"branches"},
		{"objects"},
		{"refs", "tags"},
		{"refs", "heads"},
	} {
		if err := os.MkdirAll(r.meta.Path(parts...), 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", filepath.Join(parts...), err)
		}
	}

	if err := r.writeMetaFile([]byte(defaultDescription), "description"); err != nil {
		return nil, fmt.Errorf("init: write description: %w", err)
	}
	if err := r.writeMetaFile([]byte("ref: "+DefaultBranchRef+"\n"), "HEAD"); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}
	cfg := defaultConfig()
	if err := r.WriteConfig(&cfg); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	log.Debugf("initialized empty repository at %s", r.GritDir)
	return r, nil
}
