package repo

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gritvcs/grit/pkg/object"
)

// Commit records the staged index as a new commit:
//
//  1. Read the index; refuse when nothing is staged.
//  2. Build tree objects from the index entries.
//  3. Resolve HEAD for the parent digest; a fresh repository has none and
//     the commit becomes a root.
//  4. Write the commit object.
//  5. Advance the branch HEAD names, or HEAD itself when detached.
//
// The author identity comes from the repository config, with an environment
// fallback.
func (r *Repo) Commit(message string) (object.Hash, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("commit: message is required")
	}
	author, err := r.requireAuthor()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	idx, err := r.ReadIndex()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if len(idx.Entries) == 0 {
		return "", fmt.Errorf("commit: nothing staged")
	}

	treeHash, err := r.BuildTreeFromIndex(idx)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	var parents []object.Hash
	if parentHash, err := r.ResolveRef("HEAD"); err == nil && parentHash.Valid() {
		parents = append(parents, parentHash)
	}

	commit := object.NewCommit(treeHash, parents, author, time.Now(), message+"\n")
	commitHash, err := r.Store.WriteCommit(commit)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	target := "HEAD" // detached HEAD moves directly
	if strings.HasPrefix(head, "refs/") {
		target = head
	}
	if err := r.CreateRef(target, commitHash); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	log.Debugf("commit %s -> %s", commitHash.Short(), target)
	return commitHash, nil
}
