package main

import (
	"strings"
	"testing"
)

func TestCatFileCmd_Blob(t *testing.T) {
	dir, r := initTestRepo(t)
	stageAndCommit(t, dir, r, "a.txt", "alpha content, no trailing newline", "initial")

	idx, err := r.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	blob := string(idx.Entries[0].Hash)

	output := runCommand(t, dir, newCatFileCmd(), blob)

	// Raw payload bytes, nothing appended.
	if output != "alpha content, no trailing newline" {
		t.Errorf("cat-file = %q", output)
	}
}

func TestCatFileCmd_FollowToTree(t *testing.T) {
	dir, r := initTestRepo(t)
	stageAndCommit(t, dir, r, "a.txt", "alpha", "initial")

	output := runCommand(t, dir, newCatFileCmd(), "-t", "tree", "HEAD")

	if !strings.Contains(output, "a.txt") {
		t.Errorf("tree payload missing entry name:\n%q", output)
	}
}

func TestCatFileCmd_KindMismatch(t *testing.T) {
	dir, r := initTestRepo(t)
	stageAndCommit(t, dir, r, "a.txt", "alpha", "initial")

	idx, err := r.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	blob := string(idx.Entries[0].Hash)

	if _, err := runCommandErr(t, dir, newCatFileCmd(), "-t", "commit", blob); err == nil {
		t.Fatal("cat-file -t commit on a blob should fail, got nil error")
	}
}
