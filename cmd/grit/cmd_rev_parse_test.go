package main

import (
	"strings"
	"testing"
)

func TestRevParseCmd(t *testing.T) {
	dir, r := initTestRepo(t)
	stageAndCommit(t, dir, r, "a.txt", "alpha", "initial")

	head, err := r.ResolveRef("HEAD")
	if err != nil {
		t.Fatalf("ResolveRef: %v", err)
	}

	output := runCommand(t, dir, newRevParseCmd(), "HEAD")
	if got := strings.TrimSpace(output); got != string(head) {
		t.Errorf("rev-parse HEAD = %q, want %q", got, head)
	}

	output = runCommand(t, dir, newRevParseCmd(), string(head)[:8])
	if got := strings.TrimSpace(output); got != string(head) {
		t.Errorf("rev-parse prefix = %q, want %q", got, head)
	}
}

func TestRevParseCmd_FollowToTree(t *testing.T) {
	dir, r := initTestRepo(t)
	stageAndCommit(t, dir, r, "a.txt", "alpha", "initial")

	head, err := r.ResolveRef("HEAD")
	if err != nil {
		t.Fatalf("ResolveRef: %v", err)
	}
	c, err := r.Store.ReadCommit(head)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	wantTree, err := c.TreeHash()
	if err != nil {
		t.Fatalf("TreeHash: %v", err)
	}

	output := runCommand(t, dir, newRevParseCmd(), "-t", "tree", "HEAD")
	if got := strings.TrimSpace(output); got != string(wantTree) {
		t.Errorf("rev-parse -t tree HEAD = %q, want %q", got, wantTree)
	}
}

func TestRevParseCmd_NotFound(t *testing.T) {
	dir, _ := initTestRepo(t)

	if _, err := runCommandErr(t, dir, newRevParseCmd(), "no-such-name"); err == nil {
		t.Fatal("rev-parse of unknown name should fail, got nil error")
	}
}
