package main

import (
	"testing"
)

func TestBranchCmd_CreateAndList(t *testing.T) {
	dir, r := initTestRepo(t)
	stageAndCommit(t, dir, r, "a.txt", "alpha", "initial")

	runCommand(t, dir, newBranchCmd(), "dev")

	output := runCommand(t, dir, newBranchCmd())
	if want := "  dev\n* main\n"; output != want {
		t.Errorf("branch list = %q, want %q", output, want)
	}
}

func TestBranchCmd_StartArgument(t *testing.T) {
	dir, r := initTestRepo(t)
	stageAndCommit(t, dir, r, "a.txt", "one", "first")
	first, err := r.ResolveRef("HEAD")
	if err != nil {
		t.Fatalf("ResolveRef: %v", err)
	}
	stageAndCommit(t, dir, r, "a.txt", "two", "second")

	runCommand(t, dir, newBranchCmd(), "old", string(first)[:8])

	got, err := r.ResolveRef("refs/heads/old")
	if err != nil {
		t.Fatalf("ResolveRef(old): %v", err)
	}
	if got != first {
		t.Errorf("branch old = %q, want %q", got, first)
	}
}

func TestBranchCmd_Delete(t *testing.T) {
	dir, r := initTestRepo(t)
	stageAndCommit(t, dir, r, "a.txt", "alpha", "initial")
	runCommand(t, dir, newBranchCmd(), "dev")

	runCommand(t, dir, newBranchCmd(), "-d", "dev")

	if _, err := r.ResolveRef("refs/heads/dev"); err == nil {
		t.Error("deleted branch still resolves")
	}
}

func TestBranchCmd_DeleteCurrent(t *testing.T) {
	dir, r := initTestRepo(t)
	stageAndCommit(t, dir, r, "a.txt", "alpha", "initial")

	if _, err := runCommandErr(t, dir, newBranchCmd(), "-d", "main"); err == nil {
		t.Fatal("deleting the current branch should fail, got nil error")
	}
}
