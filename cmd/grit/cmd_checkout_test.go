package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckoutCmd(t *testing.T) {
	dir, r := initTestRepo(t)
	writeRepoFile(t, dir, "a.txt", "alpha")
	writeRepoFile(t, dir, "sub/b.txt", "beta")
	if err := r.Add([]string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "sub/b.txt")}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("initial"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "out")
	runCommand(t, dir, newCheckoutCmd(), "HEAD", dest)

	for rel, want := range map[string]string{
		"a.txt":     "alpha",
		"sub/b.txt": "beta",
	} {
		data, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", rel, err)
		}
		if string(data) != want {
			t.Errorf("%s = %q, want %q", rel, data, want)
		}
	}
}

func TestCheckoutCmd_NonEmptyDest(t *testing.T) {
	dir, r := initTestRepo(t)
	stageAndCommit(t, dir, r, "a.txt", "alpha", "initial")

	dest := t.TempDir()
	writeRepoFile(t, dest, "occupied", "x")

	if _, err := runCommandErr(t, dir, newCheckoutCmd(), "HEAD", dest); err == nil {
		t.Fatal("checkout into non-empty directory should fail, got nil error")
	}
}
