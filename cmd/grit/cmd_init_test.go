package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()

	output := runCommand(t, dir, newInitCmd(), "proj")

	if !strings.Contains(output, "initialized empty grit repository") {
		t.Errorf("unexpected output: %q", output)
	}
	head := filepath.Join(dir, "proj", ".grit", "HEAD")
	data, err := os.ReadFile(head)
	if err != nil {
		t.Fatalf("ReadFile(HEAD): %v", err)
	}
	if string(data) != "ref: refs/heads/main\n" {
		t.Errorf("HEAD = %q", data)
	}
}

func TestInitCmd_CurrentDirectory(t *testing.T) {
	dir := t.TempDir()

	runCommand(t, dir, newInitCmd())

	if _, err := os.Stat(filepath.Join(dir, ".grit", "objects")); err != nil {
		t.Errorf("objects directory missing: %v", err)
	}
}

func TestInitCmd_ExistingRepo(t *testing.T) {
	dir := t.TempDir()
	runCommand(t, dir, newInitCmd())

	if _, err := runCommandErr(t, dir, newInitCmd()); err == nil {
		t.Fatal("re-init should fail, got nil error")
	}
}
