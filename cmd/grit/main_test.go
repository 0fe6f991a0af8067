package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/gritvcs/grit/pkg/repo"
)

// initTestRepo creates a repository with an identity configured and returns
// its root.
func initTestRepo(t *testing.T) (string, *repo.Repo) {
	t.Helper()
	dir := t.TempDir()
	r, err := repo.Init(dir)
	if err != nil {
		t.Fatalf("repo.Init: %v", err)
	}
	if err := r.SetUser("Test User", "test@example.com"); err != nil {
		t.Fatalf("SetUser: %v", err)
	}
	return dir, r
}

func writeRepoFile(t *testing.T, root, relPath, content string) {
	t.Helper()
	absPath := filepath.Join(root, relPath)
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		t.Fatalf("MkdirAll(%q): %v", relPath, err)
	}
	if err := os.WriteFile(absPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%q): %v", relPath, err)
	}
}

func stageAndCommit(t *testing.T, root string, r *repo.Repo, path, content, message string) {
	t.Helper()
	writeRepoFile(t, root, path, content)
	if err := r.Add([]string{filepath.Join(root, path)}); err != nil {
		t.Fatalf("Add(%q): %v", path, err)
	}
	if _, err := r.Commit(message); err != nil {
		t.Fatalf("Commit(%q): %v", message, err)
	}
}

// runCommand executes a freshly built command inside dir and returns its
// combined output. The command must succeed.
func runCommand(t *testing.T, dir string, cmd *cobra.Command, args ...string) string {
	t.Helper()
	output, err := runCommandErr(t, dir, cmd, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\noutput:\n%s", args, err, output)
	}
	return output
}

func runCommandErr(t *testing.T, dir string, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	prevWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q): %v", dir, err)
	}
	defer func() {
		if err := os.Chdir(prevWD); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	}()

	cmd.SetArgs(args)
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)

	execErr := cmd.Execute()
	return output.String(), execErr
}

func nonEmptyLines(s string) []string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}
