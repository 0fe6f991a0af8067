package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gritvcs/grit/pkg/object"
)

func TestAdd_StagesFile(t *testing.T) {
	r := testRepo(t)
	abs := writeWorkFile(t, r, "hello.txt", "hello world")

	if err := r.Add([]string{abs}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	idx, err := r.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if len(idx.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(idx.Entries))
	}

	e := idx.Entries[0]
	if e.Path != abs {
		t.Errorf("Path = %q, want %q", e.Path, abs)
	}
	if want := object.Hash("95d09f2b10159347eece71399a7e2e907ea3df4f"); e.Hash != want {
		t.Errorf("Hash = %q, want %q", e.Hash, want)
	}
	if e.Size != uint64(len("hello world")) {
		t.Errorf("Size = %d, want %d", e.Size, len("hello world"))
	}

	info, err := os.Stat(abs)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if e.MTime != info.ModTime().Unix() {
		t.Errorf("MTime = %d, want %d", e.MTime, info.ModTime().Unix())
	}

	if !r.Store.Has(e.Hash) {
		t.Error("staged blob missing from the object store")
	}
}

func TestAdd_BlobContentRoundTrip(t *testing.T) {
	r := testRepo(t)
	abs := writeWorkFile(t, r, "data.bin", "some\x00binary\xffcontent")

	if err := r.Add([]string{abs}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	idx, err := r.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	blob, err := r.Store.ReadBlob(idx.Entries[0].Hash)
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if string(blob.Data) != "some\x00binary\xffcontent" {
		t.Errorf("blob = %q, want original content", blob.Data)
	}
}

func TestAdd_MultiplePaths(t *testing.T) {
	r := testRepo(t)
	a := writeWorkFile(t, r, "a.txt", "a")
	b := writeWorkFile(t, r, "sub/b.txt", "b")

	if err := r.Add([]string{a, b}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	idx, err := r.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if len(idx.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(idx.Entries))
	}
	if idx.Entries[0].Path != a || idx.Entries[1].Path != b {
		t.Errorf("paths = %q, %q, want %q, %q", idx.Entries[0].Path, idx.Entries[1].Path, a, b)
	}
}

// Staging an already-staged path replaces its entry instead of appending.
func TestAdd_RestageReplaces(t *testing.T) {
	r := testRepo(t)
	abs := writeWorkFile(t, r, "file.txt", "version one")

	if err := r.Add([]string{abs}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := os.WriteFile(abs, []byte("version two, longer"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := r.Add([]string{abs}); err != nil {
		t.Fatalf("Add (restage): %v", err)
	}

	idx, err := r.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if len(idx.Entries) != 1 {
		t.Fatalf("entries = %d, want 1 after restage", len(idx.Entries))
	}
	if idx.Entries[0].Size != uint64(len("version two, longer")) {
		t.Errorf("Size = %d, want %d", idx.Entries[0].Size, len("version two, longer"))
	}

	blob, err := r.Store.ReadBlob(idx.Entries[0].Hash)
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if string(blob.Data) != "version two, longer" {
		t.Errorf("blob = %q, want new content", blob.Data)
	}
}

func TestAdd_Directory_Error(t *testing.T) {
	r := testRepo(t)
	writeWorkFile(t, r, "sub/file.txt", "x")

	err := r.Add([]string{filepath.Join(r.WorkTree, "sub")})
	if err == nil {
		t.Fatal("Add on a directory should fail, got nil error")
	}
}

func TestAdd_OutsideWorktree_Error(t *testing.T) {
	r := testRepo(t)
	outside := filepath.Join(t.TempDir(), "stray.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := r.Add([]string{outside}); err == nil {
		t.Fatal("Add outside the worktree should fail, got nil error")
	}
}

func TestAdd_MetadataFile_Error(t *testing.T) {
	r := testRepo(t)

	if err := r.Add([]string{r.MetaPath("HEAD")}); err == nil {
		t.Fatal("Add of a metadata file should fail, got nil error")
	}
}

func TestAdd_MissingFile_Error(t *testing.T) {
	r := testRepo(t)

	if err := r.Add([]string{filepath.Join(r.WorkTree, "ghost.txt")}); err == nil {
		t.Fatal("Add of a missing file should fail, got nil error")
	}
}
