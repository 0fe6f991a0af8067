package repo

import (
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gritvcs/grit/pkg/object"
)

const (
	hashA = object.Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	hashB = object.Hash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	hashC = object.Hash("cccccccccccccccccccccccccccccccccccccccc")
)

func TestCreateRef_ResolveRef_RoundTrip(t *testing.T) {
	r := testRepo(t)

	if err := r.CreateRef("refs/heads/main", hashA); err != nil {
		t.Fatalf("CreateRef: %v", err)
	}

	got, err := r.ResolveRef("refs/heads/main")
	if err != nil {
		t.Fatalf("ResolveRef: %v", err)
	}
	if got != hashA {
		t.Errorf("ResolveRef = %q, want %q", got, hashA)
	}

	// The file carries a trailing newline.
	data, err := os.ReadFile(r.MetaPath("refs", "heads", "main"))
	if err != nil {
		t.Fatalf("read ref file: %v", err)
	}
	if string(data) != string(hashA)+"\n" {
		t.Errorf("ref file = %q, want %q", data, string(hashA)+"\n")
	}
}

func TestResolveRef_FollowsHEADIndirection(t *testing.T) {
	r := testRepo(t)

	if err := r.CreateRef("refs/heads/main", hashB); err != nil {
		t.Fatalf("CreateRef: %v", err)
	}

	got, err := r.ResolveRef("HEAD")
	if err != nil {
		t.Fatalf("ResolveRef(HEAD): %v", err)
	}
	if got != hashB {
		t.Errorf("ResolveRef(HEAD) = %q, want %q", got, hashB)
	}
}

func TestResolveRef_Missing(t *testing.T) {
	r := testRepo(t)

	_, err := r.ResolveRef("refs/heads/nope")
	if !errors.Is(err, ErrRefNotFound) {
		t.Errorf("ResolveRef on missing ref: %v, want ErrRefNotFound", err)
	}
}

func TestResolveRef_CycleDetected(t *testing.T) {
	r := testRepo(t)

	if err := r.writeMetaFile([]byte("ref: refs/heads/b\n"), "refs", "heads", "a"); err != nil {
		t.Fatalf("write ref a: %v", err)
	}
	if err := r.writeMetaFile([]byte("ref: refs/heads/a\n"), "refs", "heads", "b"); err != nil {
		t.Fatalf("write ref b: %v", err)
	}

	_, err := r.ResolveRef("refs/heads/a")
	if !errors.Is(err, ErrRefCycle) {
		t.Errorf("ResolveRef on cyclic chain: %v, want ErrRefCycle", err)
	}
}

func TestResolveRef_SelfReference(t *testing.T) {
	r := testRepo(t)

	if err := r.writeMetaFile([]byte("ref: refs/heads/self\n"), "refs", "heads", "self"); err != nil {
		t.Fatalf("write ref: %v", err)
	}

	_, err := r.ResolveRef("refs/heads/self")
	if !errors.Is(err, ErrRefCycle) {
		t.Errorf("ResolveRef on self-reference: %v, want ErrRefCycle", err)
	}
}

func TestHead_Detached(t *testing.T) {
	r := testRepo(t)

	if err := r.writeMetaFile([]byte(string(hashC)+"\n"), "HEAD"); err != nil {
		t.Fatalf("write HEAD: %v", err)
	}

	head, err := r.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if head != string(hashC) {
		t.Errorf("Head() = %q, want bare digest %q", head, hashC)
	}
}

// ListRefs visits each level's entries in lexicographic order, files and
// directories interleaved by name.
func TestListRefs_OrderedWalk(t *testing.T) {
	r := testRepo(t)

	if err := r.CreateRef("refs/heads/main", hashA); err != nil {
		t.Fatalf("CreateRef: %v", err)
	}
	if err := r.CreateRef("refs/heads/dev", hashB); err != nil {
		t.Fatalf("CreateRef: %v", err)
	}
	if err := r.CreateRef("refs/tags/v1.0", hashC); err != nil {
		t.Fatalf("CreateRef: %v", err)
	}
	if err := r.CreateRef("refs/tags/release/v1.1", hashA); err != nil {
		t.Fatalf("CreateRef: %v", err)
	}

	refs, err := r.ListRefs("")
	if err != nil {
		t.Fatalf("ListRefs: %v", err)
	}

	want := []RefEntry{
		{Name: "refs/heads/dev", Hash: hashB},
		{Name: "refs/heads/main", Hash: hashA},
		{Name: "refs/tags/release/v1.1", Hash: hashA},
		{Name: "refs/tags/v1.0", Hash: hashC},
	}
	if diff := cmp.Diff(want, refs); diff != "" {
		t.Errorf("ListRefs mismatch (-want +got):\n%s", diff)
	}
}

func TestListRefs_SubtreePrefix(t *testing.T) {
	r := testRepo(t)

	if err := r.CreateRef("refs/heads/main", hashA); err != nil {
		t.Fatalf("CreateRef: %v", err)
	}
	if err := r.CreateRef("refs/tags/v1.0", hashB); err != nil {
		t.Fatalf("CreateRef: %v", err)
	}

	refs, err := r.ListRefs("tags")
	if err != nil {
		t.Fatalf("ListRefs(tags): %v", err)
	}

	want := []RefEntry{{Name: "refs/tags/v1.0", Hash: hashB}}
	if diff := cmp.Diff(want, refs); diff != "" {
		t.Errorf("ListRefs(tags) mismatch (-want +got):\n%s", diff)
	}
}

// An indirect ref inside the tree resolves through to the digest when
// listed.
func TestListRefs_ResolvesIndirect(t *testing.T) {
	r := testRepo(t)

	if err := r.CreateRef("refs/heads/main", hashA); err != nil {
		t.Fatalf("CreateRef: %v", err)
	}
	if err := r.writeMetaFile([]byte("ref: refs/heads/main\n"), "refs", "heads", "alias"); err != nil {
		t.Fatalf("write alias ref: %v", err)
	}

	refs, err := r.ListRefs("heads")
	if err != nil {
		t.Fatalf("ListRefs(heads): %v", err)
	}
	want := []RefEntry{
		{Name: "refs/heads/alias", Hash: hashA},
		{Name: "refs/heads/main", Hash: hashA},
	}
	if diff := cmp.Diff(want, refs); diff != "" {
		t.Errorf("ListRefs mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateRefName(t *testing.T) {
	valid := []string{"main", "v1.0", "release/v1.1", "feature-x"}
	for _, name := range valid {
		if err := validateRefName(name); err != nil {
			t.Errorf("validateRefName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "/lead", "trail/", "a..b", "has space", "has\ttab", "has\nnewline"}
	for _, name := range invalid {
		if err := validateRefName(name); err == nil {
			t.Errorf("validateRefName(%q) = nil, want error", name)
		}
	}
}
