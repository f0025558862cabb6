package storage

import (
	"context"
	"os"
	"testing"
	"time"
)

func newStore(t *testing.T) *FSStore {
	t.Helper()
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}
	return store
}

func TestFSStorePutAndGet(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	data := []byte("- id: home\n  path: /\n")

	hash, err := store.Put(ctx, "build-1", data)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if len(hash) != 64 {
		t.Fatalf("expected sha256 hex hash, got %q", hash)
	}
	if _, err := os.Stat(store.objectPath(hash)); err != nil {
		t.Errorf("Object file not created: %v", err)
	}

	got, err := store.Get(ctx, hash)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("Got data %q, want %q", got, data)
	}

	ref, err := store.ForBuild(ctx, "build-1")
	if err != nil {
		t.Fatalf("ForBuild failed: %v", err)
	}
	if ref != hash {
		t.Errorf("ForBuild = %q, want %q", ref, hash)
	}
}

func TestFSStoreDeduplicates(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	h1, err := store.Put(ctx, "build-1", []byte("same"))
	if err != nil {
		t.Fatal(err)
	}
	h2, err := store.Put(ctx, "build-2", []byte("same"))
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("identical content should share a hash: %s != %s", h1, h2)
	}
}

func TestFSStoreNotFound(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "abcdef"); !IsNotFound(err) {
		t.Errorf("expected ErrNotFound from Get, got %v", err)
	}
	if _, err := store.ForBuild(ctx, "missing"); !IsNotFound(err) {
		t.Errorf("expected ErrNotFound from ForBuild, got %v", err)
	}
}

func TestFSStoreForBuildPrefix(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	hash, _ := store.Put(ctx, "3f2a9c10-aaaa", []byte("one"))
	_, _ = store.Put(ctx, "3f2b0000-bbbb", []byte("two"))

	got, err := store.ForBuild(ctx, "3f2a")
	if err != nil {
		t.Fatalf("ForBuild prefix failed: %v", err)
	}
	if got != hash {
		t.Errorf("ForBuild prefix = %q, want %q", got, hash)
	}

	if _, err := store.ForBuild(ctx, "3f2"); err == nil || IsNotFound(err) {
		t.Errorf("expected ambiguity error, got %v", err)
	}
}

func TestFSStoreRejectsBadBuildID(t *testing.T) {
	store := newStore(t)
	for _, id := range []string{"", "..", "a/b", `a\b`} {
		if _, err := store.Put(context.Background(), id, []byte("x")); err == nil {
			t.Errorf("expected error for build id %q", id)
		}
	}
}

func TestFSStorePrune(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	var hashes []string
	for i, id := range []string{"b1", "b2", "b3"} {
		h, err := store.Put(ctx, id, []byte(id))
		if err != nil {
			t.Fatal(err)
		}
		hashes = append(hashes, h)
		ts := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(store.refPath(id), ts, ts); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := store.Prune(ctx, 2)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := store.ForBuild(ctx, "b1"); !IsNotFound(err) {
		t.Errorf("oldest build ref should be gone, got %v", err)
	}
	if _, err := store.Get(ctx, hashes[0]); !IsNotFound(err) {
		t.Errorf("unreferenced snapshot should be gone, got %v", err)
	}
	if _, err := store.Get(ctx, hashes[2]); err != nil {
		t.Errorf("newest snapshot should remain: %v", err)
	}

	if n, err := store.Prune(ctx, 0); err != nil || n != 0 {
		t.Errorf("keep=0 disables pruning, got n=%d err=%v", n, err)
	}
}
