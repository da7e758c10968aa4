package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := New(t.TempDir(), "output")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx := context.Background()

	key := "presentations/2026-01-15/deck.pptx"
	payload := []byte("container bytes")
	if err := store.PutObject(ctx, key, bytes.NewReader(payload), "application/zip", int64(len(payload))); err != nil {
		t.Fatalf("PutObject failed: %v", err)
	}

	exists, err := store.ObjectExists(ctx, key)
	if err != nil || !exists {
		t.Fatalf("ObjectExists = %v, %v", exists, err)
	}

	rc, err := store.GetObject(ctx, key)
	if err != nil {
		t.Fatalf("GetObject failed: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read object: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("object data mismatch: %q", got)
	}

	url, err := store.GenerateURL(ctx, key)
	if err != nil {
		t.Fatalf("GenerateURL failed: %v", err)
	}
	if !strings.HasSuffix(url, key) {
		t.Errorf("url %q does not reference key", url)
	}
}

func TestLocalStorageFetchFromOtherBucket(t *testing.T) {
	store, err := New(t.TempDir(), "output")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx := context.Background()

	// Objects in foreign buckets are visible through FetchFrom only.
	if _, err := store.FetchFrom(ctx, "assets", "missing.png"); err == nil {
		t.Fatal("expected error for a missing object")
	}
}
