package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/slateworks/deckforge/biz/model/deck"
)

// fakeFetcher serves in-memory objects keyed by "bucket/key" and counts
// fetches per object.
type fakeFetcher struct {
	mu       sync.Mutex
	objects  map[string][]byte
	failures map[string]int // remaining failures before success
	counts   map[string]int
	delay    time.Duration
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		objects:  make(map[string][]byte),
		failures: make(map[string]int),
		counts:   make(map[string]int),
	}
}

func (f *fakeFetcher) FetchFrom(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	name := bucket + "/" + key
	f.counts[name]++
	if f.failures[name] > 0 {
		f.failures[name]--
		return nil, errors.New("transient failure")
	}
	data, ok := f.objects[name]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeFetcher) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[name]
}

func TestParseRef(t *testing.T) {
	t.Run("AcceptedForms", func(t *testing.T) {
		inputs := []string{
			"gs://assets/logos/acme.png",
			"https://storage.cloud.google.com/assets/logos/acme.png",
			"https://storage.googleapis.com/assets/logos/acme.png",
		}
		for _, raw := range inputs {
			ref, err := ParseRef(raw)
			if err != nil {
				t.Fatalf("ParseRef(%q) failed: %v", raw, err)
			}
			if ref.Bucket != "assets" || ref.Path != "logos/acme.png" {
				t.Errorf("ParseRef(%q) = %+v", raw, ref)
			}
			if ref.String() != "gs://assets/logos/acme.png" {
				t.Errorf("canonical form = %q", ref.String())
			}
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		first, err := Canonicalize("https://storage.cloud.google.com/b/o.png")
		if err != nil {
			t.Fatalf("Canonicalize failed: %v", err)
		}
		second, err := Canonicalize(first)
		if err != nil {
			t.Fatalf("Canonicalize of canonical form failed: %v", err)
		}
		if first != second {
			t.Errorf("expected %q, got %q", first, second)
		}
	})

	t.Run("Rejected", func(t *testing.T) {
		inputs := []string{
			"",
			"ftp://bucket/object.png",
			"http://storage.googleapis.com/b/o.png",
			"https://example.com/b/o.png",
			"gs://bucket-only",
			"gs:///no-bucket.png",
		}
		for _, raw := range inputs {
			if _, err := ParseRef(raw); !errors.Is(err, deck.ErrInvalidAssetRef) {
				t.Errorf("ParseRef(%q): expected ErrInvalidAssetRef, got %v", raw, err)
			}
		}
	})
}

func TestResolveAllDeduplicates(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.objects["assets/shared.png"] = []byte("pixels")
	r := NewResolver(fetcher, Options{})

	ref := deck.AssetRef{Bucket: "assets", Path: "shared.png"}
	cache, err := r.ResolveAll(context.Background(), []deck.AssetRef{ref, ref, ref})
	if err != nil {
		t.Fatalf("ResolveAll failed: %v", err)
	}

	if got := fetcher.count("assets/shared.png"); got != 1 {
		t.Errorf("expected 1 fetch for duplicated ref, got %d", got)
	}
	res, ok := cache.Lookup(ref)
	if !ok || res.Missing() {
		t.Fatalf("expected cached result, got ok=%v err=%v", ok, res.Err)
	}
	if string(res.Data) != "pixels" {
		t.Errorf("unexpected data %q", res.Data)
	}
	if cache.Len() != 1 {
		t.Errorf("expected 1 cache entry, got %d", cache.Len())
	}
}

func TestResolveAllRecordsMissing(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.objects["assets/ok.png"] = []byte("ok")
	r := NewResolver(fetcher, Options{})

	okRef := deck.AssetRef{Bucket: "assets", Path: "ok.png"}
	badRef := deck.AssetRef{Bucket: "assets", Path: "gone.png"}
	cache, err := r.ResolveAll(context.Background(), []deck.AssetRef{okRef, badRef})
	if err != nil {
		t.Fatalf("ResolveAll failed: %v", err)
	}

	res, ok := cache.Lookup(badRef)
	if !ok {
		t.Fatal("expected a result for the missing asset")
	}
	if !res.Missing() {
		t.Error("expected result to be missing")
	}
	if !errors.Is(res.Err, deck.ErrAssetUnavailable) {
		t.Errorf("expected ErrAssetUnavailable, got %v", res.Err)
	}

	if res, _ := cache.Lookup(okRef); res.Missing() {
		t.Errorf("healthy asset reported missing: %v", res.Err)
	}
}

func TestResolveRetriesOnce(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.objects["assets/flaky.png"] = []byte("eventually")
	fetcher.failures["assets/flaky.png"] = 1
	r := NewResolver(fetcher, Options{})

	ref := deck.AssetRef{Bucket: "assets", Path: "flaky.png"}
	res, err := r.Resolve(context.Background(), ref)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Missing() {
		t.Fatalf("expected retry to succeed, got %v", res.Err)
	}
	if got := fetcher.count("assets/flaky.png"); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestResolveGivesUpAfterRetry(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.objects["assets/broken.png"] = []byte("never served")
	fetcher.failures["assets/broken.png"] = 5
	r := NewResolver(fetcher, Options{})

	ref := deck.AssetRef{Bucket: "assets", Path: "broken.png"}
	res, err := r.Resolve(context.Background(), ref)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !res.Missing() {
		t.Fatal("expected a missing result")
	}
	if got := fetcher.count("assets/broken.png"); got != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", got)
	}
}

func TestResolveAllTimeout(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.objects["assets/slow.png"] = []byte("slow")
	fetcher.delay = 200 * time.Millisecond
	r := NewResolver(fetcher, Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.ResolveAll(ctx, []deck.AssetRef{{Bucket: "assets", Path: "slow.png"}})
	if !errors.Is(err, deck.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}
