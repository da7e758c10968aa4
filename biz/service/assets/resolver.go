// Package assets resolves object-store references to bytes. It owns
// URL canonicalization and the per-request fetch cache; all other
// components deal only in canonical references.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/slateworks/deckforge/biz/model/deck"
)

// browserHosts are the known browser-facing hostnames mapped onto the
// canonical gs:// scheme.
var browserHosts = map[string]bool{
	"storage.cloud.google.com": true,
	"storage.googleapis.com":   true,
}

// ParseRef normalizes a raw asset URL into its canonical reference.
// Accepted forms:
//
//	gs://{bucket}/{path}
//	https://storage.cloud.google.com/{bucket}/{path}
//	https://storage.googleapis.com/{bucket}/{path}
//
// Anything else fails with deck.ErrInvalidAssetRef.
func ParseRef(raw string) (deck.AssetRef, error) {
	trimmed := strings.TrimSpace(raw)

	var rest string
	switch {
	case strings.HasPrefix(trimmed, "gs://"):
		rest = strings.TrimPrefix(trimmed, "gs://")
	case strings.HasPrefix(trimmed, "https://"):
		hostAndPath := strings.TrimPrefix(trimmed, "https://")
		host, path, ok := strings.Cut(hostAndPath, "/")
		if !ok || !browserHosts[host] {
			return deck.AssetRef{}, fmt.Errorf("%w: unrecognized host in %q", deck.ErrInvalidAssetRef, raw)
		}
		rest = path
	default:
		return deck.AssetRef{}, fmt.Errorf("%w: unsupported scheme in %q", deck.ErrInvalidAssetRef, raw)
	}

	bucket, path, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || path == "" {
		return deck.AssetRef{}, fmt.Errorf("%w: missing bucket or object path in %q", deck.ErrInvalidAssetRef, raw)
	}
	return deck.AssetRef{Bucket: bucket, Path: path}, nil
}

// Canonicalize returns the canonical gs:// form of any accepted URL.
// The transformation is pure and idempotent.
func Canonicalize(raw string) (string, error) {
	ref, err := ParseRef(raw)
	if err != nil {
		return "", err
	}
	return ref.String(), nil
}

// Fetcher is the read-only slice of object storage the resolver needs.
type Fetcher interface {
	FetchFrom(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Result is the outcome of resolving one reference: either fetched
// bytes or a recorded failure. Missing assets are values, not control
// flow; the assembler decides whether they become placeholders.
type Result struct {
	Ref  deck.AssetRef
	Data []byte
	Err  error
}

// Missing reports whether the asset could not be fetched.
func (r Result) Missing() bool { return r.Err != nil }

// Cache holds resolved assets for a single request. It is populated by
// one ResolveAll fan-out and read-only afterwards, so slide layout
// never blocks on I/O.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Result
}

// Lookup returns the resolution result for a reference.
func (c *Cache) Lookup(ref deck.AssetRef) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.entries[ref.String()]
	return res, ok
}

// Len returns the number of cached references.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) store(res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[res.Ref.String()] = res
}

// Options tune resolver behaviour.
type Options struct {
	// FetchTimeout bounds a single asset download. Default 30s.
	FetchTimeout time.Duration
	// Concurrency caps parallel downloads per request. Default 8.
	Concurrency int
}

// Resolver downloads assets from object storage. It never writes.
type Resolver struct {
	fetcher      Fetcher
	fetchTimeout time.Duration
	concurrency  int
}

// NewResolver creates a resolver over the given fetcher.
func NewResolver(fetcher Fetcher, opts Options) *Resolver {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 30 * time.Second
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	return &Resolver{
		fetcher:      fetcher,
		fetchTimeout: opts.FetchTimeout,
		concurrency:  opts.Concurrency,
	}
}

// ResolveAll fetches every unique reference with bounded concurrency
// and returns the populated per-request cache. Duplicate references are
// fetched once. Individual fetch failures are recorded as Missing
// results; only context cancellation aborts the fan-out.
func (r *Resolver) ResolveAll(ctx context.Context, refs []deck.AssetRef) (*Cache, error) {
	cache := &Cache{entries: make(map[string]Result, len(refs))}

	unique := make([]deck.AssetRef, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		key := ref.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, ref)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, ref := range unique {
		ref := ref
		g.Go(func() error {
			data, err := r.fetch(gctx, ref)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				cache.store(Result{Ref: ref, Err: fmt.Errorf("%w: %s: %v", deck.ErrAssetUnavailable, ref, err)})
				return nil
			}
			cache.store(Result{Ref: ref, Data: data})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: asset fan-out aborted", deck.ErrTimeout)
		}
		return nil, err
	}
	return cache, nil
}

// Resolve fetches a single reference through a fresh cache.
func (r *Resolver) Resolve(ctx context.Context, ref deck.AssetRef) (Result, error) {
	cache, err := r.ResolveAll(ctx, []deck.AssetRef{ref})
	if err != nil {
		return Result{}, err
	}
	res, _ := cache.Lookup(ref)
	return res, nil
}

// fetch downloads one object, retrying once with jittered backoff on
// transient failure.
func (r *Resolver) fetch(ctx context.Context, ref deck.AssetRef) ([]byte, error) {
	data, err := r.fetchOnce(ctx, ref)
	if err == nil {
		return data, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	backoff := 200*time.Millisecond + time.Duration(rand.Int63n(int64(300*time.Millisecond)))
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(backoff):
	}
	return r.fetchOnce(ctx, ref)
}

func (r *Resolver) fetchOnce(ctx context.Context, ref deck.AssetRef) ([]byte, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	rc, err := r.fetcher.FetchFrom(fetchCtx, ref.Bucket, ref.Path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}
	return data, nil
}
