// Package deck orchestrates presentation assembly: batched asset
// resolution, per-project slide layout and container serialization.
package deck

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"

	deckmodel "github.com/slateworks/deckforge/biz/model/deck"
	"github.com/slateworks/deckforge/biz/service/assets"
	"github.com/slateworks/deckforge/biz/service/layout"
	"github.com/slateworks/deckforge/biz/service/pptx"
	"github.com/slateworks/deckforge/pkg/storage"
)

// Service assembles decks and stores the resulting artifacts.
type Service struct {
	resolver *assets.Resolver
	store    storage.Storage
}

// NewService creates the assembler over a resolver and an artifact store.
func NewService(resolver *assets.Resolver, store storage.Storage) *Service {
	return &Service{resolver: resolver, store: store}
}

// Assemble renders one slide per project, in request order, and
// serializes the deck to an in-memory container.
//
// All unique asset references are resolved in one bounded fan-out
// before any layout work, so rendering itself never blocks on I/O.
// Unavailable assets become placeholders unless StrictAssets is set.
func (s *Service) Assemble(ctx context.Context, req *deckmodel.DeckRequest) (*deckmodel.RenderedDeck, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cache, err := s.resolver.ResolveAll(ctx, collectRefs(req))
	if err != nil {
		return nil, err
	}

	if req.StrictAssets {
		for _, ref := range collectRefs(req) {
			if res, ok := cache.Lookup(ref); ok && res.Missing() {
				return nil, res.Err
			}
		}
	}

	slides := make([]*layout.Slide, 0, len(req.Projects))
	var warnings []deckmodel.Warning
	for i := range req.Projects {
		project := &req.Projects[i]

		in := layout.Input{Spec: *project}
		if project.Logo != nil {
			if res, ok := cache.Lookup(*project.Logo); ok && !res.Missing() {
				in.Logo = res.Data
			}
		}
		in.Images = make([][]byte, len(project.Images))
		for j, img := range project.Images {
			if res, ok := cache.Lookup(img.Asset); ok && !res.Missing() {
				in.Images[j] = res.Data
			}
		}

		slide, slideWarnings := layout.Compose(in)
		for _, msg := range slideWarnings {
			hlog.CtxWarnf(ctx, "project %d: %s", i, msg)
			warnings = append(warnings, deckmodel.Warning{Project: i, Message: msg})
		}
		slides = append(slides, slide)
	}

	data, err := pptx.Write(slides)
	if err != nil {
		return nil, fmt.Errorf("%w: serialize presentation: %v", deckmodel.ErrInternal, err)
	}

	return &deckmodel.RenderedDeck{
		Data:        data,
		ContentType: deckmodel.ContentTypePPTX,
		Warnings:    warnings,
	}, nil
}

// Upload stores a rendered deck under a dated, time-sorted key and
// returns its public URL. Once the upload starts the operation is
// committed: caller cancellation no longer aborts it.
func (s *Service) Upload(ctx context.Context, rendered *deckmodel.RenderedDeck) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: canceled before upload", deckmodel.ErrTimeout)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("%w: artifact id: %v", deckmodel.ErrInternal, err)
	}
	key := fmt.Sprintf("presentations/%s/%s.pptx", time.Now().UTC().Format("2006-01-02"), id)

	uploadCtx := context.WithoutCancel(ctx)
	if err := s.store.PutObject(uploadCtx, key, bytes.NewReader(rendered.Data), rendered.ContentType, int64(len(rendered.Data))); err != nil {
		return "", fmt.Errorf("%w: upload artifact: %v", deckmodel.ErrInternal, err)
	}

	url, err := s.store.GenerateURL(uploadCtx, key)
	if err != nil {
		return "", fmt.Errorf("%w: artifact url: %v", deckmodel.ErrInternal, err)
	}
	hlog.CtxInfof(ctx, "uploaded presentation %s (%d bytes)", key, len(rendered.Data))
	return url, nil
}

// AssembleAndUpload is the multi-slide flow: assemble, then store.
func (s *Service) AssembleAndUpload(ctx context.Context, req *deckmodel.DeckRequest) (string, *deckmodel.RenderedDeck, error) {
	rendered, err := s.Assemble(ctx, req)
	if err != nil {
		return "", nil, err
	}
	url, err := s.Upload(ctx, rendered)
	if err != nil {
		return "", nil, err
	}
	return url, rendered, nil
}

// collectRefs gathers every asset reference in the request, in input
// order. The resolver deduplicates canonical-equal references.
func collectRefs(req *deckmodel.DeckRequest) []deckmodel.AssetRef {
	var refs []deckmodel.AssetRef
	for i := range req.Projects {
		if req.Projects[i].Logo != nil {
			refs = append(refs, *req.Projects[i].Logo)
		}
		for _, img := range req.Projects[i].Images {
			refs = append(refs, img.Asset)
		}
	}
	return refs
}
