package handler

import (
	"context"
	"io"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"gorm.io/gorm"

	deckmodel "github.com/slateworks/deckforge/biz/model/deck"
	"github.com/slateworks/deckforge/pkg/storage"
)

// ArtifactHandler serves uploaded presentations straight from the
// output bucket. Only the local backend routes artifact URLs here; the
// s3 backend hands out bucket URLs instead.
type ArtifactHandler struct {
	store storage.Storage
}

func NewArtifactHandler(store storage.Storage) *ArtifactHandler {
	return &ArtifactHandler{store: store}
}

// Download streams a stored artifact.
//
// GET /api/v1/artifacts/*key
func (h *ArtifactHandler) Download(ctx context.Context, c *app.RequestContext) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" || strings.Contains(key, "..") {
		writeError(ctx, c, gorm.ErrRecordNotFound)
		return
	}

	obj, err := h.store.GetObject(ctx, key)
	if err != nil {
		writeError(ctx, c, gorm.ErrRecordNotFound)
		return
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	c.Data(consts.StatusOK, deckmodel.ContentTypePPTX, data)
}
