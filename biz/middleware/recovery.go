package middleware

import (
	"context"
	"runtime/debug"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
)

// Recovery returns a middleware that recovers from panics. The panic
// detail is logged with an incident id; the client only receives the
// id, never the stack.
func Recovery() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				incidentID := uuid.NewString()
				hlog.CtxErrorf(ctx, "panic recovered [%s]: %v\n%s", incidentID, err, string(debug.Stack()))

				c.JSON(consts.StatusInternalServerError, map[string]any{
					"code":        consts.StatusInternalServerError,
					"error":       "internal error",
					"incident_id": incidentID,
				})
				c.Abort()
			}
		}()

		c.Next(ctx)
	}
}
