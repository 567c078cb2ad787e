package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nexusai/billing/internal/types"
)

// RequestIDMiddleware threads a request id and the acting user through the
// request context. Ledger entries written by the request are attributed to
// the X-Actor-ID header when present.
func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	ctx = types.SetRequestID(ctx, requestID)

	if actorID := c.GetHeader(types.HeaderActorID); actorID != "" {
		ctx = types.SetActorID(ctx, actorID)
	}

	c.Request = c.Request.WithContext(ctx)
	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}
