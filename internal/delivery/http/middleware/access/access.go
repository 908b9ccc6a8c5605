package http_access_middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	http_common "github.com/ShivanshCoding36/college-companion/internal/delivery/http/common"
)

const (
	ModeReadWrite = "RW"
	ModeReadOnly  = "RO"
)

// ReadOnly rejects every non-GET request when mode is ModeReadOnly.
// Websocket handshakes are GETs and still pass.
func ReadOnly(mode string) gin.HandlerFunc {
	logger := slog.Default()
	return func(ctx *gin.Context) {
		if mode != ModeReadOnly || ctx.Request.Method == http.MethodGet || ctx.Request.Method == http.MethodHead {
			ctx.Next()
			return
		}

		logger.Warn("write on read-only instance",
			slog.String("method", ctx.Request.Method),
			slog.String("path", ctx.Request.URL.Path),
		)
		ctx.AbortWithStatusJSON(http.StatusBadGateway, http_common.ErrorResponse{
			Message: "write operations are not allowed on a read-only instance",
		})
	}
}
