package http_identity_middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	http_common "github.com/ShivanshCoding36/college-companion/internal/delivery/http/common"
)

// Header carries the caller id asserted by the upstream authenticator.
const Header = "X-user-id"

const userIDKey = "user_id"

type Middleware struct {
	logger *slog.Logger
}

func New() *Middleware {
	return &Middleware{
		logger: slog.Default(),
	}
}

func (m *Middleware) IdentityRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := strings.TrimSpace(ctx.GetHeader(Header))
		if userID == "" {
			m.logger.Warn("request without identity", slog.String("path", ctx.FullPath()))
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, http_common.ErrorResponse{
				Message: "no " + Header + " header",
			})
			return
		}

		ctx.Set(userIDKey, userID)
		ctx.Next()
	}
}

// UserID returns the caller id set by IdentityRequired.
func UserID(ctx *gin.Context) string {
	return ctx.GetString(userIDKey)
}
