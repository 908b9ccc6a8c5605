package http_attendance

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	http_common "github.com/ShivanshCoding36/college-companion/internal/delivery/http/common"
	http_identity_middleware "github.com/ShivanshCoding36/college-companion/internal/delivery/http/middleware/identity"
	"github.com/ShivanshCoding36/college-companion/internal/model"
	usecase_attendance "github.com/ShivanshCoding36/college-companion/internal/usecase/attendance"
)

type Controller struct {
	uc       *usecase_attendance.Usecase
	identity *http_identity_middleware.Middleware
	logger   *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(
	uc *usecase_attendance.Usecase,
	identity *http_identity_middleware.Middleware,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		uc:       uc,
		identity: identity,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	advisor := router.Group("/ai-attendance", c.identity.IdentityRequired())
	{
		advisor.POST("/chat", c.chat)
		advisor.GET("/history", c.history)
	}
}

// ChatRequestDTO
type ChatRequestDTO struct {
	Question  string `json:"question" binding:"required" example:"Can I skip Friday's lab?"`
	Attended  int    `json:"attended" example:"30"`
	Conducted int    `json:"conducted" binding:"required" example:"40"`
	Target    int    `json:"target,omitempty" example:"75"`
}

// QueryDTO
type QueryDTO struct {
	ID        string         `json:"id"`
	Question  string         `json:"question"`
	Context   map[string]any `json:"context"`
	Response  map[string]any `json:"response"`
	CreatedAt time.Time      `json:"created_at"`
}

func toDTO(q model.AttendanceQuery) QueryDTO {
	return QueryDTO{
		ID:        q.ID.String(),
		Question:  q.Question,
		Context:   q.Context,
		Response:  q.Response,
		CreatedAt: q.CreatedAt,
	}
}

// Chat
// @Summary Ask the attendance advisor
// @Description Computes the attendance outlook and asks the AI backend for advice. The exchange is stored.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param X-user-id header string true "Caller id"
// @Param request body ChatRequestDTO true "Question and attendance numbers"
// @Success 200 {object} QueryDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 401 {object} http_common.ErrorResponse
// @Failure 502 {object} http_common.ErrorResponse "AI backend failed"
// @Failure 500 {object} http_common.ErrorResponse
// @Router /ai-attendance/chat [post]
func (c *Controller) chat(ctx *gin.Context) {
	var req ChatRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	query, err := c.uc.Ask(ctx, http_identity_middleware.UserID(ctx), req.Question, model.Attendance{
		Attended:  req.Attended,
		Conducted: req.Conducted,
		Target:    req.Target,
	})
	if err != nil {
		c.fail(ctx, "failed to answer attendance question", err)
		return
	}

	ctx.JSON(http.StatusOK, toDTO(query))
}

// History
// @Summary Attendance advisor history
// @Description Most recent first
// @Tags Attendance
// @Produce json
// @Param X-user-id header string true "Caller id"
// @Param limit query int false "Max entries (default 20, max 100)"
// @Success 200 {array} QueryDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 401 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /ai-attendance/history [get]
func (c *Controller) history(ctx *gin.Context) {
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: "limit must be a number",
			})
			return
		}
		limit = n
	}

	queries, err := c.uc.History(ctx, http_identity_middleware.UserID(ctx), limit)
	if err != nil {
		c.fail(ctx, "failed to get attendance history", err)
		return
	}

	out := make([]QueryDTO, 0, len(queries))
	for _, q := range queries {
		out = append(out, toDTO(q))
	}
	ctx.JSON(http.StatusOK, out)
}

func (c *Controller) fail(ctx *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, usecase_attendance.ErrInvalidInput):
		c.logger.Warn(msg, slog.String("error", err.Error()))
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid attendance numbers or question",
		})
	case errors.Is(err, usecase_attendance.ErrAIRequestFailed):
		c.logger.Error(msg, slog.String("error", err.Error()))
		ctx.JSON(http.StatusBadGateway, http_common.ErrorResponse{
			Message: "advisor is unavailable",
		})
	default:
		c.logger.Error(msg, slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
	}
}
