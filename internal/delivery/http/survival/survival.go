package http_survival

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
	usecase_survival "github.com/ShivanshCoding36/college-companion/internal/usecase/survival"
)

type Controller struct {
	uc       *usecase_survival.Usecase
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
	uc *usecase_survival.Usecase,
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
	router.POST("/survival-plan", c.plan)

	authorized := router.Group("", c.identity.IdentityRequired())
	{
		authorized.POST("/doubts", c.solveDoubt)
		authorized.GET("/doubts", c.doubts)
		authorized.POST("/questions", c.questions)
	}
}

// PlanRequestDTO
type PlanRequestDTO struct {
	Skills        []string `json:"skills"`
	StressLevel   int      `json:"stress_level" binding:"required" example:"7"`
	TimeAvailable string   `json:"time_available" binding:"required" example:"3 hours a day"`
	ExamDates     []string `json:"exam_dates"`
	Goals         []string `json:"goals"`
}

// PlanResponseDTO
type PlanResponseDTO struct {
	Plan string `json:"plan"`
}

// DoubtRequestDTO
type DoubtRequestDTO struct {
	Question     string `json:"question" binding:"required" example:"Why is quicksort O(n log n) on average?"`
	ContextNotes string `json:"context_notes"`
}

// DoubtDTO
type DoubtDTO struct {
	ID           string    `json:"id"`
	Question     string    `json:"question"`
	ContextNotes string    `json:"context_notes,omitempty"`
	Answer       string    `json:"answer"`
	Sources      []string  `json:"sources"`
	CreatedAt    time.Time `json:"created_at"`
}

// QuestionsRequestDTO
type QuestionsRequestDTO struct {
	Subject    string `json:"subject" binding:"required" example:"Operating Systems"`
	Topic      string `json:"topic" example:"Paging"`
	Difficulty string `json:"difficulty" example:"medium" enums:"easy,medium,hard"`
	Count      int    `json:"count" example:"5"`
}

// QuestionSetDTO
type QuestionSetDTO struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	Topic      string    `json:"topic,omitempty"`
	Difficulty string    `json:"difficulty"`
	Questions  []string  `json:"questions"`
	CreatedAt  time.Time `json:"created_at"`
}

func toDoubtDTO(d model.Doubt) DoubtDTO {
	sources := d.Sources
	if sources == nil {
		sources = []string{}
	}
	return DoubtDTO{
		ID:           d.ID.String(),
		Question:     d.Question,
		ContextNotes: d.ContextNotes,
		Answer:       d.Answer,
		Sources:      sources,
		CreatedAt:    d.CreatedAt,
	}
}

// Plan
// @Summary Generate a semester survival plan
// @Description The plan is generated on every call and is not stored
// @Tags Survival
// @Accept json
// @Produce json
// @Param request body PlanRequestDTO true "Student situation"
// @Success 200 {object} PlanResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 502 {object} http_common.ErrorResponse "AI backend failed"
// @Router /survival-plan [post]
func (c *Controller) plan(ctx *gin.Context) {
	var req PlanRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	plan, err := c.uc.Plan(ctx, model.SurvivalInput{
		Skills:        req.Skills,
		StressLevel:   req.StressLevel,
		TimeAvailable: req.TimeAvailable,
		ExamDates:     req.ExamDates,
		Goals:         req.Goals,
	})
	if err != nil {
		c.fail(ctx, "failed to build survival plan", err)
		return
	}

	ctx.JSON(http.StatusOK, PlanResponseDTO{Plan: plan})
}

// SolveDoubt
// @Summary Solve a doubt
// @Tags Survival
// @Accept json
// @Produce json
// @Param X-user-id header string true "Caller id"
// @Param request body DoubtRequestDTO true "Doubt"
// @Success 201 {object} DoubtDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 401 {object} http_common.ErrorResponse
// @Failure 502 {object} http_common.ErrorResponse "AI backend failed"
// @Failure 500 {object} http_common.ErrorResponse
// @Router /doubts [post]
func (c *Controller) solveDoubt(ctx *gin.Context) {
	var req DoubtRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	doubt, err := c.uc.SolveDoubt(ctx, http_identity_middleware.UserID(ctx), req.Question, req.ContextNotes)
	if err != nil {
		c.fail(ctx, "failed to solve doubt", err)
		return
	}

	ctx.JSON(http.StatusCreated, toDoubtDTO(doubt))
}

// Doubts
// @Summary List solved doubts
// @Description Most recent first
// @Tags Survival
// @Produce json
// @Param X-user-id header string true "Caller id"
// @Param limit query int false "Max entries (default 20, max 100)"
// @Success 200 {array} DoubtDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 401 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /doubts [get]
func (c *Controller) doubts(ctx *gin.Context) {
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

	doubts, err := c.uc.Doubts(ctx, http_identity_middleware.UserID(ctx), limit)
	if err != nil {
		c.fail(ctx, "failed to list doubts", err)
		return
	}

	out := make([]DoubtDTO, 0, len(doubts))
	for _, d := range doubts {
		out = append(out, toDoubtDTO(d))
	}
	ctx.JSON(http.StatusOK, out)
}

// Questions
// @Summary Generate practice questions
// @Tags Survival
// @Accept json
// @Produce json
// @Param X-user-id header string true "Caller id"
// @Param request body QuestionsRequestDTO true "Subject and difficulty"
// @Success 201 {object} QuestionSetDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 401 {object} http_common.ErrorResponse
// @Failure 502 {object} http_common.ErrorResponse "AI backend failed"
// @Failure 500 {object} http_common.ErrorResponse
// @Router /questions [post]
func (c *Controller) questions(ctx *gin.Context) {
	var req QuestionsRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	set, err := c.uc.GenerateQuestions(ctx, http_identity_middleware.UserID(ctx), model.QuestionRequest{
		Subject:    req.Subject,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Count:      req.Count,
	})
	if err != nil {
		c.fail(ctx, "failed to generate questions", err)
		return
	}

	ctx.JSON(http.StatusCreated, QuestionSetDTO{
		ID:         set.ID.String(),
		Subject:    set.Subject,
		Topic:      set.Topic,
		Difficulty: set.Difficulty,
		Questions:  set.Questions,
		CreatedAt:  set.CreatedAt,
	})
}

func (c *Controller) fail(ctx *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, usecase_survival.ErrInvalidInput):
		c.logger.Warn(msg, slog.String("error", err.Error()))
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid input",
		})
	case errors.Is(err, usecase_survival.ErrAIRequestFailed):
		c.logger.Error(msg, slog.String("error", err.Error()))
		ctx.JSON(http.StatusBadGateway, http_common.ErrorResponse{
			Message: "AI backend is unavailable",
		})
	default:
		c.logger.Error(msg, slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
	}
}
