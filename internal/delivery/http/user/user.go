package http_user

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	http_common "github.com/ShivanshCoding36/college-companion/internal/delivery/http/common"
	"github.com/ShivanshCoding36/college-companion/internal/model"
	usecase_user "github.com/ShivanshCoding36/college-companion/internal/usecase/user"
)

type Controller struct {
	uc     *usecase_user.Usecase
	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(uc *usecase_user.Usecase, opts ...ControllerOption) *Controller {
	c := &Controller{
		uc:     uc,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("", c.create)
		users.GET("/:id", c.get)
		users.PATCH("/:id", c.patch)
		users.POST("/:id/onboarding", c.onboard)
	}
}

// CreateRequestDTO
type CreateRequestDTO struct {
	Email       string `json:"email" binding:"required" example:"asha@college.edu"`
	DisplayName string `json:"display_name" example:"Asha"`
}

// PatchRequestDTO
type PatchRequestDTO struct {
	DisplayName *string `json:"display_name,omitempty"`
	College     *string `json:"college,omitempty"`
	Branch      *string `json:"branch,omitempty"`
	Semester    *int    `json:"semester,omitempty" example:"3"`
}

// OnboardingRequestDTO
type OnboardingRequestDTO struct {
	Answers json.RawMessage `json:"answers" binding:"required" swaggertype:"object"`
}

// UserDTO
type UserDTO struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	DisplayName string          `json:"display_name"`
	College     string          `json:"college"`
	Branch      string          `json:"branch"`
	Semester    int             `json:"semester"`
	Onboarded   bool            `json:"onboarded"`
	Onboarding  json.RawMessage `json:"onboarding,omitempty" swaggertype:"object"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toDTO(u model.User) UserDTO {
	return UserDTO{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		College:     u.College,
		Branch:      u.Branch,
		Semester:    u.Semester,
		Onboarded:   u.Onboarded,
		Onboarding:  u.Onboarding,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// Create
// @Summary Register a user
// @Tags Users
// @Accept json
// @Produce json
// @Param request body CreateRequestDTO true "New user"
// @Success 201 {object} UserDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 409 {object} http_common.ErrorResponse "Email already registered"
// @Failure 500 {object} http_common.ErrorResponse
// @Router /users [post]
func (c *Controller) create(ctx *gin.Context) {
	var req CreateRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	user, err := c.uc.Create(ctx, req.Email, req.DisplayName)
	if err != nil {
		c.fail(ctx, "failed to create user", err)
		return
	}

	ctx.JSON(http.StatusCreated, toDTO(user))
}

// Get
// @Summary Get a user profile
// @Tags Users
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} UserDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Router /users/{id} [get]
func (c *Controller) get(ctx *gin.Context) {
	id, ok := c.parseID(ctx)
	if !ok {
		return
	}

	user, err := c.uc.Get(ctx, id)
	if err != nil {
		c.fail(ctx, "failed to get user", err)
		return
	}

	ctx.JSON(http.StatusOK, toDTO(user))
}

// Patch
// @Summary Update a user profile
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User id"
// @Param request body PatchRequestDTO true "Fields to change"
// @Success 200 {object} UserDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Router /users/{id} [patch]
func (c *Controller) patch(ctx *gin.Context) {
	id, ok := c.parseID(ctx)
	if !ok {
		return
	}

	var req PatchRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	user, err := c.uc.Patch(ctx, id, model.UserPatch{
		DisplayName: req.DisplayName,
		College:     req.College,
		Branch:      req.Branch,
		Semester:    req.Semester,
	})
	if err != nil {
		c.fail(ctx, "failed to patch user", err)
		return
	}

	ctx.JSON(http.StatusOK, toDTO(user))
}

// Onboard
// @Summary Complete onboarding
// @Description Stores the onboarding answers and marks the profile onboarded
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User id"
// @Param request body OnboardingRequestDTO true "Onboarding answers"
// @Success 200 {object} UserDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Router /users/{id}/onboarding [post]
func (c *Controller) onboard(ctx *gin.Context) {
	id, ok := c.parseID(ctx)
	if !ok {
		return
	}

	var req OnboardingRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	user, err := c.uc.Onboard(ctx, id, req.Answers)
	if err != nil {
		c.fail(ctx, "failed to onboard user", err)
		return
	}

	ctx.JSON(http.StatusOK, toDTO(user))
}

func (c *Controller) parseID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid user id",
		})
		return uuid.Nil, false
	}
	return id, true
}

func (c *Controller) fail(ctx *gin.Context, msg string, err error) {
	c.logger.Error(msg, slog.String("error", err.Error()))
	switch {
	case errors.Is(err, usecase_user.ErrInvalidInput):
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid input",
		})
	case errors.Is(err, usecase_user.ErrResourceNotFound):
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
			Message: "not found",
		})
	case errors.Is(err, usecase_user.ErrEmailConflict):
		ctx.JSON(http.StatusConflict, http_common.ErrorResponse{
			Message: "email already registered",
		})
	default:
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
	}
}
