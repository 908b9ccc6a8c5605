package http_room

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	http_common "github.com/ShivanshCoding36/college-companion/internal/delivery/http/common"
	http_identity_middleware "github.com/ShivanshCoding36/college-companion/internal/delivery/http/middleware/identity"
	"github.com/ShivanshCoding36/college-companion/internal/model"
	usecase_room "github.com/ShivanshCoding36/college-companion/internal/usecase/room"
)

type Controller struct {
	usecase  *usecase_room.Usecase
	identity *http_identity_middleware.Middleware
	logger   *slog.Logger
}

func New(
	usecase *usecase_room.Usecase,
	identity *http_identity_middleware.Middleware,
) *Controller {
	return &Controller{
		usecase:  usecase,
		identity: identity,
		logger:   slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	rooms := router.Group("/rooms", c.identity.IdentityRequired())
	{
		rooms.POST("", c.create)
		rooms.GET("/:room_id", c.room)
		rooms.DELETE("/:room_id", c.close)
		rooms.GET("/:room_id/members", c.members)
		rooms.POST("/:room_id/members", c.join)
		rooms.DELETE("/:room_id/members/me", c.leave)
	}
	router.GET("/users/me/rooms", c.identity.IdentityRequired(), c.userRooms)
}

type CreateRequestDTO struct {
	DisplayName string `json:"display_name"`
}

type CreateResponseDTO struct {
	RoomID string `json:"room_id"`
}

type JoinRequestDTO struct {
	DisplayName string `json:"display_name"`
}

type RoomDTO struct {
	ID          string    `json:"room_id"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	Capacity    int       `json:"capacity"`
	Status      string    `json:"status"`
	MemberCount int       `json:"member_count"`
}

type MemberDTO struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	JoinedAt    time.Time `json:"joined_at"`
}

func toRoomDTO(r model.Room) RoomDTO {
	return RoomDTO{
		ID:          string(r.ID),
		OwnerID:     r.OwnerID,
		CreatedAt:   r.CreatedAt,
		Capacity:    r.Capacity,
		Status:      r.Status,
		MemberCount: r.MemberCount,
	}
}

func toMemberDTOs(members []model.Member) []MemberDTO {
	out := make([]MemberDTO, 0, len(members))
	for _, m := range members {
		out = append(out, MemberDTO{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			JoinedAt:    m.JoinedAt,
		})
	}
	return out
}

// Create
// @Summary Create a study room
// @Description Creates a room with the caller as owner and only member
// @Tags Rooms
// @Accept json
// @Produce json
// @Param X-user-id header string true "Caller id"
// @Param request body CreateRequestDTO false "Owner display name"
// @Success 201 {object} CreateResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Failure 503 {object} http_common.ErrorResponse
// @Router /rooms [post]
func (c *Controller) create(ctx *gin.Context) {
	var req CreateRequestDTO
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: "invalid request format",
			})
			return
		}
	}

	roomID, err := c.usecase.CreateRoom(ctx, http_identity_middleware.UserID(ctx), req.DisplayName)
	if err != nil {
		c.fail(ctx, "failed to create room", err)
		return
	}

	ctx.JSON(http.StatusCreated, CreateResponseDTO{
		RoomID: string(roomID),
	})
}

// Room
// @Summary Get a room
// @Tags Rooms
// @Produce json
// @Param X-user-id header string true "Caller id"
// @Param room_id path string true "Room id"
// @Success 200 {object} RoomDTO
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 503 {object} http_common.ErrorResponse
// @Router /rooms/{room_id} [get]
func (c *Controller) room(ctx *gin.Context) {
	room, err := c.usecase.Room(ctx, model.RoomID(ctx.Param("room_id")))
	if err != nil {
		c.fail(ctx, "failed to get room", err)
		return
	}

	ctx.JSON(http.StatusOK, toRoomDTO(room))
}

// Members
// @Summary List room members
// @Description Members ordered by join time, owner first
// @Tags Rooms
// @Produce json
// @Param X-user-id header string true "Caller id"
// @Param room_id path string true "Room id"
// @Success 200 {array} MemberDTO
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 503 {object} http_common.ErrorResponse
// @Router /rooms/{room_id}/members [get]
func (c *Controller) members(ctx *gin.Context) {
	members, err := c.usecase.Members(ctx, model.RoomID(ctx.Param("room_id")))
	if err != nil {
		c.fail(ctx, "failed to list members", err)
		return
	}

	ctx.JSON(http.StatusOK, toMemberDTOs(members))
}

// Join
// @Summary Join a room
// @Description Joining a room the caller is already in succeeds without changes
// @Tags Rooms
// @Accept json
// @Param X-user-id header string true "Caller id"
// @Param room_id path string true "Room id"
// @Param request body JoinRequestDTO false "Display name"
// @Success 204
// @Failure 404 {object} http_common.ErrorResponse "Room not found or closed"
// @Failure 409 {object} http_common.ErrorResponse "Room is full"
// @Failure 503 {object} http_common.ErrorResponse
// @Router /rooms/{room_id}/members [post]
func (c *Controller) join(ctx *gin.Context) {
	var req JoinRequestDTO
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: "invalid request format",
			})
			return
		}
	}

	err := c.usecase.JoinRoom(ctx, model.RoomID(ctx.Param("room_id")), http_identity_middleware.UserID(ctx), req.DisplayName)
	if err != nil {
		c.fail(ctx, "failed to join room", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Leave
// @Summary Leave a room
// @Description The last member leaving deletes the room
// @Tags Rooms
// @Param X-user-id header string true "Caller id"
// @Param room_id path string true "Room id"
// @Success 204
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 503 {object} http_common.ErrorResponse
// @Router /rooms/{room_id}/members/me [delete]
func (c *Controller) leave(ctx *gin.Context) {
	err := c.usecase.LeaveRoom(ctx, model.RoomID(ctx.Param("room_id")), http_identity_middleware.UserID(ctx))
	if err != nil {
		c.fail(ctx, "failed to leave room", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Close
// @Summary Close a room
// @Description Owner only. Removes every member and deletes the room
// @Tags Rooms
// @Param X-user-id header string true "Caller id"
// @Param room_id path string true "Room id"
// @Success 204
// @Failure 403 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 503 {object} http_common.ErrorResponse
// @Router /rooms/{room_id} [delete]
func (c *Controller) close(ctx *gin.Context) {
	err := c.usecase.CloseRoom(ctx, model.RoomID(ctx.Param("room_id")), http_identity_middleware.UserID(ctx))
	if err != nil {
		c.fail(ctx, "failed to close room", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// UserRooms
// @Summary Rooms of the caller
// @Description Active rooms the caller belongs to, most recently joined first
// @Tags Rooms
// @Produce json
// @Param X-user-id header string true "Caller id"
// @Success 200 {array} RoomDTO
// @Failure 503 {object} http_common.ErrorResponse
// @Router /users/me/rooms [get]
func (c *Controller) userRooms(ctx *gin.Context) {
	rooms, err := c.usecase.GetUserRooms(ctx, http_identity_middleware.UserID(ctx))
	if err != nil {
		c.fail(ctx, "failed to list user rooms", err)
		return
	}

	out := make([]RoomDTO, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, toRoomDTO(r))
	}
	ctx.JSON(http.StatusOK, out)
}

func (c *Controller) fail(ctx *gin.Context, msg string, err error) {
	status, message := StatusFor(err)
	if status >= http.StatusInternalServerError {
		c.logger.Error(msg, slog.String("error", err.Error()))
	} else {
		c.logger.Warn(msg, slog.String("error", err.Error()))
	}
	ctx.JSON(status, http_common.ErrorResponse{
		Message: message,
	})
}

// StatusFor maps room errors to an HTTP status and a message safe to show.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, usecase_room.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, usecase_room.ErrRoomNotFound):
		return http.StatusNotFound, "room not found"
	case errors.Is(err, usecase_room.ErrNotMember):
		return http.StatusNotFound, "not a member of this room"
	case errors.Is(err, usecase_room.ErrRoomFull):
		return http.StatusConflict, "room is full"
	case errors.Is(err, usecase_room.ErrNotOwner):
		return http.StatusForbidden, "only the owner can close the room"
	case errors.Is(err, usecase_room.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
