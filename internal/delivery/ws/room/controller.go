package ws_room

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	http_common "github.com/ShivanshCoding36/college-companion/internal/delivery/http/common"
	http_identity_middleware "github.com/ShivanshCoding36/college-companion/internal/delivery/http/middleware/identity"
	http_room "github.com/ShivanshCoding36/college-companion/internal/delivery/http/room"
	"github.com/ShivanshCoding36/college-companion/internal/model"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Controller struct {
	hub    *Hub
	logger *slog.Logger
}

func NewController(hub *Hub) *Controller {
	return &Controller{
		hub:    hub,
		logger: slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ws/rooms/:room_id", c.roomWS)
}

// RoomWS
// @Summary Live presence of a room
// @Description Streams PRESENCE_UPDATE, ROOM_CLOSED and ERROR events. Members only. Disconnecting leaves the room.
// @Tags Rooms
// @Param room_id path string true "Room id"
// @Param user_id query string false "Caller id, when the X-user-id header cannot be set"
// @Success 101
// @Failure 401 {object} http_common.ErrorResponse
// @Failure 403 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Router /ws/rooms/{room_id} [get]
func (c *Controller) roomWS(ctx *gin.Context) {
	roomID := model.RoomID(ctx.Param("room_id"))

	// Browsers cannot set headers on a websocket handshake.
	userID := ctx.GetHeader(http_identity_middleware.Header)
	if userID == "" {
		userID = ctx.Query("user_id")
	}
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{
			Message: "no user id",
		})
		return
	}

	ok, err := c.hub.usecase.IsMember(ctx, roomID, userID)
	if err != nil {
		status, message := http_room.StatusFor(err)
		c.logger.Error("failed to check membership", slog.String("error", err.Error()))
		ctx.JSON(status, http_common.ErrorResponse{
			Message: message,
		})
		return
	}
	if !ok {
		ctx.JSON(http.StatusForbidden, http_common.ErrorResponse{
			Message: "not a member of this room",
		})
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("failed to upgrade to websocket",
			slog.String("error", err.Error()),
		)
		return
	}

	client := NewClient(c.hub, conn, roomID, userID)
	c.hub.Register(client)

	go c.hub.StartClientReading(client)
	go c.hub.StartClientWriting(client)
}
