package ws_room

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ShivanshCoding36/college-companion/internal/model"
	usecase_presence "github.com/ShivanshCoding36/college-companion/internal/usecase/presence"
	usecase_room "github.com/ShivanshCoding36/college-companion/internal/usecase/room"
)

const (
	EventPresenceUpdate = "PRESENCE_UPDATE"
	EventRoomClosed     = "ROOM_CLOSED"
	EventError          = "ERROR"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
	leaveWait  = 5 * time.Second
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type MemberPayload struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	JoinedAt    time.Time `json:"joined_at"`
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan Event
	done   chan struct{}
	once   sync.Once
	userID string
	roomID model.RoomID

	// Set when the hub cut the client off for falling behind.
	dropped atomic.Bool

	stopObserving func()
}

func NewClient(hub *Hub, conn *websocket.Conn, roomID model.RoomID, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan Event, sendBuffer),
		done:   make(chan struct{}),
		userID: userID,
		roomID: roomID,
	}
}

// push never blocks. A client too slow to drain its buffer is dropped.
func (c *Client) push(event Event) {
	select {
	case <-c.done:
	case c.send <- event:
	default:
		c.hub.logger.Warn("dropping slow client", "user_id", c.userID, "room_id", c.roomID)
		c.dropped.Store(true)
		c.close()
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

type roomClients struct {
	tracker *usecase_presence.Tracker
	clients map[*Client]bool
}

// Hub fans presence of each room out to the websocket clients connected to
// it. All clients of a room share one tracker.
type Hub struct {
	usecase *usecase_room.Usecase
	logger  *slog.Logger

	mu    sync.Mutex
	rooms map[model.RoomID]*roomClients
}

func NewHub(usecase *usecase_room.Usecase) *Hub {
	return &Hub{
		usecase: usecase,
		logger:  slog.Default(),
		rooms:   make(map[model.RoomID]*roomClients),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.roomID]
	if !ok {
		room = &roomClients{
			tracker: usecase_presence.New(h.usecase.Store, client.roomID, usecase_presence.WithLogger(h.logger)),
			clients: make(map[*Client]bool),
		}
		h.rooms[client.roomID] = room
	}
	room.clients[client] = true
	client.stopObserving = room.tracker.Observe(func(members []model.Member, err error) {
		client.push(eventFor(members, err))
	})

	h.logger.Info("client registered",
		"user_id", client.userID,
		"room_id", client.roomID)
}

// Unregister drops the client and, unless the same user is still
// connected from elsewhere, removes them from the room. A client dropped
// for being slow keeps its membership so it can reconnect and resync.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.roomID]
	if !ok || !room.clients[client] {
		h.mu.Unlock()
		return
	}
	delete(room.clients, client)
	client.stopObserving()

	stillConnected := false
	for other := range room.clients {
		if other.userID == client.userID {
			stillConnected = true
			break
		}
	}
	if len(room.clients) == 0 {
		room.tracker.Close()
		delete(h.rooms, client.roomID)
	}
	h.mu.Unlock()

	client.close()
	h.logger.Info("client unregistered",
		"user_id", client.userID,
		"room_id", client.roomID)

	if stillConnected {
		return
	}
	if client.dropped.Load() {
		h.logger.Info("slow client keeps membership",
			"user_id", client.userID,
			"room_id", client.roomID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), leaveWait)
	defer cancel()
	err := h.usecase.LeaveRoom(ctx, client.roomID, client.userID)
	if err != nil && !errors.Is(err, usecase_room.ErrRoomNotFound) && !errors.Is(err, usecase_room.ErrNotMember) {
		h.logger.Error("failed to leave room on disconnect",
			"user_id", client.userID,
			"room_id", client.roomID,
			"error", err)
	}
}

// Connections returns the number of open connections to the room.
func (h *Hub) Connections(roomID model.RoomID) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[roomID]; ok {
		return len(room.clients)
	}
	return 0
}

func (h *Hub) StartClientReading(client *Client) {
	defer h.Unregister(client)

	client.conn.SetReadLimit(512)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) StartClientWriting(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.close()
	}()

	for {
		select {
		case <-client.done:
			return
		case event := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteJSON(event); err != nil {
				return
			}
			if event.Type == EventRoomClosed {
				_ = client.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "room closed"),
					time.Now().Add(writeWait))
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func eventFor(members []model.Member, err error) Event {
	switch {
	case errors.Is(err, usecase_room.ErrRoomNotFound):
		return Event{Type: EventRoomClosed, Payload: map[string]interface{}{}}
	case err != nil:
		return Event{
			Type: EventError,
			Payload: map[string]interface{}{
				"message": "presence temporarily unavailable",
			},
		}
	}

	payload := make([]MemberPayload, 0, len(members))
	for _, m := range members {
		payload = append(payload, MemberPayload{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			JoinedAt:    m.JoinedAt,
		})
	}
	return Event{
		Type: EventPresenceUpdate,
		Payload: map[string]interface{}{
			"members": payload,
		},
	}
}
