package usecase_presence

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/ShivanshCoding36/college-companion/internal/model"
	usecase_room "github.com/ShivanshCoding36/college-companion/internal/usecase/room"
)

type MemberSubscriber interface {
	SubscribeMembers(roomID model.RoomID, cb usecase_room.MemberCallback) (unsubscribe func())
}

// Observer receives the full member list, owner first, after every change.
// err is non-nil when the subscription reports a failure; when the room is
// gone err is usecase_room.ErrRoomNotFound and members is empty.
type Observer func(members []model.Member, err error)

// Tracker keeps the live member list of one room. Snapshots are full
// states tagged with a store revision; stale ones are dropped, so observers
// converge on the latest state whatever order deliveries arrive in.
type Tracker struct {
	roomID model.RoomID
	logger *slog.Logger

	// Serializes notifications so observers see applied states in order.
	notifyMu sync.Mutex

	mu        sync.Mutex
	members   []model.Member
	revision  int64
	lastErr   error
	synced    bool
	gone      bool
	observers map[int]Observer
	nextID    int

	unsubscribe func()
	closeOnce   sync.Once
}

type TrackerOption func(*Tracker)

func WithLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = logger
	}
}

func New(sub MemberSubscriber, roomID model.RoomID, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		roomID:    roomID,
		logger:    slog.Default(),
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(t)
	}

	unsubscribe := sub.SubscribeMembers(roomID, t.apply)

	t.mu.Lock()
	t.unsubscribe = unsubscribe
	t.mu.Unlock()

	return t
}

func (t *Tracker) RoomID() model.RoomID {
	return t.roomID
}

// Observe registers fn. If a snapshot has already been applied fn is
// called with it right away. The returned func removes the observer.
// Observers must not call Observe from inside a notification.
func (t *Tracker) Observe(fn Observer) (remove func()) {
	t.notifyMu.Lock()
	defer t.notifyMu.Unlock()

	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.observers[id] = fn

	synced := t.synced
	members := t.copyMembers()
	lastErr := t.lastErr
	t.mu.Unlock()

	if synced {
		fn(members, lastErr)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.observers, id)
			t.mu.Unlock()
		})
	}
}

// Members returns the last applied member list.
func (t *Tracker) Members() []model.Member {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.copyMembers()
}

// Close releases the store subscription. Calling it again is a no-op.
func (t *Tracker) Close() {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		unsubscribe := t.unsubscribe
		t.observers = make(map[int]Observer)
		t.mu.Unlock()

		if unsubscribe != nil {
			unsubscribe()
		}
		t.logger.Info("presence tracker closed", "room_id", t.roomID)
	})
}

func (t *Tracker) apply(snapshot model.MemberSnapshot, err error) {
	t.notifyMu.Lock()
	defer t.notifyMu.Unlock()

	t.mu.Lock()

	// Room ids are never reused, a deleted room stays deleted.
	if t.gone {
		t.mu.Unlock()
		return
	}

	switch {
	case errors.Is(err, usecase_room.ErrRoomNotFound):
		t.members = nil
		t.lastErr = usecase_room.ErrRoomNotFound
		t.gone = true
	case err != nil:
		// Keep the last good view, the next snapshot repairs it.
		t.lastErr = err
		t.logger.Error("presence subscription failed", "room_id", t.roomID, "error", err)
	default:
		if t.synced && snapshot.Revision < t.revision {
			t.mu.Unlock()
			return
		}
		t.members = usecase_room.SortMembers(snapshot.Members)
		t.revision = snapshot.Revision
		t.lastErr = nil
	}
	t.synced = true

	members := t.copyMembers()
	lastErr := t.lastErr
	observers := make([]Observer, 0, len(t.observers))
	for _, o := range t.observers {
		observers = append(observers, o)
	}
	t.mu.Unlock()

	for _, o := range observers {
		o(members, lastErr)
	}
}

// Callers hold mu.
func (t *Tracker) copyMembers() []model.Member {
	out := make([]model.Member, len(t.members))
	copy(out, t.members)
	return out
}
