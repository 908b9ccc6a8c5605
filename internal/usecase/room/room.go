package usecase_room

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ShivanshCoding36/college-companion/internal/model"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrAlreadyMember    = errors.New("already a member")
	ErrNotMember        = errors.New("not a member")
	ErrNotOwner         = errors.New("not the room owner")
	ErrRoomExists       = errors.New("room id conflict")
	ErrConditionFailed  = errors.New("condition failed")
	ErrStoreUnavailable = errors.New("room store unavailable")
	ErrPersistence      = errors.New("persistence error")
	ErrInvalidInput     = errors.New("invalid input")
)

type MemberCallback = func(snapshot model.MemberSnapshot, err error)
type RoomCallback = func(room model.Room, err error)

//go:generate mockery --name=RoomStore --output=./mocks/room/store --filename=store.go
type RoomStore interface {
	CreateRoom(ctx context.Context, room model.Room, owner model.Member) error
	Room(ctx context.Context, roomID model.RoomID) (model.Room, error)
	UpdateRoom(ctx context.Context, roomID model.RoomID, patch model.RoomPatch) error
	DeleteRoom(ctx context.Context, roomID model.RoomID) error

	AddMember(ctx context.Context, member model.Member, capacity int) error
	RemoveMember(ctx context.Context, roomID model.RoomID, userID string) (int, error)
	Members(ctx context.Context, roomID model.RoomID) (model.MemberSnapshot, error)
	UserRooms(ctx context.Context, userID string) ([]model.Membership, error)
	StaleRooms(ctx context.Context, before time.Time) ([]model.RoomID, error)

	SubscribeRoom(roomID model.RoomID, cb RoomCallback) (unsubscribe func())
	SubscribeMembers(roomID model.RoomID, cb MemberCallback) (unsubscribe func())
}

type Usecase struct {
	Store RoomStore

	now    func() time.Time
	newID  func() model.RoomID
	maxAge time.Duration
	logger *slog.Logger

	// Used to expire stale rooms on every Nth creation
	cleanupPeriod int64
	createsCount  atomic.Int64
}

type Option func(*Usecase)

func WithLogger(logger *slog.Logger) Option {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(u *Usecase) {
		u.now = now
	}
}

func WithIDGenerator(gen func() model.RoomID) Option {
	return func(u *Usecase) {
		u.newID = gen
	}
}

// WithExpiry makes every cleanupPeriod-th CreateRoom close rooms older than maxAge.
func WithExpiry(maxAge time.Duration, cleanupPeriod int) Option {
	return func(u *Usecase) {
		u.maxAge = maxAge
		u.cleanupPeriod = int64(cleanupPeriod)
	}
}

func New(store RoomStore, opts ...Option) *Usecase {
	u := &Usecase{
		Store:         store,
		now:           time.Now,
		newID:         buildRoomID,
		logger:        slog.Default(),
		cleanupPeriod: 20, /* default */
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.cleanupPeriod <= 0 {
		u.cleanupPeriod = 20
	}
	return u
}

func (u *Usecase) CreateRoom(ctx context.Context, ownerID string, displayName string) (model.RoomID, error) {
	if strings.TrimSpace(ownerID) == "" {
		return model.EmptyRoomID, ErrInvalidInput
	}

	if n := u.createsCount.Add(1); u.maxAge > 0 && n%u.cleanupPeriod == 0 {
		// A failed sweep must not block creation.
		if expired, err := u.ExpireRooms(ctx, u.maxAge); err != nil {
			u.logger.Warn("room expiry failed",
				slog.Int("expired", expired),
				slog.Any("error", err),
			)
		}
	}

	// One retry at most: on id conflict or a transient store failure.
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		now := u.now().UTC()
		room := model.Room{
			ID:          u.newID(),
			OwnerID:     ownerID,
			CreatedAt:   now,
			Capacity:    model.RoomCapacity,
			Status:      model.StatusActive,
			MemberCount: 1,
		}
		owner := model.Member{
			RoomID:      room.ID,
			UserID:      ownerID,
			DisplayName: displayName,
			JoinedAt:    now,
		}

		err := u.Store.CreateRoom(ctx, room, owner)
		if err == nil {
			return room.ID, nil
		}
		if !errors.Is(err, ErrRoomExists) && !errors.Is(err, ErrStoreUnavailable) {
			return model.EmptyRoomID, errors.Join(ErrPersistence, err)
		}
		lastErr = err
	}

	return model.EmptyRoomID, errors.Join(ErrPersistence, lastErr)
}

// Rejoining is an idempotent success: membership is unchanged and only
// the display name is refreshed.
func (u *Usecase) JoinRoom(ctx context.Context, roomID model.RoomID, userID string, displayName string) error {
	if roomID == model.EmptyRoomID || strings.TrimSpace(userID) == "" {
		return ErrInvalidInput
	}

	err := u.Store.AddMember(ctx, model.Member{
		RoomID:      roomID,
		UserID:      userID,
		DisplayName: displayName,
		JoinedAt:    u.now().UTC(),
	}, model.RoomCapacity)

	switch {
	case err == nil, errors.Is(err, ErrAlreadyMember):
		return nil
	case errors.Is(err, ErrRoomNotFound):
		return ErrRoomNotFound
	case errors.Is(err, ErrRoomFull):
		return ErrRoomFull
	default:
		return mapStoreErr(err)
	}
}

func (u *Usecase) LeaveRoom(ctx context.Context, roomID model.RoomID, userID string) error {
	remaining, err := u.Store.RemoveMember(ctx, roomID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrRoomNotFound):
			return ErrRoomNotFound
		case errors.Is(err, ErrNotMember):
			return ErrNotMember
		default:
			return mapStoreErr(err)
		}
	}

	if remaining > 0 {
		return nil
	}

	empty := 0
	return u.close(ctx, roomID, &empty)
}

func (u *Usecase) CloseRoom(ctx context.Context, roomID model.RoomID, userID string) error {
	room, err := u.Store.Room(ctx, roomID)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return ErrRoomNotFound
		}
		return mapStoreErr(err)
	}
	if room.Status != model.StatusActive {
		return ErrRoomNotFound
	}
	if room.OwnerID != userID {
		return ErrNotOwner
	}

	return u.close(ctx, roomID, nil)
}

// close marks the room closed, guarded by ifMemberCount when set, and then
// deletes it. A lost compare-and-swap means someone joined in between, so
// the room stays active.
func (u *Usecase) close(ctx context.Context, roomID model.RoomID, ifMemberCount *int) error {
	closed := model.StatusClosed
	err := u.Store.UpdateRoom(ctx, roomID, model.RoomPatch{
		Status:        &closed,
		IfMemberCount: ifMemberCount,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrConditionFailed):
			return nil
		case errors.Is(err, ErrRoomNotFound):
			return nil
		default:
			return mapStoreErr(err)
		}
	}

	if err := u.Store.DeleteRoom(ctx, roomID); err != nil && !errors.Is(err, ErrRoomNotFound) {
		return mapStoreErr(err)
	}
	return nil
}

func (u *Usecase) GetUserRooms(ctx context.Context, userID string) ([]model.Room, error) {
	memberships, err := u.Store.UserRooms(ctx, userID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	sort.SliceStable(memberships, func(i, j int) bool {
		return memberships[i].JoinedAt.After(memberships[j].JoinedAt)
	})

	rooms := make([]model.Room, 0, len(memberships))
	for _, m := range memberships {
		room, err := u.Store.Room(ctx, m.RoomID)
		if err != nil {
			// Deleted between the two reads.
			if errors.Is(err, ErrRoomNotFound) {
				continue
			}
			return nil, mapStoreErr(err)
		}
		if room.Status != model.StatusActive {
			continue
		}
		rooms = append(rooms, room)
	}

	return rooms, nil
}

func (u *Usecase) Room(ctx context.Context, roomID model.RoomID) (model.Room, error) {
	room, err := u.Store.Room(ctx, roomID)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return model.Room{}, ErrRoomNotFound
		}
		return model.Room{}, mapStoreErr(err)
	}
	if room.Status != model.StatusActive {
		return model.Room{}, ErrRoomNotFound
	}
	return room, nil
}

// Members returns the current member list, owner first.
func (u *Usecase) Members(ctx context.Context, roomID model.RoomID) ([]model.Member, error) {
	snapshot, err := u.Store.Members(ctx, roomID)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, mapStoreErr(err)
	}

	return SortMembers(snapshot.Members), nil
}

func (u *Usecase) IsMember(ctx context.Context, roomID model.RoomID, userID string) (bool, error) {
	members, err := u.Members(ctx, roomID)
	if err != nil {
		return false, err
	}
	for _, m := range members {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// ExpireRooms closes and deletes every room created more than maxAge ago,
// including rooms left closed by an interrupted delete. It returns the number of rooms removed.
func (u *Usecase) ExpireRooms(ctx context.Context, maxAge time.Duration) (int, error) {
	stale, err := u.Store.StaleRooms(ctx, u.now().Add(-maxAge))
	if err != nil {
		return 0, mapStoreErr(err)
	}

	var (
		expired int
		errs    []error
	)
	for _, roomID := range stale {
		if err := u.close(ctx, roomID, nil); err != nil {
			errs = append(errs, err)
			continue
		}
		expired++
	}

	return expired, errors.Join(errs...)
}

// SortMembers orders members by join time, ties broken by user id.
func SortMembers(members []model.Member) []model.Member {
	out := make([]model.Member, len(members))
	copy(out, members)
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].UserID < out[j].UserID
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out
}

func mapStoreErr(err error) error {
	if errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return errors.Join(ErrPersistence, err)
}

const roomIDAlphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// 10 symbols over a 32 letter alphabet, 2^50 ids.
func buildRoomID() model.RoomID {
	const codeLen = 10
	var builder strings.Builder
	builder.Grow(codeLen)

	for range codeLen {
		builder.WriteByte(roomIDAlphabet[rand.IntN(len(roomIDAlphabet))])
	}

	return model.RoomID(builder.String())
}
