package infra_memory_roomstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ShivanshCoding36/college-companion/internal/model"
	usecase_room "github.com/ShivanshCoding36/college-companion/internal/usecase/room"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MemoryRoomStoreSuite struct {
	suite.Suite
}

var created = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

func seedRoom(t provider.T, s *Store, id model.RoomID) {
	err := s.CreateRoom(context.Background(), model.Room{
		ID:        id,
		OwnerID:   "owner",
		CreatedAt: created,
		Capacity:  model.RoomCapacity,
		Status:    model.StatusActive,
	}, model.Member{RoomID: id, UserID: "owner", DisplayName: "Owner", JoinedAt: created})
	require.NoError(t, err)
}

func (s *MemoryRoomStoreSuite) TestCreateRejectsDuplicateID(t provider.T) {
	t.Parallel()
	store := New()
	seedRoom(t, store, "r1")

	err := store.CreateRoom(context.Background(), model.Room{ID: "r1"}, model.Member{RoomID: "r1", UserID: "x"})

	assert.ErrorIs(t, err, usecase_room.ErrRoomExists)
}

func (s *MemoryRoomStoreSuite) TestAddMemberConditions(t provider.T) {
	t.Parallel()
	ctx := context.Background()
	store := New()
	seedRoom(t, store, "r1")

	assert.NoError(t, store.AddMember(ctx, model.Member{RoomID: "r1", UserID: "b", DisplayName: "B"}, 2))
	assert.ErrorIs(t, store.AddMember(ctx, model.Member{RoomID: "r1", UserID: "b", DisplayName: "Bee"}, 2), usecase_room.ErrAlreadyMember)
	assert.ErrorIs(t, store.AddMember(ctx, model.Member{RoomID: "r1", UserID: "c"}, 2), usecase_room.ErrRoomFull)
	assert.ErrorIs(t, store.AddMember(ctx, model.Member{RoomID: "nope", UserID: "c"}, 2), usecase_room.ErrRoomNotFound)

	snapshot, err := store.Members(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, snapshot.Members, 2)
	// create, join, rename
	assert.Equal(t, int64(3), snapshot.Revision)
	for _, m := range snapshot.Members {
		if m.UserID == "b" {
			assert.Equal(t, "Bee", m.DisplayName)
		}
	}
}

func (s *MemoryRoomStoreSuite) TestClosedRoomRejectsJoin(t provider.T) {
	t.Parallel()
	ctx := context.Background()
	store := New()
	seedRoom(t, store, "r1")
	closed := model.StatusClosed

	require.NoError(t, store.UpdateRoom(ctx, "r1", model.RoomPatch{Status: &closed}))

	assert.ErrorIs(t, store.AddMember(ctx, model.Member{RoomID: "r1", UserID: "b"}, 5), usecase_room.ErrRoomNotFound)
}

func (s *MemoryRoomStoreSuite) TestUpdateCompareAndSwap(t provider.T) {
	t.Parallel()
	ctx := context.Background()
	store := New()
	seedRoom(t, store, "r1")
	closed := model.StatusClosed
	zero := 0

	err := store.UpdateRoom(ctx, "r1", model.RoomPatch{Status: &closed, IfMemberCount: &zero})
	assert.ErrorIs(t, err, usecase_room.ErrConditionFailed)

	remaining, err := store.RemoveMember(ctx, "r1", "owner")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	assert.NoError(t, store.UpdateRoom(ctx, "r1", model.RoomPatch{Status: &closed, IfMemberCount: &zero}))
	room, err := store.Room(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusClosed, room.Status)
}

func (s *MemoryRoomStoreSuite) TestDeleteCascades(t provider.T) {
	t.Parallel()
	ctx := context.Background()
	store := New()
	seedRoom(t, store, "r1")
	require.NoError(t, store.AddMember(ctx, model.Member{RoomID: "r1", UserID: "b", JoinedAt: created}, 5))

	require.NoError(t, store.DeleteRoom(ctx, "r1"))

	_, err := store.Members(ctx, "r1")
	assert.ErrorIs(t, err, usecase_room.ErrRoomNotFound)
	for _, u := range []string{"owner", "b"} {
		rooms, err := store.UserRooms(ctx, u)
		require.NoError(t, err)
		assert.Empty(t, rooms)
	}
	assert.ErrorIs(t, store.DeleteRoom(ctx, "r1"), usecase_room.ErrRoomNotFound)
}

func (s *MemoryRoomStoreSuite) TestStaleRooms(t provider.T) {
	t.Parallel()
	store := New()
	seedRoom(t, store, "r1")

	stale, err := store.StaleRooms(context.Background(), created.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []model.RoomID{"r1"}, stale)

	stale, err = store.StaleRooms(context.Background(), created)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func (s *MemoryRoomStoreSuite) TestSubscribeMembers(t provider.T) {
	t.Parallel()
	ctx := context.Background()
	store := New()
	seedRoom(t, store, "r1")

	var (
		mu   sync.Mutex
		last model.MemberSnapshot
		err  error
	)
	unsubscribe := store.SubscribeMembers("r1", func(snapshot model.MemberSnapshot, e error) {
		mu.Lock()
		defer mu.Unlock()
		last, err = snapshot, e
	})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return err == nil && len(last.Members) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, store.AddMember(ctx, model.Member{RoomID: "r1", UserID: "b"}, 5))
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(last.Members) == 2 && last.Revision == 2
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, store.DeleteRoom(ctx, "r1"))
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return err == usecase_room.ErrRoomNotFound
	}, time.Second, 5*time.Millisecond)

	unsubscribe()
	unsubscribe()

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.subs)
}

func TestMemoryRoomStoreSuite(t *testing.T) {
	suite.RunSuite(t, new(MemoryRoomStoreSuite))
}
