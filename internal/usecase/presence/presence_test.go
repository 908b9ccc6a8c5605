package usecase_presence

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	infra_memory_roomstore "github.com/ShivanshCoding36/college-companion/internal/infra/memory/roomstore"
	"github.com/ShivanshCoding36/college-companion/internal/model"
	usecase_room "github.com/ShivanshCoding36/college-companion/internal/usecase/room"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type PresenceSuite struct {
	suite.Suite
}

// fakeSubscriber hands the callback to the test so deliveries can be
// replayed in any order.
type fakeSubscriber struct {
	mu           sync.Mutex
	cb           usecase_room.MemberCallback
	unsubscribes atomic.Int32
}

func (f *fakeSubscriber) SubscribeMembers(_ model.RoomID, cb usecase_room.MemberCallback) func() {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
	return func() { f.unsubscribes.Add(1) }
}

func (f *fakeSubscriber) deliver(s model.MemberSnapshot, err error) {
	f.mu.Lock()
	cb := f.cb
	f.mu.Unlock()
	cb(s, err)
}

var base = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func member(id string, offset int) model.Member {
	return model.Member{
		RoomID:   "r1",
		UserID:   id,
		JoinedAt: base.Add(time.Duration(offset) * time.Second),
	}
}

func ids(members []model.Member) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.UserID)
	}
	return out
}

type recorder struct {
	mu    sync.Mutex
	calls [][]string
	errs  []error
}

func (r *recorder) observe(members []model.Member, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ids(members))
	r.errs = append(r.errs, err)
}

func (r *recorder) last() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil, nil
	}
	return r.calls[len(r.calls)-1], r.errs[len(r.errs)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (s *PresenceSuite) TestOrdersOwnerFirst(t provider.T) {
	t.Parallel()
	sub := &fakeSubscriber{}
	tracker := New(sub, "r1")
	rec := &recorder{}
	tracker.Observe(rec.observe)

	sub.deliver(model.MemberSnapshot{
		Members:  []model.Member{member("c", 2), member("owner", 0), member("b", 1)},
		Revision: 3,
	}, nil)

	got, err := rec.last()
	assert.NoError(t, err)
	assert.Equal(t, []string{"owner", "b", "c"}, got)
	assert.Equal(t, []string{"owner", "b", "c"}, ids(tracker.Members()))
}

func (s *PresenceSuite) TestDropsStaleSnapshots(t provider.T) {
	t.Parallel()
	sub := &fakeSubscriber{}
	tracker := New(sub, "r1")
	rec := &recorder{}
	tracker.Observe(rec.observe)

	sub.deliver(model.MemberSnapshot{Members: []model.Member{member("a", 0), member("b", 1)}, Revision: 5}, nil)
	sub.deliver(model.MemberSnapshot{Members: []model.Member{member("a", 0)}, Revision: 4}, nil)
	sub.deliver(model.MemberSnapshot{Members: []model.Member{member("a", 0), member("b", 1), member("c", 2)}, Revision: 2}, nil)

	got, _ := rec.last()
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, rec.count())
}

func (s *PresenceSuite) TestConvergesUnderShuffledDelivery(t provider.T) {
	t.Parallel()

	// History of a room: joins and leaves, each write producing a snapshot.
	var (
		history []model.MemberSnapshot
		current []model.Member
	)
	current = []model.Member{member("owner", 0)}
	history = append(history, model.MemberSnapshot{Members: current, Revision: 1})
	ops := []struct {
		join bool
		id   string
		at   int
	}{
		{true, "b", 1}, {true, "c", 2}, {false, "b", 0}, {true, "d", 3}, {true, "e", 4}, {false, "c", 0}, {true, "f", 5},
	}
	for i, op := range ops {
		next := make([]model.Member, 0, len(current)+1)
		for _, m := range current {
			if op.join || m.UserID != op.id {
				next = append(next, m)
			}
		}
		if op.join {
			next = append(next, member(op.id, op.at))
		}
		current = next
		history = append(history, model.MemberSnapshot{Members: current, Revision: int64(i + 2)})
	}

	for round := 0; round < 100; round++ {
		sub := &fakeSubscriber{}
		tracker := New(sub, "r1")
		rec := &recorder{}
		tracker.Observe(rec.observe)

		shuffled := make([]model.MemberSnapshot, len(history))
		copy(shuffled, history)
		rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		for _, snap := range shuffled {
			sub.deliver(snap, nil)
		}

		got, err := rec.last()
		require.NoError(t, err)
		assert.Equal(t, []string{"owner", "d", "e", "f"}, got)
	}
}

func (s *PresenceSuite) TestRoomGoneEmptiesView(t provider.T) {
	t.Parallel()
	sub := &fakeSubscriber{}
	tracker := New(sub, "r1")
	rec := &recorder{}
	tracker.Observe(rec.observe)

	sub.deliver(model.MemberSnapshot{Members: []model.Member{member("a", 0)}, Revision: 1}, nil)
	sub.deliver(model.MemberSnapshot{}, usecase_room.ErrRoomNotFound)
	// Late delivery from before the delete.
	sub.deliver(model.MemberSnapshot{Members: []model.Member{member("a", 0)}, Revision: 2}, nil)

	got, err := rec.last()
	assert.ErrorIs(t, err, usecase_room.ErrRoomNotFound)
	assert.Empty(t, got)
	assert.Empty(t, tracker.Members())
}

func (s *PresenceSuite) TestTransientErrorKeepsLastView(t provider.T) {
	t.Parallel()
	sub := &fakeSubscriber{}
	tracker := New(sub, "r1")
	rec := &recorder{}
	tracker.Observe(rec.observe)

	sub.deliver(model.MemberSnapshot{Members: []model.Member{member("a", 0)}, Revision: 1}, nil)
	sub.deliver(model.MemberSnapshot{}, errors.Join(usecase_room.ErrStoreUnavailable, errors.New("conn reset")))

	got, err := rec.last()
	assert.ErrorIs(t, err, usecase_room.ErrStoreUnavailable)
	assert.Equal(t, []string{"a"}, got)

	sub.deliver(model.MemberSnapshot{Members: []model.Member{member("a", 0), member("b", 1)}, Revision: 2}, nil)
	got, err = rec.last()
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func (s *PresenceSuite) TestLateObserverGetsCurrentView(t provider.T) {
	t.Parallel()
	sub := &fakeSubscriber{}
	tracker := New(sub, "r1")

	sub.deliver(model.MemberSnapshot{Members: []model.Member{member("a", 0)}, Revision: 1}, nil)

	rec := &recorder{}
	remove := tracker.Observe(rec.observe)
	got, _ := rec.last()
	assert.Equal(t, []string{"a"}, got)

	remove()
	remove()
	sub.deliver(model.MemberSnapshot{Members: []model.Member{member("a", 0), member("b", 1)}, Revision: 2}, nil)
	assert.Equal(t, 1, rec.count())
}

func (s *PresenceSuite) TestCloseReleasesSubscriptionOnce(t provider.T) {
	t.Parallel()
	sub := &fakeSubscriber{}
	tracker := New(sub, "r1")

	tracker.Close()
	tracker.Close()
	tracker.Close()

	assert.Equal(t, int32(1), sub.unsubscribes.Load())
}

func (s *PresenceSuite) TestTracksMemoryStore(t provider.T) {
	t.Parallel()
	ctx := context.Background()
	store := infra_memory_roomstore.New()
	var tick atomic.Int64
	uc := usecase_room.New(store, usecase_room.WithClock(func() time.Time {
		return base.Add(time.Duration(tick.Add(1)) * time.Millisecond)
	}))

	roomID, err := uc.CreateRoom(ctx, "owner", "Owner")
	require.NoError(t, err)

	tracker := New(store, roomID)
	defer tracker.Close()
	rec := &recorder{}
	tracker.Observe(rec.observe)

	require.NoError(t, uc.JoinRoom(ctx, roomID, "b", "B"))
	require.NoError(t, uc.JoinRoom(ctx, roomID, "c", "C"))
	require.NoError(t, uc.LeaveRoom(ctx, roomID, "b"))

	assert.Eventually(t, func() bool {
		got, err := rec.last()
		return err == nil && assert.ObjectsAreEqual([]string{"owner", "c"}, got)
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, uc.LeaveRoom(ctx, roomID, "owner"))
	require.NoError(t, uc.LeaveRoom(ctx, roomID, "c"))

	assert.Eventually(t, func() bool {
		got, err := rec.last()
		return errors.Is(err, usecase_room.ErrRoomNotFound) && len(got) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPresenceSuite(t *testing.T) {
	suite.RunSuite(t, new(PresenceSuite))
}
