package infra_memory_roomstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ShivanshCoding36/college-companion/internal/model"
	usecase_room "github.com/ShivanshCoding36/college-companion/internal/usecase/room"
)

// Store is an in-process room store. Every write is linearized by mu, which
// plays the part of the backing store's conditional write primitive.
type Store struct {
	mu    sync.Mutex
	rooms map[model.RoomID]*roomRecord
	users map[string]map[model.RoomID]time.Time
	subs  map[model.RoomID]map[*subscription]struct{}
}

type roomRecord struct {
	room    model.Room
	members map[string]model.Member
}

type subscription struct {
	notify chan struct{}
	done   chan struct{}
	once   sync.Once
}

func New() *Store {
	return &Store{
		rooms: make(map[model.RoomID]*roomRecord),
		users: make(map[string]map[model.RoomID]time.Time),
		subs:  make(map[model.RoomID]map[*subscription]struct{}),
	}
}

func (s *Store) CreateRoom(ctx context.Context, room model.Room, owner model.Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.ID]; ok {
		return usecase_room.ErrRoomExists
	}

	room.MemberCount = 1
	room.Revision = 1
	s.rooms[room.ID] = &roomRecord{
		room:    room,
		members: map[string]model.Member{owner.UserID: owner},
	}
	s.index(owner)
	s.publish(room.ID)

	return nil
}

func (s *Store) Room(ctx context.Context, roomID model.RoomID) (model.Room, error) {
	if err := ctx.Err(); err != nil {
		return model.Room{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.rooms[roomID]
	if !ok {
		return model.Room{}, usecase_room.ErrRoomNotFound
	}
	return rec.room, nil
}

func (s *Store) UpdateRoom(ctx context.Context, roomID model.RoomID, patch model.RoomPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.rooms[roomID]
	if !ok {
		return usecase_room.ErrRoomNotFound
	}
	if patch.IfMemberCount != nil && rec.room.MemberCount != *patch.IfMemberCount {
		return usecase_room.ErrConditionFailed
	}
	if patch.Status != nil {
		rec.room.Status = *patch.Status
	}
	s.publish(roomID)

	return nil
}

func (s *Store) DeleteRoom(ctx context.Context, roomID model.RoomID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.rooms[roomID]
	if !ok {
		return usecase_room.ErrRoomNotFound
	}
	for userID := range rec.members {
		s.unindex(userID, roomID)
	}
	delete(s.rooms, roomID)
	s.publish(roomID)

	return nil
}

func (s *Store) AddMember(ctx context.Context, member model.Member, capacity int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.rooms[member.RoomID]
	if !ok || rec.room.Status != model.StatusActive {
		return usecase_room.ErrRoomNotFound
	}

	if existing, ok := rec.members[member.UserID]; ok {
		if existing.DisplayName != member.DisplayName {
			existing.DisplayName = member.DisplayName
			rec.members[member.UserID] = existing
			rec.room.Revision++
			s.publish(member.RoomID)
		}
		return usecase_room.ErrAlreadyMember
	}

	if len(rec.members) >= capacity {
		return usecase_room.ErrRoomFull
	}

	rec.members[member.UserID] = member
	rec.room.MemberCount = len(rec.members)
	rec.room.Revision++
	s.index(member)
	s.publish(member.RoomID)

	return nil
}

func (s *Store) RemoveMember(ctx context.Context, roomID model.RoomID, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.rooms[roomID]
	if !ok {
		return 0, usecase_room.ErrRoomNotFound
	}
	if _, ok := rec.members[userID]; !ok {
		return len(rec.members), usecase_room.ErrNotMember
	}

	delete(rec.members, userID)
	rec.room.MemberCount = len(rec.members)
	rec.room.Revision++
	s.unindex(userID, roomID)
	s.publish(roomID)

	return rec.room.MemberCount, nil
}

func (s *Store) Members(ctx context.Context, roomID model.RoomID) (model.MemberSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.MemberSnapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot(roomID)
}

func (s *Store) UserRooms(ctx context.Context, userID string) ([]model.Membership, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Membership, 0, len(s.users[userID]))
	for roomID, joinedAt := range s.users[userID] {
		out = append(out, model.Membership{RoomID: roomID, JoinedAt: joinedAt})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].JoinedAt.After(out[j].JoinedAt)
	})

	return out, nil
}

func (s *Store) StaleRooms(ctx context.Context, before time.Time) ([]model.RoomID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.RoomID
	for id, rec := range s.rooms {
		if rec.room.CreatedAt.Before(before) {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out, nil
}

func (s *Store) SubscribeRoom(roomID model.RoomID, cb usecase_room.RoomCallback) func() {
	return s.subscribe(roomID, func() {
		s.mu.Lock()
		rec, ok := s.rooms[roomID]
		var room model.Room
		if ok {
			room = rec.room
		}
		s.mu.Unlock()

		if !ok {
			cb(model.Room{}, usecase_room.ErrRoomNotFound)
			return
		}
		cb(room, nil)
	})
}

func (s *Store) SubscribeMembers(roomID model.RoomID, cb usecase_room.MemberCallback) func() {
	return s.subscribe(roomID, func() {
		s.mu.Lock()
		snapshot, err := s.snapshot(roomID)
		s.mu.Unlock()

		cb(snapshot, err)
	})
}

// subscribe runs deliver once up front and then after every change to the
// room. Notifications coalesce, deliver always reads the latest state.
func (s *Store) subscribe(roomID model.RoomID, deliver func()) func() {
	sub := &subscription{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	sub.notify <- struct{}{}

	s.mu.Lock()
	if _, ok := s.subs[roomID]; !ok {
		s.subs[roomID] = make(map[*subscription]struct{})
	}
	s.subs[roomID][sub] = struct{}{}
	s.mu.Unlock()

	go func() {
		for {
			select {
			case <-sub.done:
				return
			case <-sub.notify:
				select {
				case <-sub.done:
					return
				default:
				}
				deliver()
			}
		}
	}()

	return func() {
		sub.once.Do(func() {
			close(sub.done)

			s.mu.Lock()
			defer s.mu.Unlock()
			if room, ok := s.subs[roomID]; ok {
				delete(room, sub)
				if len(room) == 0 {
					delete(s.subs, roomID)
				}
			}
		})
	}
}

// Callers hold mu.
func (s *Store) snapshot(roomID model.RoomID) (model.MemberSnapshot, error) {
	rec, ok := s.rooms[roomID]
	if !ok {
		return model.MemberSnapshot{}, usecase_room.ErrRoomNotFound
	}

	members := make([]model.Member, 0, len(rec.members))
	for _, m := range rec.members {
		members = append(members, m)
	}
	return model.MemberSnapshot{
		Members:  members,
		Revision: rec.room.Revision,
	}, nil
}

func (s *Store) publish(roomID model.RoomID) {
	for sub := range s.subs[roomID] {
		select {
		case sub.notify <- struct{}{}:
		default:
		}
	}
}

func (s *Store) index(m model.Member) {
	if _, ok := s.users[m.UserID]; !ok {
		s.users[m.UserID] = make(map[model.RoomID]time.Time)
	}
	s.users[m.UserID][m.RoomID] = m.JoinedAt
}

func (s *Store) unindex(userID string, roomID model.RoomID) {
	delete(s.users[userID], roomID)
	if len(s.users[userID]) == 0 {
		delete(s.users, userID)
	}
}
