package infra_redis_roomstore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis"

	"github.com/ShivanshCoding36/college-companion/internal/model"
	usecase_room "github.com/ShivanshCoding36/college-companion/internal/usecase/room"
)

type Driver struct {
	client *redis.Client
	key    string
}

func New(
	client *redis.Client,
	key string,
) *Driver {
	return &Driver{
		client: client,
		key:    key,
	}
}

func (d *Driver) CreateRoom(ctx context.Context, room model.Room, owner model.Member) error {
	id := string(room.ID)
	res, err := createScript.Run(d.client.WithContext(ctx),
		[]string{d.roomKey(id), d.membersKey(id), d.namesKey(id), d.userKey(owner.UserID), d.createdKey()},
		id, owner.UserID, toMicros(room.CreatedAt), room.Capacity, room.Status, owner.DisplayName, d.channel(id),
	).Result()
	if err != nil {
		return unavailable(err)
	}

	if code, _ := res.(int64); code == 0 {
		return usecase_room.ErrRoomExists
	}
	return nil
}

func (d *Driver) Room(ctx context.Context, roomID model.RoomID) (model.Room, error) {
	fields, err := d.client.WithContext(ctx).HGetAll(d.roomKey(string(roomID))).Result()
	if err != nil {
		return model.Room{}, unavailable(err)
	}
	if len(fields) == 0 {
		return model.Room{}, usecase_room.ErrRoomNotFound
	}

	return parseRoom(roomID, fields)
}

func (d *Driver) UpdateRoom(ctx context.Context, roomID model.RoomID, patch model.RoomPatch) error {
	id := string(roomID)

	var status, ifCount string
	if patch.Status != nil {
		status = *patch.Status
	}
	if patch.IfMemberCount != nil {
		ifCount = strconv.Itoa(*patch.IfMemberCount)
	}

	res, err := updateScript.Run(d.client.WithContext(ctx),
		[]string{d.roomKey(id)},
		status, ifCount, d.channel(id),
	).Result()
	if err != nil {
		return unavailable(err)
	}

	switch code, _ := res.(int64); code {
	case -1:
		return usecase_room.ErrRoomNotFound
	case -2:
		return usecase_room.ErrConditionFailed
	}
	return nil
}

func (d *Driver) DeleteRoom(ctx context.Context, roomID model.RoomID) error {
	id := string(roomID)
	res, err := deleteScript.Run(d.client.WithContext(ctx),
		[]string{d.roomKey(id), d.membersKey(id), d.namesKey(id), d.createdKey()},
		id, d.channel(id), d.key+":user:", ":rooms",
	).Result()
	if err != nil {
		return unavailable(err)
	}

	if code, _ := res.(int64); code == -1 {
		return usecase_room.ErrRoomNotFound
	}
	return nil
}

func (d *Driver) AddMember(ctx context.Context, member model.Member, capacity int) error {
	id := string(member.RoomID)
	res, err := addMemberScript.Run(d.client.WithContext(ctx),
		[]string{d.roomKey(id), d.membersKey(id), d.namesKey(id), d.userKey(member.UserID)},
		member.UserID, member.DisplayName, toMicros(member.JoinedAt), capacity, d.channel(id), id,
	).Result()
	if err != nil {
		return unavailable(err)
	}

	switch code, _ := res.(int64); code {
	case -1:
		return usecase_room.ErrRoomNotFound
	case -2:
		return usecase_room.ErrRoomFull
	case 0:
		return usecase_room.ErrAlreadyMember
	}
	return nil
}

func (d *Driver) RemoveMember(ctx context.Context, roomID model.RoomID, userID string) (int, error) {
	id := string(roomID)
	res, err := removeMemberScript.Run(d.client.WithContext(ctx),
		[]string{d.roomKey(id), d.membersKey(id), d.namesKey(id), d.userKey(userID)},
		userID, d.channel(id), id,
	).Result()
	if err != nil {
		return 0, unavailable(err)
	}

	code, _ := res.(int64)
	switch code {
	case -1:
		return 0, usecase_room.ErrRoomNotFound
	case -2:
		return 0, usecase_room.ErrNotMember
	}
	return int(code), nil
}

func (d *Driver) Members(ctx context.Context, roomID model.RoomID) (model.MemberSnapshot, error) {
	return d.snapshot(d.client.WithContext(ctx), roomID)
}

func (d *Driver) UserRooms(ctx context.Context, userID string) ([]model.Membership, error) {
	zs, err := d.client.WithContext(ctx).ZRevRangeWithScores(d.userKey(userID), 0, -1).Result()
	if err != nil {
		return nil, unavailable(err)
	}

	out := make([]model.Membership, 0, len(zs))
	for _, z := range zs {
		id, _ := z.Member.(string)
		out = append(out, model.Membership{
			RoomID:   model.RoomID(id),
			JoinedAt: fromMicros(int64(z.Score)),
		})
	}
	return out, nil
}

func (d *Driver) StaleRooms(ctx context.Context, before time.Time) ([]model.RoomID, error) {
	ids, err := d.client.WithContext(ctx).ZRangeByScore(d.createdKey(), redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(toMicros(before), 10),
	}).Result()
	if err != nil {
		return nil, unavailable(err)
	}

	out := make([]model.RoomID, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.RoomID(id))
	}
	return out, nil
}

func (d *Driver) SubscribeRoom(roomID model.RoomID, cb usecase_room.RoomCallback) func() {
	return d.subscribe(roomID, func(err error) {
		if err != nil {
			cb(model.Room{}, err)
			return
		}
		cb(d.Room(context.Background(), roomID))
	})
}

func (d *Driver) SubscribeMembers(roomID model.RoomID, cb usecase_room.MemberCallback) func() {
	return d.subscribe(roomID, func(err error) {
		if err != nil {
			cb(model.MemberSnapshot{}, err)
			return
		}
		cb(d.snapshot(d.client, roomID))
	})
}

const (
	pingInterval = 30 * time.Second
	minBackoff   = 100 * time.Millisecond
	maxBackoff   = 5 * time.Second
)

// subscribe delivers once the subscription is confirmed, so no change can
// slip between the initial snapshot and the first notice, and again after
// every notice. A broken subscription is reported once and then retried
// with backoff until unsubscribe; every resubscribe delivers again so the
// view catches up on whatever it missed.
func (d *Driver) subscribe(roomID model.RoomID, deliver func(err error)) func() {
	channel := d.channel(string(roomID))
	done := make(chan struct{})
	var (
		once    sync.Once
		mu      sync.Mutex
		current *redis.PubSub
	)

	closed := func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}

	go func() {
		backoff := minBackoff
		reported := false

		for !closed() {
			mu.Lock()
			if closed() {
				mu.Unlock()
				return
			}
			pubsub := d.client.Subscribe(channel)
			current = pubsub
			mu.Unlock()

			err := d.receive(pubsub, closed, func(confirmed bool) {
				if confirmed {
					backoff = minBackoff
					reported = false
				}
				deliver(nil)
			})
			_ = pubsub.Close()
			if closed() {
				return
			}

			if !reported {
				reported = true
				deliver(unavailable(err))
			}

			select {
			case <-done:
				return
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, maxBackoff)
		}
	}()

	return func() {
		once.Do(func() {
			mu.Lock()
			defer mu.Unlock()
			close(done)
			if current != nil {
				_ = current.Close()
			}
		})
	}
}

// receive pumps one subscription until it fails or closed reports true.
func (d *Driver) receive(pubsub *redis.PubSub, closed func() bool, notify func(confirmed bool)) error {
	for {
		msg, err := pubsub.ReceiveTimeout(pingInterval)
		if closed() {
			return nil
		}
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				if err := pubsub.Ping(); err != nil {
					return err
				}
				continue
			}
			return err
		}

		switch msg.(type) {
		case *redis.Subscription:
			notify(true)
		case *redis.Message:
			notify(false)
		}
	}
}

func (d *Driver) snapshot(client *redis.Client, roomID model.RoomID) (model.MemberSnapshot, error) {
	id := string(roomID)
	res, err := snapshotScript.Run(client,
		[]string{d.roomKey(id), d.membersKey(id), d.namesKey(id)},
	).Result()
	if err == redis.Nil {
		return model.MemberSnapshot{}, usecase_room.ErrRoomNotFound
	}
	if err != nil {
		return model.MemberSnapshot{}, unavailable(err)
	}

	parts, ok := res.([]interface{})
	if !ok || len(parts) != 3 {
		return model.MemberSnapshot{}, fmt.Errorf("unexpected snapshot reply %T", res)
	}

	revStr, _ := parts[0].(string)
	rev, _ := strconv.ParseInt(revStr, 10, 64)
	joined := pairs(parts[1])
	names := pairs(parts[2])

	members := make([]model.Member, 0, len(joined))
	for userID, joinedAt := range joined {
		us, _ := strconv.ParseInt(joinedAt, 10, 64)
		members = append(members, model.Member{
			RoomID:      roomID,
			UserID:      userID,
			DisplayName: names[userID],
			JoinedAt:    fromMicros(us),
		})
	}

	return model.MemberSnapshot{
		Members:  members,
		Revision: rev,
	}, nil
}

func parseRoom(roomID model.RoomID, fields map[string]string) (model.Room, error) {
	createdAt, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return model.Room{}, fmt.Errorf("room %s: created_at: %w", roomID, err)
	}
	capacity, _ := strconv.Atoi(fields["capacity"])
	count, _ := strconv.Atoi(fields["member_count"])
	rev, _ := strconv.ParseInt(fields["revision"], 10, 64)

	return model.Room{
		ID:          roomID,
		OwnerID:     fields["owner_id"],
		CreatedAt:   fromMicros(createdAt),
		Capacity:    capacity,
		Status:      fields["status"],
		MemberCount: count,
		Revision:    rev,
	}, nil
}

// HGETALL inside a script comes back as a flat field/value list.
func pairs(v interface{}) map[string]string {
	flat, _ := v.([]interface{})
	out := make(map[string]string, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		k, _ := flat[i].(string)
		val, _ := flat[i+1].(string)
		out[k] = val
	}
	return out
}

func unavailable(err error) error {
	return errors.Join(usecase_room.ErrStoreUnavailable, err)
}

// Microseconds keep join order exact and still fit a sorted-set score
// without losing precision.
func toMicros(t time.Time) int64 {
	return t.UnixMicro()
}

func fromMicros(us int64) time.Time {
	return time.UnixMicro(us).UTC()
}

func (d *Driver) roomKey(id string) string {
	return d.key + ":room:" + id
}

func (d *Driver) membersKey(id string) string {
	return d.key + ":room:" + id + ":members"
}

func (d *Driver) namesKey(id string) string {
	return d.key + ":room:" + id + ":names"
}

func (d *Driver) userKey(userID string) string {
	return d.key + ":user:" + userID + ":rooms"
}

func (d *Driver) createdKey() string {
	return d.key + ":rooms:created"
}

func (d *Driver) channel(id string) string {
	return d.key + ":room:" + id + ":events"
}
