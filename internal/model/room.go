package model

import "time"

type RoomID string

const EmptyRoomID RoomID = ""

// Owner plus four invitees.
const RoomCapacity = 5

type RoomStatus = string

const (
	StatusActive RoomStatus = "active"
	StatusClosed RoomStatus = "closed"
)

type Room struct {
	ID          RoomID
	OwnerID     string
	CreatedAt   time.Time
	Capacity    int
	Status      RoomStatus
	MemberCount int

	// Bumped by every membership write.
	Revision int64
}

// RoomPatch is a partial update of a room. IfMemberCount, when set, turns
// the update into a compare-and-swap on the member count.
type RoomPatch struct {
	Status        *RoomStatus
	IfMemberCount *int
}

type Member struct {
	RoomID      RoomID
	UserID      string
	DisplayName string
	JoinedAt    time.Time
}

type MemberSnapshot struct {
	Members  []Member
	Revision int64
}

type Membership struct {
	RoomID   RoomID
	JoinedAt time.Time
}
