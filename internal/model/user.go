package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	College     string
	Branch      string
	Semester    int

	Onboarded  bool
	Onboarding json.RawMessage

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserPatch carries the profile fields a PATCH may change. Nil means keep.
type UserPatch struct {
	DisplayName *string
	College     *string
	Branch      *string
	Semester    *int
}
