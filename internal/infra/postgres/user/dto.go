package infra_postgres_user

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ShivanshCoding36/college-companion/internal/model"
)

type UserDB struct {
	ID          uuid.UUID `db:"id"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	College     string    `db:"college"`
	Branch      string    `db:"branch"`
	Semester    int       `db:"semester"`
	Onboarded   bool      `db:"onboarded"`
	Onboarding  []byte    `db:"onboarding"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (u *UserDB) ToDomain() model.User {
	return model.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		College:     u.College,
		Branch:      u.Branch,
		Semester:    u.Semester,
		Onboarded:   u.Onboarded,
		Onboarding:  json.RawMessage(u.Onboarding),
		CreatedAt:   u.CreatedAt.UTC(),
		UpdatedAt:   u.UpdatedAt.UTC(),
	}
}

func FromDomain(u model.User) UserDB {
	return UserDB{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		College:     u.College,
		Branch:      u.Branch,
		Semester:    u.Semester,
		Onboarded:   u.Onboarded,
		Onboarding:  []byte(u.Onboarding),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
