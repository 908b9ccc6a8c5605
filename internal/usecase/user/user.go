package usecase_user

import (
	"context"
	"encoding/json"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ShivanshCoding36/college-companion/internal/model"
)

var (
	ErrResourceNotFound = errors.New("user not found")
	ErrEmailConflict    = errors.New("email already registered")
	ErrInvalidInput     = errors.New("invalid input")
	ErrPersistence      = errors.New("persistence error")
)

const maxSemester = 12

//go:generate mockery --name=UserRepository --output=./mocks/user/repository --filename=repository.go
type UserRepository interface {
	Create(ctx context.Context, user model.User) error
	ByID(ctx context.Context, id uuid.UUID) (model.User, error)
	Update(ctx context.Context, user model.User) error
}

type Usecase struct {
	repo UserRepository
	now  func() time.Time
}

func New(repo UserRepository) *Usecase {
	return &Usecase{
		repo: repo,
		now:  time.Now,
	}
}

func (u *Usecase) Create(ctx context.Context, email, displayName string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return model.User{}, errors.Join(ErrInvalidInput, err)
	}

	now := u.now().UTC()
	user := model.User{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: strings.TrimSpace(displayName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if user.DisplayName == "" {
		user.DisplayName = email[:strings.IndexByte(email, '@')]
	}

	if err := u.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailConflict) {
			return model.User{}, err
		}
		return model.User{}, errors.Join(ErrPersistence, err)
	}
	return user, nil
}

func (u *Usecase) Get(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := u.repo.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return model.User{}, err
		}
		return model.User{}, errors.Join(ErrPersistence, err)
	}
	return user, nil
}

func (u *Usecase) Patch(ctx context.Context, id uuid.UUID, patch model.UserPatch) (model.User, error) {
	if patch.Semester != nil && (*patch.Semester < 1 || *patch.Semester > maxSemester) {
		return model.User{}, ErrInvalidInput
	}
	if patch.DisplayName != nil && strings.TrimSpace(*patch.DisplayName) == "" {
		return model.User{}, ErrInvalidInput
	}

	user, err := u.Get(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if patch.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*patch.DisplayName)
	}
	if patch.College != nil {
		user.College = *patch.College
	}
	if patch.Branch != nil {
		user.Branch = *patch.Branch
	}
	if patch.Semester != nil {
		user.Semester = *patch.Semester
	}

	return u.save(ctx, user)
}

// Onboard stores the onboarding answers and marks the profile complete.
// Answers must be a JSON object.
func (u *Usecase) Onboard(ctx context.Context, id uuid.UUID, answers json.RawMessage) (model.User, error) {
	var probe map[string]any
	if err := json.Unmarshal(answers, &probe); err != nil || probe == nil {
		return model.User{}, ErrInvalidInput
	}

	user, err := u.Get(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	user.Onboarding = answers
	user.Onboarded = true

	return u.save(ctx, user)
}

func (u *Usecase) save(ctx context.Context, user model.User) (model.User, error) {
	user.UpdatedAt = u.now().UTC()
	if err := u.repo.Update(ctx, user); err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return model.User{}, err
		}
		return model.User{}, errors.Join(ErrPersistence, err)
	}
	return user, nil
}
