package usecase_user

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ShivanshCoding36/college-companion/internal/model"
	repo_mocks "github.com/ShivanshCoding36/college-companion/internal/usecase/user/mocks/user/repository"
)

type UsecaseUserUnitSuite struct {
	suite.Suite
}

type resources struct {
	usecase *Usecase
	repo    *repo_mocks.UserRepository
	ctx     context.Context
	now     time.Time
}

func initResources(t provider.T) *resources {
	repo := repo_mocks.NewUserRepository(t)
	now := time.Date(2026, 8, 20, 9, 15, 0, 0, time.UTC)
	uc := New(repo)
	uc.now = func() time.Time { return now }

	return &resources{
		usecase: uc,
		repo:    repo,
		ctx:     context.Background(),
		now:     now,
	}
}

func storedUser() model.User {
	created := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return model.User{
		ID:          uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7"),
		Email:       "asha@college.edu",
		DisplayName: "Asha",
		Semester:    3,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func strPtr(s string) *string {
	return &s
}

func intPtr(v int) *int {
	return &v
}

func (s *UsecaseUserUnitSuite) TestCreate(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		email         string
		displayName   string
		setupMocks    func(r *resources)
		expectedName  string
		expectedError error
	}{
		{
			name:        "Success",
			email:       "  Asha@College.edu ",
			displayName: "Asha K",
			setupMocks: func(r *resources) {
				r.repo.On("Create", r.ctx, mock.MatchedBy(func(u model.User) bool {
					return u.Email == "asha@college.edu" && u.ID != uuid.Nil && u.CreatedAt.Equal(r.now)
				})).Return(nil).Once()
			},
			expectedName: "Asha K",
		},
		{
			name:  "Display name defaults to mailbox",
			email: "ravi@college.edu",
			setupMocks: func(r *resources) {
				r.repo.On("Create", r.ctx, mock.Anything).Return(nil).Once()
			},
			expectedName: "ravi",
		},
		{
			name:          "Invalid email",
			email:         "not-an-email",
			setupMocks:    func(r *resources) {},
			expectedError: ErrInvalidInput,
		},
		{
			name:  "Email conflict",
			email: "asha@college.edu",
			setupMocks: func(r *resources) {
				r.repo.On("Create", r.ctx, mock.Anything).Return(ErrEmailConflict).Once()
			},
			expectedError: ErrEmailConflict,
		},
		{
			name:  "Repository failure",
			email: "asha@college.edu",
			setupMocks: func(r *resources) {
				r.repo.On("Create", r.ctx, mock.Anything).Return(errors.New("connection refused")).Once()
			},
			expectedError: ErrPersistence,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			r := initResources(t)
			tc.setupMocks(r)

			user, err := r.usecase.Create(r.ctx, tc.email, tc.displayName)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedName, user.DisplayName)
			assert.False(t, user.Onboarded)
		})
	}
}

func (s *UsecaseUserUnitSuite) TestGet(t provider.T) {
	t.Parallel()

	r := initResources(t)
	user := storedUser()
	r.repo.On("ByID", r.ctx, user.ID).Return(user, nil).Once()
	r.repo.On("ByID", r.ctx, uuid.Nil).Return(model.User{}, ErrResourceNotFound).Once()

	got, err := r.usecase.Get(r.ctx, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = r.usecase.Get(r.ctx, uuid.Nil)
	assert.ErrorIs(t, err, ErrResourceNotFound)
	assert.NotErrorIs(t, err, ErrPersistence)
}

func (s *UsecaseUserUnitSuite) TestPatch(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		patch         model.UserPatch
		setupMocks    func(r *resources, user model.User)
		check         func(t provider.T, r *resources, got model.User)
		expectedError error
	}{
		{
			name:  "Success",
			patch: model.UserPatch{College: strPtr("NIT"), Semester: intPtr(5)},
			setupMocks: func(r *resources, user model.User) {
				r.repo.On("ByID", r.ctx, user.ID).Return(user, nil).Once()
				r.repo.On("Update", r.ctx, mock.MatchedBy(func(u model.User) bool {
					return u.College == "NIT" && u.Semester == 5 && u.DisplayName == "Asha"
				})).Return(nil).Once()
			},
			check: func(t provider.T, r *resources, got model.User) {
				assert.Equal(t, "NIT", got.College)
				assert.Equal(t, 5, got.Semester)
				assert.Equal(t, r.now, got.UpdatedAt)
			},
		},
		{
			name:          "Semester out of range",
			patch:         model.UserPatch{Semester: intPtr(13)},
			setupMocks:    func(r *resources, user model.User) {},
			expectedError: ErrInvalidInput,
		},
		{
			name:          "Blank display name",
			patch:         model.UserPatch{DisplayName: strPtr("   ")},
			setupMocks:    func(r *resources, user model.User) {},
			expectedError: ErrInvalidInput,
		},
		{
			name:  "Unknown user",
			patch: model.UserPatch{Branch: strPtr("CSE")},
			setupMocks: func(r *resources, user model.User) {
				r.repo.On("ByID", r.ctx, user.ID).Return(model.User{}, ErrResourceNotFound).Once()
			},
			expectedError: ErrResourceNotFound,
		},
		{
			name:  "Update failure",
			patch: model.UserPatch{Branch: strPtr("CSE")},
			setupMocks: func(r *resources, user model.User) {
				r.repo.On("ByID", r.ctx, user.ID).Return(user, nil).Once()
				r.repo.On("Update", r.ctx, mock.Anything).Return(errors.New("timeout")).Once()
			},
			expectedError: ErrPersistence,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			r := initResources(t)
			user := storedUser()
			tc.setupMocks(r, user)

			got, err := r.usecase.Patch(r.ctx, user.ID, tc.patch)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}
			assert.NoError(t, err)
			tc.check(t, r, got)
		})
	}
}

func (s *UsecaseUserUnitSuite) TestOnboard(t provider.T) {
	t.Parallel()

	t.Run("Success", func(t provider.T) {
		r := initResources(t)
		user := storedUser()
		answers := json.RawMessage(`{"goal":"placements","hours_per_day":3}`)
		r.repo.On("ByID", r.ctx, user.ID).Return(user, nil).Once()
		r.repo.On("Update", r.ctx, mock.MatchedBy(func(u model.User) bool {
			return u.Onboarded && string(u.Onboarding) == string(answers)
		})).Return(nil).Once()

		got, err := r.usecase.Onboard(r.ctx, user.ID, answers)

		assert.NoError(t, err)
		assert.True(t, got.Onboarded)
	})

	t.Run("Answers must be an object", func(t provider.T) {
		r := initResources(t)
		for _, raw := range []string{`[1,2]`, `"x"`, `null`, `{`} {
			_, err := r.usecase.Onboard(r.ctx, storedUser().ID, json.RawMessage(raw))
			assert.ErrorIs(t, err, ErrInvalidInput, raw)
		}
	})
}

func TestUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseUserUnitSuite))
}
