package infra_postgres_user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ShivanshCoding36/college-companion/internal/model"
	usecase_user "github.com/ShivanshCoding36/college-companion/internal/usecase/user"
)

const uniqueViolation = "23505"

type Driver struct {
	db *sqlx.DB
}

func New(
	db *sqlx.DB,
) *Driver {
	return &Driver{db: db}
}

func (d *Driver) Create(ctx context.Context, user model.User) error {
	query := `
		INSERT INTO users (id, email, display_name, college, branch, semester, onboarded, onboarding, created_at, updated_at)
		VALUES (:id, :email, :display_name, :college, :branch, :semester, :onboarded, :onboarding, :created_at, :updated_at)
	`

	_, err := d.db.NamedExecContext(ctx, query, FromDomain(user))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return usecase_user.ErrEmailConflict
		}
		return err
	}
	return nil
}

func (d *Driver) ByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	var user UserDB

	query := `
		SELECT id, email, display_name, college, branch, semester, onboarded, onboarding, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	err := d.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, usecase_user.ErrResourceNotFound
		}
		return model.User{}, err
	}

	return user.ToDomain(), nil
}

func (d *Driver) Update(ctx context.Context, user model.User) error {
	query := `
		UPDATE users
		SET display_name = :display_name,
			college = :college,
			branch = :branch,
			semester = :semester,
			onboarded = :onboarded,
			onboarding = :onboarding,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := d.db.NamedExecContext(ctx, query, FromDomain(user))
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return usecase_user.ErrResourceNotFound
	}

	return nil
}
