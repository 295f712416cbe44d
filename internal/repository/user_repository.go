package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shop-service/internal/models"
)

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	if u.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if u.Email == "" {
		return fmt.Errorf("%w: email required", ErrInvalidInput)
	}
	if u.Password == "" {
		return fmt.Errorf("%w: password required", ErrInvalidInput)
	}

	sql := `
		INSERT INTO users (
			name,
			email,
			password,
			phone,
			address,
			role,
			created_at,
			updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING user_id
	`

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	err := r.db.QueryRow(ctx, sql,
		u.Name,
		u.Email,
		u.Password,
		u.Phone,
		u.Address,
		u.Role,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(&u.UserID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: email already exists", ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: ID must be positive", ErrInvalidInput)
	}

	sql := `
		SELECT
			user_id,
			name,
			email,
			password,
			phone,
			address,
			role,
			created_at,
			updated_at
		FROM users WHERE user_id = $1
	`

	var user models.User

	err := r.db.QueryRow(ctx, sql, id).Scan(
		&user.UserID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Phone,
		&user.Address,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}

	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", ErrInvalidInput)
	}

	sql := `
		SELECT
			user_id,
			name,
			email,
			password,
			phone,
			address,
			role,
			created_at,
			updated_at
		FROM users WHERE email = $1
	`

	var user models.User

	err := r.db.QueryRow(ctx, sql, email).Scan(
		&user.UserID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Phone,
		&user.Address,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, u *models.User) error {
	if u.UserID <= 0 {
		return fmt.Errorf("%w: ID must be positive", ErrInvalidInput)
	}
	if u.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	}

	sql := `
	UPDATE users
	SET
		name = $1,
		password = $2,
		phone = $3,
		address = $4,
		updated_at = $5
	WHERE user_id = $6
	RETURNING updated_at
	`

	now := time.Now()

	err := r.db.QueryRow(ctx, sql,
		u.Name,
		u.Password,
		u.Phone,
		u.Address,
		now,
		u.UserID,
	).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update user %d: %w", u.UserID, err)
	}

	return nil
}
