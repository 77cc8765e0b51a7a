package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avdeyev/cinema-booking/internal/model"
)

// UserRepo provides account persistence.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the given DB handle.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a user.  A duplicate email maps to
// model.ErrEmailTaken via the unique key on users.email.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		if isDuplicateKey(err, "uq_users_email") {
			return model.ErrEmailTaken
		}
		return asStorageErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return asStorageErr(r.db.QueryRowContext(ctx,
		`SELECT created_at FROM users WHERE id = ?`, u.ID).Scan(&u.CreatedAt))
}

// GetByEmail retrieves a user by email or model.ErrUserNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT id, email, password_hash, role, created_at FROM users WHERE email = ?`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, asStorageErr(err)
	}
	return &u, nil
}

// GetByID retrieves a user by id or model.ErrUserNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT id, email, password_hash, role, created_at FROM users WHERE id = ?`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, asStorageErr(err)
	}
	return &u, nil
}
