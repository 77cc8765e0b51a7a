package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avdeyev/cinema-booking/internal/model"
)

// HallRepo provides persistence for halls.  Halls carry their seat
// grid dimensions and no per-seat rows; geometry checks happen in the
// model.  There is no update method: hall geometry is immutable once
// screenings reference it.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo { return &HallRepo{db: db} }

// Create inserts a new hall and populates the generated ID and the
// DB-default fields on the given struct.
func (r *HallRepo) Create(ctx context.Context, h *model.Hall) error {
	const q = `INSERT INTO halls (cinema_id, name, total_rows, total_seats_per_row) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, h.CinemaID, h.Name, h.TotalRows, h.TotalSeatsPerRow)
	if err != nil {
		return asStorageErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	const sel = `SELECT id, cinema_id, name, total_rows, total_seats_per_row, is_active, created_at, updated_at
	             FROM halls WHERE id = ?`
	return asStorageErr(r.db.QueryRowContext(ctx, sel, h.ID).Scan(
		&h.ID, &h.CinemaID, &h.Name, &h.TotalRows, &h.TotalSeatsPerRow, &h.IsActive, &h.CreatedAt, &h.UpdatedAt,
	))
}

// GetByID retrieves a hall or model.ErrHallNotFound.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	const q = `SELECT id, cinema_id, name, total_rows, total_seats_per_row, is_active, created_at, updated_at
	           FROM halls WHERE id = ?`
	var h model.Hall
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&h.ID, &h.CinemaID, &h.Name, &h.TotalRows, &h.TotalSeatsPerRow, &h.IsActive, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrHallNotFound
		}
		return nil, asStorageErr(err)
	}
	return &h, nil
}

// ListByCinema returns the halls of a cinema ordered by id.  When the
// cinema has no halls an empty slice is returned.
func (r *HallRepo) ListByCinema(ctx context.Context, cinemaID uint64) ([]model.Hall, error) {
	const q = `SELECT id, cinema_id, name, total_rows, total_seats_per_row, is_active, created_at, updated_at
	           FROM halls WHERE cinema_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, cinemaID)
	if err != nil {
		return nil, asStorageErr(err)
	}
	defer rows.Close()
	out := make([]model.Hall, 0)
	for rows.Next() {
		var h model.Hall
		if err := rows.Scan(&h.ID, &h.CinemaID, &h.Name, &h.TotalRows, &h.TotalSeatsPerRow, &h.IsActive, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, asStorageErr(err)
	}
	return out, nil
}
