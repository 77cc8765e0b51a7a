package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avdeyev/cinema-booking/internal/model"
)

// ScreeningRepo manages persistence for screenings.  Creation runs the
// overlap check and the insert inside one transaction so that two
// concurrent schedulers targeting the same hall cannot both pass the
// check and corrupt the no-overlap invariant.
type ScreeningRepo struct {
	db *sql.DB
}

// NewScreeningRepo constructs a ScreeningRepo with the given DB handle.
func NewScreeningRepo(db *sql.DB) *ScreeningRepo { return &ScreeningRepo{db: db} }

const screeningCols = `id, movie_id, hall_id, starts_at, ends_at, base_price_cents, is_active, created_at, updated_at`

func scanScreening(row interface{ Scan(...any) error }, s *model.Screening) error {
	return row.Scan(&s.ID, &s.MovieID, &s.HallID, &s.StartsAt, &s.EndsAt, &s.BasePriceCents, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
}

// CreateExclusive inserts a screening after verifying that no other
// active screening on the same hall intersects [StartsAt, EndsAt).
// The hall row is locked for the duration of the transaction, which
// serializes concurrent creates per hall; the check and the insert are
// therefore one atomic unit.  Returns model.ErrHallNotFound when the
// hall does not exist and model.ErrOverlap on an interval conflict.
func (r *ScreeningRepo) CreateExclusive(ctx context.Context, s *model.Screening) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return asStorageErr(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the hall row.  Every scheduler call for this hall queues
	// behind the lock until commit.
	var hallID uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM halls WHERE id = ? FOR UPDATE`, s.HallID).Scan(&hallID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrHallNotFound
		}
		return asStorageErr(err)
	}

	// Half-open intervals [s,e) intersect iff s1 < e2 && s2 < e1, i.e.
	// NOT (ends_at <= new_start OR starts_at >= new_end).
	var conflicts int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM screenings
		 WHERE hall_id = ? AND is_active = 1 AND NOT (ends_at <= ? OR starts_at >= ?)`,
		s.HallID, s.StartsAt, s.EndsAt,
	).Scan(&conflicts)
	if err != nil {
		return asStorageErr(err)
	}
	if conflicts > 0 {
		return model.ErrOverlap
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO screenings (movie_id, hall_id, starts_at, ends_at, base_price_cents) VALUES (?, ?, ?, ?, ?)`,
		s.MovieID, s.HallID, s.StartsAt, s.EndsAt, s.BasePriceCents,
	)
	if err != nil {
		return asStorageErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	if err := scanScreening(tx.QueryRowContext(ctx,
		`SELECT `+screeningCols+` FROM screenings WHERE id = ?`, s.ID), s); err != nil {
		return asStorageErr(err)
	}
	if err := tx.Commit(); err != nil {
		return asStorageErr(err)
	}
	committed = true
	return nil
}

// GetByID retrieves a screening or model.ErrScreeningNotFound.
func (r *ScreeningRepo) GetByID(ctx context.Context, id uint64) (*model.Screening, error) {
	var s model.Screening
	err := scanScreening(r.db.QueryRowContext(ctx,
		`SELECT `+screeningCols+` FROM screenings WHERE id = ?`, id), &s)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrScreeningNotFound
		}
		return nil, asStorageErr(err)
	}
	return &s, nil
}

// Deactivate soft-deletes a screening.  Idempotent: deactivating an
// already inactive screening leaves the same end state and returns no
// error.  Dependent tickets are untouched.  Returns
// model.ErrScreeningNotFound when the id does not exist.
func (r *ScreeningRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE screenings SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return asStorageErr(err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	// Zero rows: either already inactive (fine) or missing.
	var one int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM screenings WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrScreeningNotFound
	}
	return asStorageErr(err)
}

// ListByMovie returns the active screenings of a movie that start at
// or after the given instant, ordered by start time.
func (r *ScreeningRepo) ListByMovie(ctx context.Context, movieID uint64, from time.Time) ([]model.Screening, error) {
	const q = `SELECT ` + screeningCols + ` FROM screenings
	           WHERE movie_id = ? AND is_active = 1 AND starts_at >= ?
	           ORDER BY starts_at`
	rows, err := r.db.QueryContext(ctx, q, movieID, from)
	if err != nil {
		return nil, asStorageErr(err)
	}
	defer rows.Close()
	out := make([]model.Screening, 0)
	for rows.Next() {
		var s model.Screening
		if err := scanScreening(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, asStorageErr(err)
	}
	return out, nil
}
