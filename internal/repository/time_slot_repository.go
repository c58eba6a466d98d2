package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/iliyamo/room-escape-reservation/internal/model"
)

// TimeSlotRepo manages the reservation_time table.
type TimeSlotRepo struct{ db *sql.DB }

func NewTimeSlotRepo(db *sql.DB) *TimeSlotRepo { return &TimeSlotRepo{db: db} }

// Create inserts s.  The UNIQUE key on start_at turns a concurrent
// duplicate into ErrDuplicate.
func (r *TimeSlotRepo) Create(ctx context.Context, s model.TimeSlot) (model.TimeSlot, error) {
	res, err := r.db.ExecContext(ctx, "INSERT INTO reservation_time (start_at) VALUES (?)", s.StartAt)
	if err != nil {
		if err = translate(err); err == ErrDuplicate {
			return model.TimeSlot{}, err
		}
		return model.TimeSlot{}, errors.Wrap(err, "time: insert")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.TimeSlot{}, errors.Wrap(err, "time: last insert id")
	}
	s.ID = uint64(id)
	return s, nil
}

func (r *TimeSlotRepo) GetByID(ctx context.Context, id uint64) (model.TimeSlot, error) {
	var s model.TimeSlot
	err := r.db.QueryRowContext(ctx, "SELECT id, start_at FROM reservation_time WHERE id = ?", id).
		Scan(&s.ID, &s.StartAt)
	if err != nil {
		return model.TimeSlot{}, translate(err)
	}
	return s, nil
}

// List returns all slots ordered by start time.
func (r *TimeSlotRepo) List(ctx context.Context) ([]model.TimeSlot, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, start_at FROM reservation_time ORDER BY start_at, id")
	if err != nil {
		return nil, errors.Wrap(err, "time: list")
	}
	defer rows.Close()
	out := make([]model.TimeSlot, 0)
	for rows.Next() {
		var s model.TimeSlot
		if err := rows.Scan(&s.ID, &s.StartAt); err != nil {
			return nil, errors.Wrap(err, "time: scan")
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *TimeSlotRepo) ExistsByStartAt(ctx context.Context, startAt model.TimeOfDay) (bool, error) {
	return exists(ctx, r.db, "SELECT EXISTS(SELECT 1 FROM reservation_time WHERE start_at = ?)", startAt)
}

// Delete removes the slot; see ThemeRepo.Delete for the error contract.
func (r *TimeSlotRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reservation_time WHERE id = ?", id)
	if err != nil {
		if err = translate(err); err == ErrReferenced {
			return err
		}
		return errors.Wrap(err, "time: delete")
	}
	return requireAffected(res)
}

func exists(ctx context.Context, db *sql.DB, q string, args ...any) (bool, error) {
	var ok bool
	if err := db.QueryRowContext(ctx, q, args...).Scan(&ok); err != nil {
		return false, errors.Wrap(err, "exists")
	}
	return ok, nil
}
