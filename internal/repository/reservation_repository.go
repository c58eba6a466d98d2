package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/iliyamo/room-escape-reservation/internal/model"
)

// ReservationRepo persists reservations.  Reads always join member,
// reservation_time and theme so callers receive a fully materialized
// model.Reservation.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

func reservationSelect() sq.SelectBuilder {
	return qb.Select(
		"r.id", "r.date",
		"m.id", "m.name", "m.email", "m.role",
		"t.id", "t.start_at",
		"th.id", "th.name", "th.description", "th.thumbnail",
	).
		From("reservation r").
		Join("member m ON m.id = r.member_id").
		Join("reservation_time t ON t.id = r.time_id").
		Join("theme th ON th.id = r.theme_id")
}

func scanReservation(s rowScanner) (model.Reservation, error) {
	var (
		res  model.Reservation
		role string
	)
	err := s.Scan(
		&res.ID, &res.Date,
		&res.Member.ID, &res.Member.Name, &res.Member.Email, &role,
		&res.Time.ID, &res.Time.StartAt,
		&res.Theme.ID, &res.Theme.Name, &res.Theme.Description, &res.Theme.Thumbnail,
	)
	if err != nil {
		return model.Reservation{}, translate(err)
	}
	res.Member.Role = model.Role(role)
	return res, nil
}

// Create inserts res and returns it with its generated ID.  A row with the
// same (date, time_id, theme_id) yields ErrDuplicate.
func (r *ReservationRepo) Create(ctx context.Context, res model.Reservation) (model.Reservation, error) {
	const q = `INSERT INTO reservation (date, member_id, time_id, theme_id) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, res.Date, res.Member.ID, res.Time.ID, res.Theme.ID)
	if err != nil {
		if err = translate(err); err == ErrDuplicate {
			return model.Reservation{}, err
		}
		return model.Reservation{}, errors.Wrap(err, "reservation: insert")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.Reservation{}, errors.Wrap(err, "reservation: last insert id")
	}
	res.ID = uint64(id)
	return res, nil
}

// GetByID returns ErrNotFound when the reservation does not exist.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	q, args, err := reservationSelect().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return model.Reservation{}, errors.Wrap(err, "reservation: build get")
	}
	return scanReservation(r.db.QueryRowContext(ctx, q, args...))
}

// List returns every reservation ordered by date, start time and id.
func (r *ReservationRepo) List(ctx context.Context) ([]model.Reservation, error) {
	return r.query(ctx, reservationSelect().OrderBy("r.date", "t.start_at", "r.id"))
}

// ListByMember returns the member's reservations ordered by date then
// start time.
func (r *ReservationRepo) ListByMember(ctx context.Context, memberID uint64) ([]model.Reservation, error) {
	return r.query(ctx, reservationSelect().
		Where(sq.Eq{"r.member_id": memberID}).
		OrderBy("r.date", "t.start_at", "r.id"))
}

func (r *ReservationRepo) query(ctx context.Context, b sq.SelectBuilder) ([]model.Reservation, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "reservation: build list")
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "reservation: list")
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, errors.Wrap(err, "reservation: scan")
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// ExistsBySlot reports whether the (date, time, theme) triple is taken.
func (r *ReservationRepo) ExistsBySlot(ctx context.Context, date model.Date, timeID, themeID uint64) (bool, error) {
	return exists(ctx, r.db,
		"SELECT EXISTS(SELECT 1 FROM reservation WHERE date = ? AND time_id = ? AND theme_id = ?)",
		date, timeID, themeID)
}

func (r *ReservationRepo) ExistsByTheme(ctx context.Context, themeID uint64) (bool, error) {
	return exists(ctx, r.db, "SELECT EXISTS(SELECT 1 FROM reservation WHERE theme_id = ?)", themeID)
}

func (r *ReservationRepo) ExistsByTime(ctx context.Context, timeID uint64) (bool, error) {
	return exists(ctx, r.db, "SELECT EXISTS(SELECT 1 FROM reservation WHERE time_id = ?)", timeID)
}

// BookedTimeIDs returns the ids of the time slots already reserved for the
// theme on date.
func (r *ReservationRepo) BookedTimeIDs(ctx context.Context, date model.Date, themeID uint64) (map[uint64]bool, error) {
	q, args, err := qb.Select("time_id").
		From("reservation").
		Where(sq.Eq{"date": date, "theme_id": themeID}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "reservation: build booked")
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "reservation: booked")
	}
	defer rows.Close()
	booked := make(map[uint64]bool)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "reservation: scan booked")
		}
		booked[id] = true
	}
	return booked, rows.Err()
}

// Delete removes a reservation.  ErrNotFound is returned when no row was
// deleted.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reservation WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "reservation: delete")
	}
	return requireAffected(res)
}

// CountByThemeBetween counts reservations per theme whose date lies in the
// inclusive range [from, to].  Themes without reservations in the range
// are omitted.  Rows come back ordered by count desc then theme id asc.
func (r *ReservationRepo) CountByThemeBetween(ctx context.Context, from, to model.Date) ([]model.ThemeCount, error) {
	q, args, err := qb.Select(
		"th.id", "th.name", "th.description", "th.thumbnail", "COUNT(r.id) AS cnt",
	).
		From("reservation r").
		Join("theme th ON th.id = r.theme_id").
		Where(sq.GtOrEq{"r.date": from}).
		Where(sq.LtOrEq{"r.date": to}).
		GroupBy("th.id", "th.name", "th.description", "th.thumbnail").
		OrderBy("cnt DESC", "th.id ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "reservation: build count")
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "reservation: count by theme")
	}
	defer rows.Close()
	out := make([]model.ThemeCount, 0)
	for rows.Next() {
		var tc model.ThemeCount
		if err := rows.Scan(&tc.Theme.ID, &tc.Theme.Name, &tc.Theme.Description, &tc.Theme.Thumbnail, &tc.Count); err != nil {
			return nil, errors.Wrap(err, "reservation: scan count")
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}
