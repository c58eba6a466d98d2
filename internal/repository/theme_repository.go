package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/iliyamo/room-escape-reservation/internal/model"
)

// ThemeRepo manages persistence for themes.
type ThemeRepo struct{ db *sql.DB }

func NewThemeRepo(db *sql.DB) *ThemeRepo { return &ThemeRepo{db: db} }

const themeColumns = "id, name, description, thumbnail"

// Create inserts t and returns it with its generated ID.
func (r *ThemeRepo) Create(ctx context.Context, t model.Theme) (model.Theme, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO theme (name, description, thumbnail) VALUES (?, ?, ?)",
		t.Name, t.Description, t.Thumbnail)
	if err != nil {
		return model.Theme{}, errors.Wrap(err, "theme: insert")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Theme{}, errors.Wrap(err, "theme: last insert id")
	}
	t.ID = uint64(id)
	return t, nil
}

// GetByID returns ErrNotFound when no theme has the id.
func (r *ThemeRepo) GetByID(ctx context.Context, id uint64) (model.Theme, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+themeColumns+" FROM theme WHERE id = ?", id)
	return scanTheme(row)
}

// List returns all themes ordered by id.
func (r *ThemeRepo) List(ctx context.Context) ([]model.Theme, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+themeColumns+" FROM theme ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, "theme: list")
	}
	defer rows.Close()
	out := make([]model.Theme, 0)
	for rows.Next() {
		t, err := scanTheme(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Delete removes the theme.  ErrNotFound is returned when nothing was
// deleted and ErrReferenced when reservations still point at it.
func (r *ThemeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM theme WHERE id = ?", id)
	if err != nil {
		if err = translate(err); err == ErrReferenced {
			return err
		}
		return errors.Wrap(err, "theme: delete")
	}
	return requireAffected(res)
}

func scanTheme(s rowScanner) (model.Theme, error) {
	var t model.Theme
	if err := s.Scan(&t.ID, &t.Name, &t.Description, &t.Thumbnail); err != nil {
		return model.Theme{}, translate(err)
	}
	return t, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
