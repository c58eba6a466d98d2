package repository

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/iliyamo/room-escape-reservation/internal/model"
)

type MemberRepo struct{ db *sql.DB }

func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{db: db} }

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

const memberColumns = "id, name, email, password_hash, role"

// Create inserts m and returns it with its generated ID.  A taken email
// yields ErrDuplicate.
func (r *MemberRepo) Create(ctx context.Context, m model.Member) (model.Member, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO member (name, email, password_hash, role) VALUES (?, ?, ?, ?)",
		m.Name, m.Email, m.PasswordHash, string(m.Role))
	if err != nil {
		if err = translate(err); err == ErrDuplicate {
			return model.Member{}, err
		}
		return model.Member{}, errors.Wrap(err, "member: insert")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Member{}, errors.Wrap(err, "member: last insert id")
	}
	m.ID = uint64(id)
	return m, nil
}

// GetByID fetches a member by id.
func (r *MemberRepo) GetByID(ctx context.Context, id uint64) (model.Member, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM member WHERE id = ? LIMIT 1", id)
	return scanMember(row)
}

// GetByEmail fetches a member by normalized email.
func (r *MemberRepo) GetByEmail(ctx context.Context, email string) (model.Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM member WHERE email = ? LIMIT 1", email)
	return scanMember(row)
}

// List returns every member ordered by id.
func (r *MemberRepo) List(ctx context.Context) ([]model.Member, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+memberColumns+" FROM member ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, "member: list")
	}
	defer rows.Close()
	out := make([]model.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMember(s rowScanner) (model.Member, error) {
	var (
		m    model.Member
		role string
	)
	if err := s.Scan(&m.ID, &m.Name, &m.Email, &m.PasswordHash, &role); err != nil {
		return model.Member{}, translate(err)
	}
	m.Role = model.Role(role)
	return m, nil
}
