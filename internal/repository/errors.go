// Package repository implements MySQL persistence for members, themes,
// time slots and reservations.  Driver-level conditions are translated
// into the sentinel values below so the service layer never inspects
// MySQL error numbers itself.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup or delete matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a UNIQUE key, e.g. a
// second reservation for the same date, time and theme, or a second time
// slot with the same start.
var ErrDuplicate = errors.New("duplicate entry")

// ErrReferenced is returned when a delete is rejected by a foreign key
// because reservations still point at the row.
var ErrReferenced = errors.New("row is referenced")

const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
)

// translate maps driver errors onto the package sentinels and leaves
// everything else untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry:
			return ErrDuplicate
		case mysqlRowIsReferenced:
			return ErrReferenced
		}
	}
	return err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
