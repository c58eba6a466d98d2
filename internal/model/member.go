package model

import (
	"net/mail"
	"strings"

	"github.com/iliyamo/room-escape-reservation/internal/errs"
)

// Role is the authorization level of a member.  It is carried in the
// session token and checked by the role middleware.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// Member represents a registered account as stored in the `member`
// table.  Members are immutable once created; the booking core only
// reads them to resolve reservation owners.
//
// Fields:
//  ID           – primary key identifier, assigned by the store.
//  Name         – display name.
//  Email        – unique, lower-cased login address.
//  PasswordHash – bcrypt hash of the password.
//  Role         – USER or ADMIN.
type Member struct {
	ID           uint64 // member.id
	Name         string // member.name
	Email        string // member.email
	PasswordHash string // member.password_hash
	Role         Role   // member.role
}

// NewMember validates the attributes of a member that has not been
// persisted yet.  The email is normalized to lower case.
func NewMember(name, email, passwordHash string, role Role) (Member, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	var fields []errs.FieldError
	if name == "" {
		fields = append(fields, errs.FieldError{Field: "name", Message: "must not be empty"})
	}
	if _, err := mail.ParseAddress(email); err != nil {
		fields = append(fields, errs.FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if passwordHash == "" {
		fields = append(fields, errs.FieldError{Field: "password", Message: "must not be empty"})
	}
	if !role.Valid() {
		fields = append(fields, errs.FieldError{Field: "role", Message: "must be USER or ADMIN"})
	}
	if len(fields) > 0 {
		return Member{}, errs.Validation("invalid member", fields...)
	}
	return Member{Name: name, Email: email, PasswordHash: passwordHash, Role: role}, nil
}

// IsAdmin reports whether the member may act on behalf of others.
func (m Member) IsAdmin() bool { return m.Role == RoleAdmin }
