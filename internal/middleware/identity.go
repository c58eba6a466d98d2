package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-escape-reservation/internal/model"
)

// Context keys set by Session.
const (
	MemberIDKey = "member_id"
	RoleKey     = "role"
)

// MemberID returns the authenticated member id, if any.
func MemberID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(MemberIDKey).(uint64)
	return id, ok && id != 0
}

// Role returns the authenticated member's role or "".
func Role(c echo.Context) model.Role {
	r, _ := c.Get(RoleKey).(string)
	return model.Role(r)
}

// identity is the rate-limit key component for the caller: the member id
// when a session is present, otherwise "anon".
func identity(c echo.Context) string {
	if id, ok := MemberID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
