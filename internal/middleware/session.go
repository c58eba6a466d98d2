package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-escape-reservation/internal/utils"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "token"

// Session validates the session token and stores the member id and role
// in the context under MemberIDKey and RoleKey.  Both the "token" cookie
// and an "Authorization: Bearer" header are tried, cookie first; the
// first one that verifies wins, so a stale cookie does not shadow a good
// header.  now is the clock token expiry is checked against.
func Session(secret string, now func() time.Time) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raws := tokensFrom(c)
			if len(raws) == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
			}
			for _, raw := range raws {
				claims, err := utils.ParseAccessToken(secret, raw, now)
				if err != nil {
					continue
				}
				id, _ := claims.MemberID()
				c.Set(MemberIDKey, id)
				c.Set(RoleKey, claims.Role)
				return next(c)
			}
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}
	}
}

func tokensFrom(c echo.Context) []string {
	var out []string
	if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
		out = append(out, ck.Value)
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		if raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")); raw != "" {
			out = append(out, raw)
		}
	}
	return out
}
