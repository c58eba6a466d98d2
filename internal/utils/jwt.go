package utils // package utils provides helpers for session tokens and password hashing

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken represents a signed session token along with its expiry.
// Token is the serialized JWT that is handed to the browser in the
// "token" cookie (or sent back as a Bearer header by API clients).
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims carries the session identity.  The subject holds the member id
// in decimal form and Role the member's role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// MemberID parses the subject claim back into a member id.
func (c *Claims) MemberID() (uint64, error) {
	return strconv.ParseUint(c.Subject, 10, 64)
}

// ErrInvalidToken is returned by ParseAccessToken for any malformed,
// expired or wrongly signed token.
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT for a member.  now is the
// issue instant; the token expires ttlMin minutes later.
func NewAccessToken(secret string, memberID uint64, role string, ttlMin int, now time.Time) (AccessToken, error) {
	now = now.UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(memberID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw against secret and returns its claims.
// Only HMAC signing methods are accepted.  Expiry is judged against now,
// the same clock that issued the token; nil means the wall clock.
func ParseAccessToken(secret, raw string, now func() time.Time) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{
		jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg(),
	})}
	if now != nil {
		opts = append(opts, jwt.WithTimeFunc(now))
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.MemberID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
