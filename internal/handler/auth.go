package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/room-escape-reservation/internal/errs"
	"github.com/iliyamo/room-escape-reservation/internal/middleware"
	"github.com/iliyamo/room-escape-reservation/internal/service"
	"github.com/iliyamo/room-escape-reservation/internal/utils"
)

// AuthHandler serves the session and member endpoints.  The session token
// is issued here and travels in the HttpOnly "token" cookie; the services
// only ever see a resolved member.
type AuthHandler struct {
	Members      MemberService
	Secret       string
	AccessTTLMin int
	SecureCookie bool
	Clock        service.Clock
	log          *zap.Logger
}

func NewAuthHandler(members MemberService, secret string, ttlMin int, secure bool, clock service.Clock, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		Members:      members,
		Secret:       secret,
		AccessTTLMin: ttlMin,
		SecureCookie: secure,
		Clock:        clock,
		log:          log.Named("auth"),
	}
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signUpReq struct {
	Name     string `json:"name" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4,max=72"`
}

// Login verifies the credentials and sets the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.log, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	m, err := h.Members.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return fail(c, h.log, err)
	}
	tok, err := utils.NewAccessToken(h.Secret, m.ID, string(m.Role), h.AccessTTLMin, h.Clock.Now())
	if err != nil {
		return fail(c, h.log, errs.Internal("issue token", err))
	}
	c.SetCookie(h.cookie(tok.Token, tok.Exp))
	return c.JSON(http.StatusOK, tokenResp{AccessToken: tok.Token})
}

// LoginCheck returns the member behind the current session.
func (h *AuthHandler) LoginCheck(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, h.log, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	m, err := h.Members.Get(ctx, a.MemberID)
	if errs.KindOf(err) == errs.KindNotFound {
		// the token outlived its member
		return fail(c, h.log, errs.Unauthorized("login required"))
	}
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, toMember(m))
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	ck := h.cookie("", time.Unix(0, 0))
	ck.MaxAge = -1
	c.SetCookie(ck)
	return c.NoContent(http.StatusOK)
}

// SignUp registers a USER member.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.log, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	m, err := h.Members.SignUp(ctx, service.SignUp{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, toMember(m))
}

// ListMembers is the admin listing of members.
func (h *AuthHandler) ListMembers(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	list, err := h.Members.List(ctx)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, mapSlice(list, toMember))
}

func (h *AuthHandler) cookie(value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
