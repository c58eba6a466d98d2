package handler_test

import (
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/room-escape-reservation/internal/errs"
	"github.com/iliyamo/room-escape-reservation/internal/handler"
	service_mocks "github.com/iliyamo/room-escape-reservation/internal/handler/mocks"
	"github.com/iliyamo/room-escape-reservation/internal/middleware"
	"github.com/iliyamo/room-escape-reservation/internal/model"
	"github.com/iliyamo/room-escape-reservation/internal/service"
	"github.com/iliyamo/room-escape-reservation/internal/utils"
)

const secret = "test-secret"

func newAuth(t *testing.T) (*handler.AuthHandler, *service_mocks.MockMemberService) {
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	svc := service_mocks.NewMockMemberService(c)
	return handler.NewAuthHandler(svc, secret, 30, false, clock, zap.NewNop()), svc
}

func sessionCookie(w interface{ Result() *http.Response }) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			return ck
		}
	}
	return nil
}

func TestAuthHandler_Login(t *testing.T) {
	h, svc := newAuth(t)
	e := newEcho()
	e.POST("/login", h.Login)

	svc.EXPECT().Authenticate(gomock.Any(), "brown@example.com", "pw").Return(brown, nil)
	w := do(e, http.MethodPost, "/login", `{"email":"brown@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code)

	ck := sessionCookie(w)
	require.NotNil(t, ck)
	require.True(t, ck.HttpOnly)
	require.Equal(t, "/", ck.Path)
	require.Contains(t, w.Body.String(), ck.Value)

	claims, err := utils.ParseAccessToken(secret, ck.Value, clock.Now)
	require.NoError(t, err)
	id, err := claims.MemberID()
	require.NoError(t, err)
	require.Equal(t, brown.ID, id)
	require.Equal(t, "USER", claims.Role)

	svc.EXPECT().Authenticate(gomock.Any(), "brown@example.com", "bad").
		Return(model.Member{}, errs.Unauthorized("invalid email or password"))
	w = do(e, http.MethodPost, "/login", `{"email":"brown@example.com","password":"bad"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Nil(t, sessionCookie(w))

	w = do(e, http.MethodPost, "/login", `{"email":"nope"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_LogoutClearsCookie(t *testing.T) {
	h, _ := newAuth(t)
	e := newEcho()
	e.POST("/logout", h.Logout)

	w := do(e, http.MethodPost, "/logout", "")
	require.Equal(t, http.StatusOK, w.Code)
	ck := sessionCookie(w)
	require.NotNil(t, ck)
	require.Empty(t, ck.Value)
	require.Equal(t, -1, ck.MaxAge)
}

func TestAuthHandler_LoginCheck(t *testing.T) {
	h, svc := newAuth(t)
	e := newEcho()
	e.GET("/login/check", h.LoginCheck, as(brown.ID, model.RoleUser))

	gomock.InOrder(
		svc.EXPECT().Get(gomock.Any(), brown.ID).Return(brown, nil),
		svc.EXPECT().Get(gomock.Any(), brown.ID).Return(model.Member{}, errs.NotFound("member not found")),
	)
	w := do(e, http.MethodGet, "/login/check", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"id":1,"name":"brown"}`, w.Body.String())

	w = do(e, http.MethodGet, "/login/check", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_SignUpAndList(t *testing.T) {
	h, svc := newAuth(t)
	e := newEcho()
	e.POST("/members", h.SignUp)
	e.GET("/members", h.ListMembers)

	in := service.SignUp{Name: "brown", Email: "brown@example.com", Password: "secret"}
	gomock.InOrder(
		svc.EXPECT().SignUp(gomock.Any(), in).Return(brown, nil),
		svc.EXPECT().SignUp(gomock.Any(), in).Return(model.Member{}, errs.Conflict("email is already registered")),
	)
	body := `{"name":"brown","email":"brown@example.com","password":"secret"}`
	w := do(e, http.MethodPost, "/members", body)
	require.Equal(t, http.StatusCreated, w.Code)
	require.JSONEq(t, `{"id":1,"name":"brown"}`, w.Body.String())

	w = do(e, http.MethodPost, "/members", body)
	require.Equal(t, http.StatusConflict, w.Code)

	svc.EXPECT().List(gomock.Any()).Return([]model.Member{brown}, nil)
	w = do(e, http.MethodGet, "/members", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[{"id":1,"name":"brown"}]`, w.Body.String())
}
