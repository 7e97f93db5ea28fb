package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agrisense/internal/auth"
	"agrisense/internal/model"
)

const testSecret = "a-test-secret-of-some-length"

func newManager() (*Manager, *auth.JWTService) {
	jwtSvc := auth.NewJWTService(testSecret, time.Hour)
	return NewManager(NewMemoryStore(), jwtSvc), jwtSvc
}

func TestManager_StartLoadDestroy(t *testing.T) {
	ctx := context.Background()
	m, jwtSvc := newManager()

	s := New("farmer@example.com", model.RoleAdmin, "access")
	token, err := m.Start(ctx, s)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)

	claims, err := jwtSvc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, s.ID, claims.SessionID())

	loaded, err := m.Load(ctx, claims)
	require.NoError(t, err)
	assert.True(t, loaded.IsAdmin())
	assert.Equal(t, "farmer@example.com", loaded.Email)

	loaded.Notice = "hello"
	require.NoError(t, m.Save(ctx, loaded))
	again, err := m.Load(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "hello", again.TakeNotice())
	assert.Empty(t, again.Notice)

	require.NoError(t, m.Destroy(ctx, again))
	assert.False(t, again.Authenticated)
	assert.Empty(t, again.ID)

	after, err := m.Load(ctx, claims)
	require.NoError(t, err)
	assert.False(t, after.Authenticated)
}

func TestManager_LoadWithoutClaimsIsAnonymous(t *testing.T) {
	m, _ := newManager()
	s, err := m.Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Anonymous(), s)
}

func TestManager_SaveRequiresStart(t *testing.T) {
	m, _ := newManager()
	assert.Error(t, m.Save(context.Background(), Anonymous()))
}

type failingStore struct{ MemoryStore }

func (*failingStore) Get(context.Context, string) (*Session, error) {
	return nil, errors.New("redis down")
}

func TestMiddleware_FallsBackToAnonymous(t *testing.T) {
	jwtSvc := auth.NewJWTService(testSecret, time.Hour)
	m := NewManager(&failingStore{}, jwtSvc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(TokenContextKey, &jwt.Token{Valid: true, Claims: &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{ID: "gone"}}})

	var seen *Session
	h := Middleware(m, zap.NewNop())(func(c echo.Context) error {
		seen = FromContext(c)
		return nil
	})
	require.NoError(t, h(c))
	require.NotNil(t, seen)
	assert.False(t, seen.Authenticated)
}

func TestMiddleware_LoadsStartedSession(t *testing.T) {
	m, jwtSvc := newManager()
	s := New("user@example.com", model.RoleUser, "")
	token, err := m.Start(context.Background(), s)
	require.NoError(t, err)
	claims, err := jwtSvc.ValidateToken(token)
	require.NoError(t, err)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(TokenContextKey, &jwt.Token{Valid: true, Claims: claims})

	h := Middleware(m, zap.NewNop())(func(c echo.Context) error {
		assert.Equal(t, "user@example.com", FromContext(c).Email)
		return nil
	})
	require.NoError(t, h(c))
}

func TestCookies(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	SetCookie(c, "tok", time.Hour, true)
	cookie := rec.Result().Cookies()[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.Equal(t, "tok", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	ClearCookie(c, false)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
}
