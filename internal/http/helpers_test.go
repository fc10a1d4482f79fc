package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"warbler/internal/domain"
	"warbler/internal/metrics"
	"warbler/internal/repository/sqlstore"
	"warbler/internal/service"
	"warbler/internal/storage"
)

const testJWTSecret = "test-jwt-secret"

type testApp struct {
	router   *gin.Engine
	store    *sqlstore.Store
	cookies  *sessions.CookieStore
	users    service.UserService
	messages service.MessageService
	follows  service.FollowService
	likes    service.LikeService
	logs     *test.Hook
}

func newTestApp(t *testing.T, opts ...func(*Deps)) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := sqlstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background(), nil))

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	reg := prometheus.NewRegistry()
	app := &testApp{
		store:    store,
		cookies:  NewSessionStore("test-secret", 3600, false),
		users:    service.NewUserService(store.DB, store),
		messages: service.NewMessageService(store.DB, store),
		follows:  service.NewFollowService(store.DB, store),
		likes:    service.NewLikeService(store.DB, store),
		logs:     hook,
	}

	deps := Deps{
		Users:     app.users,
		Messages:  app.messages,
		Follows:   app.follows,
		Likes:     app.likes,
		Sessions:  app.cookies,
		Metrics:   metrics.New(reg),
		Gatherer:  reg,
		Logger:    logger,
		JWTSecret: testJWTSecret,
	}
	for _, o := range opts {
		o(&deps)
	}

	app.router = gin.New()
	NewHandler(deps).RegisterRoutes(app.router)
	return app
}

func withStorage(s storage.Service) func(*Deps) {
	return func(d *Deps) { d.Storage = s }
}

// addUser creates a user directly in the store, honouring an explicit id.
func (a *testApp) addUser(t *testing.T, id int64, name string) *domain.User {
	t.Helper()
	u, err := a.users.Signup(context.Background(), service.SignupInput{
		Username: name,
		Email:    name + "@test.com",
		Password: "password",
	})
	require.NoError(t, err)
	if id != 0 && id != u.ID {
		_, err := a.store.DB.Exec(`UPDATE users SET id = ? WHERE id = ?`, id, u.ID)
		require.NoError(t, err)
		u.ID = id
	}
	return u
}

func (a *testApp) addMessage(t *testing.T, id, userID int64, text string) *domain.Message {
	t.Helper()
	m := &domain.Message{ID: id, Text: text, UserID: userID}
	_, err := a.store.Messages(a.store.DB).Create(context.Background(), m)
	require.NoError(t, err)
	return m
}

// sessionCookie mints a signed session cookie with the user id set, the way a
// logged in browser would carry it.
func (a *testApp) sessionCookie(t *testing.T, userID int64) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	s, err := a.cookies.New(req, sessionName)
	require.NoError(t, err)
	s.Values[CurrUserKey] = userID
	require.NoError(t, s.Save(req, rec))

	return lastSessionCookie(rec.Result().Cookies())
}

func lastSessionCookie(cookies []*http.Cookie) *http.Cookie {
	var found *http.Cookie
	for _, c := range cookies {
		if c.Name == sessionName {
			found = c
		}
	}
	return found
}

func (a *testApp) do(t *testing.T, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// follow issues a GET to the redirect target, carrying the newest session
// cookie.
func (a *testApp) follow(t *testing.T, rec *httptest.ResponseRecorder, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	require.Equal(t, http.StatusFound, rec.Code)
	if c := lastSessionCookie(rec.Result().Cookies()); c != nil {
		cookie = c
	}
	return a.do(t, http.MethodGet, rec.Header().Get("Location"), nil, cookie)
}

func (a *testApp) doJSON(t *testing.T, method, path string, payload any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = strings.NewReader(string(b))
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
