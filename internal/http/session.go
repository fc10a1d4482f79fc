package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const (
	// CurrUserKey is the session key holding the logged in user's id.
	CurrUserKey = "curr_user"

	sessionName = "warbler"
)

// Flash categories.
const (
	flashSuccess = "success"
	flashDanger  = "danger"
	flashInfo    = "info"
)

var flashCategories = []string{flashSuccess, flashDanger, flashInfo}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

// NewSessionStore builds the signed cookie store used for login sessions.
func NewSessionStore(secret string, maxAge int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

type sessionManager struct {
	store sessions.Store
}

// session returns the request's session. A cookie that fails to decode
// yields a fresh session, which is what we want for tampered or stale cookies.
func (m *sessionManager) session(c *gin.Context) *sessions.Session {
	s, _ := m.store.Get(c.Request, sessionName)
	return s
}

func (m *sessionManager) save(c *gin.Context, s *sessions.Session) {
	if err := s.Save(c.Request, c.Writer); err != nil {
		_ = c.Error(err)
	}
}

func (m *sessionManager) userID(c *gin.Context) (int64, bool) {
	id, ok := m.session(c).Values[CurrUserKey].(int64)
	return id, ok && id > 0
}

func (m *sessionManager) login(c *gin.Context, userID int64) {
	s := m.session(c)
	s.Values[CurrUserKey] = userID
	m.save(c, s)
}

func (m *sessionManager) logout(c *gin.Context) {
	s := m.session(c)
	delete(s.Values, CurrUserKey)
	m.save(c, s)
}

func (m *sessionManager) flash(c *gin.Context, category, msg string) {
	s := m.session(c)
	s.AddFlash(msg, category)
	m.save(c, s)
}

// popFlashes drains pending flashes. It must run before the response body is
// written so the updated cookie can still be sent.
func (m *sessionManager) popFlashes(c *gin.Context) []Flash {
	s := m.session(c)
	var out []Flash
	for _, cat := range flashCategories {
		for _, v := range s.Flashes(cat) {
			if msg, ok := v.(string); ok {
				out = append(out, Flash{Category: cat, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		m.save(c, s)
	}
	return out
}
