package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionContextKey = "session"

// Session is the per-request view of a session record. Handlers read
// and mutate it; the manager persists the outcome once the response
// completes. It is confined to a single request and needs no locking.
type Session struct {
	id        string
	record    *Record
	fresh     bool // no entry existed in the store when the request began
	dirty     bool
	destroyed bool

	// Cookie emission happens at mutation time: gin flushes headers on
	// the handler's first body write, so waiting until the middleware
	// regains control would drop the Set-Cookie header.
	issueCookie func()
	dropCookie  func()
	cookieSent  bool
}

func (s *Session) ID() string { return s.id }

func (s *Session) User() *Principal {
	if s.record == nil {
		return nil
	}
	return s.record.User
}

// SetUser records the authenticated identity, marks the session for
// persistence on response completion, and issues the session cookie
// so the header precedes the handler's response body.
func (s *Session) SetUser(p Principal) {
	s.record.User = &p
	s.dirty = true
	if s.issueCookie != nil && !s.cookieSent {
		s.issueCookie()
		s.cookieSent = true
	}
}

// Destroy clears the client cookie now and marks the backing entry for
// deletion when the response completes.
func (s *Session) Destroy() {
	s.destroyed = true
	if s.dropCookie != nil {
		s.dropCookie()
	}
}

// Options mirror the cookie settings of the host application.
type Options struct {
	CookieName string
	Secure     bool
	MaxAgeMS   int64
}

func (o Options) normalize() Options {
	if o.CookieName == "" {
		o.CookieName = "sessionId"
	}
	if o.MaxAgeMS <= 0 {
		o.MaxAgeMS = DefaultMaxAgeMS
	}
	return o
}

// Manager binds inbound requests to session records. It loads the
// record named by the session cookie before the handler chain runs and
// persists any mutation afterwards: Set when the session was modified,
// Touch when it was merely read, Destroy on logout. Cookie headers are
// emitted by the Session at mutation time, before the response body
// starts. Sessions that were never written to are not persisted and no
// cookie is issued for them.
type Manager struct {
	store  Store
	opts   Options
	logger *zap.Logger
}

func NewManager(store Store, opts Options, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		opts:   opts.normalize(),
		logger: logger,
	}
}

// FromContext returns the session attached to the request, or nil when
// the session middleware did not run.
func FromContext(c *gin.Context) *Session {
	v, exists := c.Get(sessionContextKey)
	if !exists {
		return nil
	}
	sess, ok := v.(*Session)
	if !ok {
		return nil
	}
	return sess
}

func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := m.load(c)
		if sess == nil {
			// Could not even mint an id; continue without a session and
			// let the auth middleware reject protected routes.
			c.Next()
			return
		}

		sess.issueCookie = func() { m.setCookie(c, sess) }
		sess.dropCookie = func() { m.clearCookie(c) }

		c.Set(sessionContextKey, sess)
		c.Next()
		m.save(c, sess)
	}
}

func (m *Manager) load(c *gin.Context) *Session {
	if sid, err := c.Cookie(m.opts.CookieName); err == nil && sid != "" {
		rec, err := m.store.Get(c.Request.Context(), sid)
		if err != nil {
			// Store fault or corrupt payload: treated as no session, so
			// the request proceeds unauthenticated (fail closed).
			m.logger.Warn("Failed to load session, treating as absent",
				zap.String("session_id", sid),
				zap.Error(err))
		}
		if rec != nil {
			return &Session{id: sid, record: rec}
		}
	}

	sid, err := GenerateID()
	if err != nil {
		m.logger.Error("Failed to generate session id", zap.Error(err))
		return nil
	}
	return &Session{
		id:     sid,
		record: NewRecord(m.opts.MaxAgeMS, m.opts.Secure),
		fresh:  true,
	}
}

func (m *Manager) save(c *gin.Context, sess *Session) {
	ctx := c.Request.Context()

	switch {
	case sess.destroyed:
		if err := m.store.Destroy(ctx, sess.id); err != nil {
			m.logger.Error("Failed to destroy session",
				zap.String("session_id", sess.id),
				zap.Error(err))
		}

	case sess.dirty:
		if err := m.store.Set(ctx, sess.id, sess.record); err != nil {
			m.logger.Error("Failed to persist session",
				zap.String("session_id", sess.id),
				zap.Error(err))
		}

	case !sess.fresh:
		// Loaded but unmodified: refresh the expiry clock only.
		if err := m.store.Touch(ctx, sess.id, sess.record); err != nil {
			m.logger.Warn("Failed to touch session",
				zap.String("session_id", sess.id),
				zap.Error(err))
		}
	}
}

func (m *Manager) setCookie(c *gin.Context, sess *Session) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    sess.id,
		Path:     sess.record.Cookie.Path,
		MaxAge:   int(sess.record.TTL().Seconds()),
		HttpOnly: sess.record.Cookie.HTTPOnly,
		Secure:   sess.record.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) clearCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
