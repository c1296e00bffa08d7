package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newManagerTest(t *testing.T) (*Manager, *RedisStore, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(rdb)
	mgr := NewManager(store, Options{CookieName: "sessionId", MaxAgeMS: 5000}, zap.NewNop())
	return mgr, store, mr, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func newTestRouter(mgr *Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mgr.Middleware())
	return r
}

func sessionCookie(t *testing.T, res *http.Response) *http.Cookie {
	t.Helper()
	for _, ck := range res.Cookies() {
		if ck.Name == "sessionId" {
			return ck
		}
	}
	return nil
}

func TestLoginPersistsSessionAndIssuesCookie(t *testing.T) {
	mgr, store, _, done := newManagerTest(t)
	defer done()

	r := newTestRouter(mgr)
	r.POST("/login", func(c *gin.Context) {
		sess := FromContext(c)
		require.NotNil(t, sess)
		sess.SetUser(Principal{ID: "u-1", Name: "Asha Rao", Email: "asha@example.com", Role: "manager"})
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))

	ck := sessionCookie(t, w.Result())
	require.NotNil(t, ck, "login must issue the session cookie")
	assert.Equal(t, 5, ck.MaxAge)

	rec, err := store.Get(t.Context(), ck.Value)
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.NotNil(t, rec.User)
	assert.Equal(t, "u-1", rec.User.ID)
	assert.Equal(t, int64(5000), rec.Cookie.MaxAge)
}

func TestCookieHeaderPrecedesResponseBody(t *testing.T) {
	mgr, _, _, done := newManagerTest(t)
	defer done()

	// gin flushes headers on the first body write, so the cookie must
	// already be set when the handler responds.
	r := newTestRouter(mgr)
	r.POST("/login", func(c *gin.Context) {
		sess := FromContext(c)
		sess.SetUser(Principal{ID: "u-1", Role: "manager"})
		sess.SetUser(Principal{ID: "u-1", Name: "Asha Rao", Role: "manager"})
		c.Writer.WriteHeaderNow()
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))

	cookies := w.Result().Cookies()
	count := 0
	for _, ck := range cookies {
		if ck.Name == "sessionId" {
			count++
		}
	}
	assert.Equal(t, 1, count, "repeated writes issue exactly one cookie")
}

func TestUninitializedSessionIsNotPersisted(t *testing.T) {
	mgr, _, mr, done := newManagerTest(t)
	defer done()

	r := newTestRouter(mgr)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Nil(t, sessionCookie(t, w.Result()), "no cookie for an untouched session")
	assert.Empty(t, mr.Keys())
}

func TestReadOnlyRequestTouchesExistingSession(t *testing.T) {
	mgr, store, mr, done := newManagerTest(t)
	defer done()

	rec := NewRecord(5000, false)
	rec.User = &Principal{ID: "u-1", Role: "manager"}
	require.NoError(t, store.Set(t.Context(), "sid-1", rec))
	mr.FastForward(3 * time.Second)

	r := newTestRouter(mgr)
	r.GET("/me", func(c *gin.Context) {
		sess := FromContext(c)
		require.NotNil(t, sess)
		require.NotNil(t, sess.User())
		c.JSON(http.StatusOK, gin.H{"success": true, "data": sess.User()})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "sessionId", Value: "sid-1"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, 5*time.Second, mr.TTL("sess:sid-1"), "touch must reset the expiry clock")
}

func TestDestroyRemovesSessionAndClearsCookie(t *testing.T) {
	mgr, store, mr, done := newManagerTest(t)
	defer done()

	rec := NewRecord(5000, false)
	rec.User = &Principal{ID: "u-1", Role: "manager"}
	require.NoError(t, store.Set(t.Context(), "sid-1", rec))

	r := newTestRouter(mgr)
	r.POST("/logout", func(c *gin.Context) {
		FromContext(c).Destroy()
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "sessionId", Value: "sid-1"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.False(t, mr.Exists("sess:sid-1"))

	ck := sessionCookie(t, w.Result())
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
	assert.True(t, ck.MaxAge < 0 || strings.HasPrefix(ck.String(), "sessionId=;"))
}

func TestUnknownCookieStartsFreshSession(t *testing.T) {
	mgr, _, mr, done := newManagerTest(t)
	defer done()

	r := newTestRouter(mgr)
	r.GET("/me", func(c *gin.Context) {
		sess := FromContext(c)
		require.NotNil(t, sess)
		assert.Nil(t, sess.User())
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "sessionId", Value: "expired-or-bogus"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Fresh session, never written: nothing persisted.
	assert.Empty(t, mr.Keys())
}
