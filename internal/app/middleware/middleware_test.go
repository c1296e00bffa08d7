package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sarayu-iot/admin-api/internal/app/models"
	"github.com/sarayu-iot/admin-api/internal/session"
)

type MockPrincipalFinder struct {
	mock.Mock
}

func (m *MockPrincipalFinder) FindPrincipalByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type protectFixture struct {
	router *gin.Engine
	store  *session.RedisStore
	finder *MockPrincipalFinder
	done   func()
}

func newProtectFixture(t *testing.T, extra ...gin.HandlerFunc) *protectFixture {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := session.NewRedisStore(rdb)
	mgr := session.NewManager(store, session.Options{CookieName: "sessionId", MaxAgeMS: 5000}, zap.NewNop())
	finder := &MockPrincipalFinder{}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mgr.Middleware())

	handlers := []gin.HandlerFunc{Protect(finder, zap.NewNop())}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		user := GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
	})
	r.GET("/restricted", handlers...)

	return &protectFixture{
		router: r,
		store:  store,
		finder: finder,
		done: func() {
			_ = rdb.Close()
			mr.Close()
		},
	}
}

func (f *protectFixture) seedSession(t *testing.T, sid string, p session.Principal) {
	t.Helper()
	rec := session.NewRecord(5000, false)
	rec.User = &p
	require.NoError(t, f.store.Set(t.Context(), sid, rec))
}

func (f *protectFixture) get(withCookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/restricted", nil)
	if withCookie != "" {
		req.AddCookie(&http.Cookie{Name: "sessionId", Value: withCookie})
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestProtectRejectsMissingSession(t *testing.T) {
	f := newProtectFixture(t)
	defer f.done()

	w := f.get("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestProtectRejectsSessionWhoseUserNoLongerExists(t *testing.T) {
	f := newProtectFixture(t)
	defer f.done()

	f.seedSession(t, "sid-1", session.Principal{ID: "gone-user", Role: "manager"})
	f.finder.On("FindPrincipalByID", mock.Anything, "gone-user").
		Return(nil, models.ErrNotFound)

	w := f.get("sid-1")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	f.finder.AssertExpectations(t)
}

func TestProtectFailsClosedOnStorageFault(t *testing.T) {
	f := newProtectFixture(t)
	defer f.done()

	f.seedSession(t, "sid-1", session.Principal{ID: "u-1", Role: "manager"})
	f.finder.On("FindPrincipalByID", mock.Anything, "u-1").
		Return(nil, errors.New("connection refused"))

	w := f.get("sid-1")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectAttachesRehydratedPrincipal(t *testing.T) {
	f := newProtectFixture(t)
	defer f.done()

	id := uuid.New()
	f.seedSession(t, "sid-1", session.Principal{ID: id.String(), Role: "manager"})
	f.finder.On("FindPrincipalByID", mock.Anything, id.String()).
		Return(&models.User{ID: id, Name: "Asha Rao", Role: "manager"}, nil)

	w := f.get("sid-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Asha Rao")
}

func TestAuthorizeRejectsRoleOutsideAllowList(t *testing.T) {
	f := newProtectFixture(t, Authorize("manager", "supervisor"))
	defer f.done()

	id := uuid.New()
	f.seedSession(t, "sid-1", session.Principal{ID: id.String(), Role: "employee"})
	f.finder.On("FindPrincipalByID", mock.Anything, id.String()).
		Return(&models.User{ID: id, Role: "employee"}, nil)

	w := f.get("sid-1")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "employee")
}

func TestAuthorizePassesAllowedRole(t *testing.T) {
	f := newProtectFixture(t, Authorize("manager", "supervisor"))
	defer f.done()

	id := uuid.New()
	f.seedSession(t, "sid-1", session.Principal{ID: id.String(), Role: "manager"})
	f.finder.On("FindPrincipalByID", mock.Anything, id.String()).
		Return(&models.User{ID: id, Role: "manager"}, nil)

	w := f.get("sid-1")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthorizeWithoutPrincipalIsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/restricted", Authorize("manager"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/restricted", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
