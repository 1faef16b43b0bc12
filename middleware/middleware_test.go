package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"climatesolutions/models"
	"climatesolutions/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testPolicy = session.Policy{Duration: 30 * time.Minute, Active: 10 * time.Minute}

func newSessionRouter(t *testing.T, now func() time.Time) *gin.Engine {
	t.Helper()
	store, err := session.NewStore("middleware-test-secret", testPolicy)
	require.NoError(t, err)

	r := gin.New()
	r.Use(session.Middleware(store), SessionWindow(testPolicy, now))
	r.GET("/login", func(c *gin.Context) {
		require.NoError(t, session.SetLoginUser(c, models.SessionUser{UserName: "alice"}, testPolicy, now()))
		c.Status(http.StatusNoContent)
	})
	protected := r.Group("/", EnsureLogin())
	protected.GET("/userHistory", func(c *gin.Context) {
		c.String(http.StatusOK, "history of "+session.GetLoginUser(c).UserName)
	})
	return r
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func TestEnsureLoginRedirectsAnonymous(t *testing.T) {
	r := newSessionRouter(t, time.Now)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/userHistory", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "history of")
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
}

func TestEnsureLoginAllowsSession(t *testing.T) {
	r := newSessionRouter(t, time.Now)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	ck := sessionCookie(t, w)

	req := httptest.NewRequest(http.MethodGet, "/userHistory", nil)
	req.AddCookie(ck)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "history of alice", w.Body.String())
}

func TestSessionWindowExpiresIdleSession(t *testing.T) {
	now := time.Now()
	r := newSessionRouter(t, func() time.Time { return now })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	ck := sessionCookie(t, w)

	now = now.Add(11 * time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/userHistory", nil)
	req.AddCookie(ck)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

type recordedRequest struct {
	method, route string
	status        int
}

type fakeRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeRecorder) RecordRequest(method, route string, status int, latency time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{method, route, status})
}
func (f *fakeRecorder) RecordLogin(string)        {}
func (f *fakeRecorder) RecordRegistration(string) {}

func TestRequestLogger(t *testing.T) {
	rec := &fakeRecorder{}
	r := gin.New()
	r.Use(RequestLogger(rec))
	r.GET("/solutions/projects/:id", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/solutions/projects/7", nil))

	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Len(t, rec.requests, 2)
	assert.Equal(t, recordedRequest{"GET", "/solutions/projects/:id", 200}, rec.requests[0])
	assert.Equal(t, recordedRequest{"GET", "", 404}, rec.requests[1])
}

func TestRequestLoggerKeepsValidIncomingID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(RequestIDHeader))
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Stop()

	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	post := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, post("10.0.0.1").Code)
	}
	w := post("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "20", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, post("10.0.0.2").Code)
	assert.Equal(t, 2, rl.count())
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)
	defer rl.Stop()

	rl.limiterFor("10.0.0.1")
	rl.cleanup(time.Now())
	assert.Equal(t, 1, rl.count())

	rl.cleanup(time.Now().Add(3 * time.Minute))
	assert.Equal(t, 0, rl.count())
}
