// Package session keeps the logged-in user in an encrypted, signed cookie.
package session

import (
	"crypto/sha256"
	"encoding/gob"
	"io"
	"net/http"
	"time"

	"climatesolutions/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/hkdf"
)

const (
	CookieName = "session"

	loginUser  = "LOGIN_USER"
	createdAt  = "CREATED_AT"
	lastActive = "LAST_ACTIVE"
)

func init() {
	gob.Register(models.SessionUser{})
}

// Policy is the lifetime of a login: Duration from sign-in at most, and
// no longer than Active since the last request. Secure marks the cookie
// HTTPS-only.
type Policy struct {
	Duration time.Duration
	Active   time.Duration
	Secure   bool
}

// Expired reports whether a session created at created and last used at
// last is over either limit at now.
func (p Policy) Expired(created, last, now time.Time) bool {
	return now.Sub(created) >= p.Duration || now.Sub(last) >= p.Active
}

// maxAge is the cookie lifetime in seconds from now: the idle window,
// cut short by the absolute limit.
func (p Policy) maxAge(created, now time.Time) int {
	age := p.Active
	if left := p.Duration - now.Sub(created); left < age {
		age = left
	}
	if age < time.Second {
		return 1
	}
	return int(age / time.Second)
}

// NewStore builds the cookie store. The signing and encryption keys are
// both derived from secret.
func NewStore(secret string, p Policy) (sessions.Store, error) {
	authKey, encKey, err := deriveKeys(secret)
	if err != nil {
		return nil, err
	}
	store := cookie.NewStore(authKey, encKey)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(p.Active / time.Second),
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

func deriveKeys(secret string) (authKey, encKey []byte, err error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(CookieName))
	authKey = make([]byte, 64)
	encKey = make([]byte, 32)
	if _, err = io.ReadFull(r, authKey); err != nil {
		return nil, nil, err
	}
	if _, err = io.ReadFull(r, encKey); err != nil {
		return nil, nil, err
	}
	return authKey, encKey, nil
}

// Middleware installs the store under CookieName.
func Middleware(store sessions.Store) gin.HandlerFunc {
	return sessions.Sessions(CookieName, store)
}

func SetLoginUser(c *gin.Context, user models.SessionUser, p Policy, now time.Time) error {
	s := sessions.Default(c)
	s.Set(loginUser, user)
	s.Set(createdAt, now.Unix())
	s.Set(lastActive, now.Unix())
	s.Options(cookieOptions(p, p.maxAge(now, now)))
	return s.Save()
}

func GetLoginUser(c *gin.Context) *models.SessionUser {
	s := sessions.Default(c)
	if obj := s.Get(loginUser); obj != nil {
		if user, ok := obj.(models.SessionUser); ok {
			return &user
		}
	}
	return nil
}

func IsLogin(c *gin.Context) bool {
	return GetLoginUser(c) != nil
}

// Touch enforces p on the current session. An expired session is cleared;
// a live one has its idle window restarted. Anonymous requests are left
// alone.
func Touch(c *gin.Context, p Policy, now time.Time) error {
	s := sessions.Default(c)
	if s.Get(loginUser) == nil {
		return nil
	}

	created, ok1 := s.Get(createdAt).(int64)
	last, ok2 := s.Get(lastActive).(int64)
	if !ok1 || !ok2 || p.Expired(time.Unix(created, 0), time.Unix(last, 0), now) {
		return ClearSession(c)
	}

	s.Set(lastActive, now.Unix())
	s.Options(cookieOptions(p, p.maxAge(time.Unix(created, 0), now)))
	return s.Save()
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	return s.Save()
}

func cookieOptions(p Policy, maxAge int) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
