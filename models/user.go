package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LoginEntry struct {
	DateTime  time.Time `json:"dateTime" bson:"dateTime"`
	UserAgent string    `json:"userAgent" bson:"userAgent"`
}

type User struct {
	ID           primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	UserName     string             `json:"userName" bson:"userName"`
	Password     string             `json:"-" bson:"password"`
	Email        string             `json:"email" bson:"email"`
	LoginHistory []LoginEntry       `json:"loginHistory" bson:"loginHistory"`
}

// SessionUser is the part of a User that travels inside the session cookie.
type SessionUser struct {
	UserName     string
	Email        string
	LoginHistory []LoginEntry
}

// The snapshot is bounded so the encoded cookie stays under securecookie's
// 4096 byte limit whatever the clients sent as User-Agent.
const (
	maxSessionHistory   = 10
	maxSessionUserAgent = 100
)

func (u *User) SessionView() SessionUser {
	history := u.LoginHistory
	if len(history) > maxSessionHistory {
		history = history[len(history)-maxSessionHistory:]
	}
	snapshot := make([]LoginEntry, len(history))
	for i, entry := range history {
		snapshot[i] = LoginEntry{
			DateTime:  entry.DateTime,
			UserAgent: truncateRunes(entry.UserAgent, maxSessionUserAgent),
		}
	}
	return SessionUser{
		UserName:     u.UserName,
		Email:        u.Email,
		LoginHistory: snapshot,
	}
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
