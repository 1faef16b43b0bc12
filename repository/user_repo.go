package repository

import (
	"context"
	"errors"

	"climatesolutions/models"
)

// ErrDuplicateUser is wrapped by CreateUser when userName is already taken.
var ErrDuplicateUser = errors.New("duplicate user")

// UserRepository defines the interface for user operations.
// Lookups return (nil, nil) when no user matches.
type UserRepository interface {
	EnsureIndexes(ctx context.Context) error
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUserName(ctx context.Context, userName string) (*models.User, error)
	AppendLoginHistory(ctx context.Context, userName string, entry models.LoginEntry) (*models.User, error)
}
