package services

import (
	"context"
	"errors"
	"time"

	"climatesolutions/models"
	"climatesolutions/repository"

	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 10

	// bcrypt only accepts this many bytes of password.
	maxPasswordBytes = 72
)

type RegisterInput struct {
	UserName  string `form:"userName" validate:"required,max=64"`
	Password  string `form:"password" validate:"required,max=72"`
	Password2 string `form:"password2"`
	Email     string `form:"email" validate:"omitempty,email,max=254"`
}

// AccountService registers users and verifies their credentials.
type AccountService struct {
	Repo repository.UserRepository
	Now  func() time.Time
}

func NewAccountService(repo repository.UserRepository) *AccountService {
	return &AccountService{Repo: repo, Now: time.Now}
}

// Initialize prepares the users collection. It must succeed before the
// server accepts requests.
func (s *AccountService) Initialize(ctx context.Context) error {
	if err := s.Repo.EnsureIndexes(ctx); err != nil {
		return models.NewConnectionError(err, "unable to prepare user store: %v", err)
	}
	return nil
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Password != in.Password2 {
		return nil, models.NewValidationError("Passwords do not match")
	}
	if err := validate.Struct(in); err != nil {
		return nil, models.NewValidationError("%s", firstFieldError(err))
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, models.NewValidationError("password must be at most %d bytes", maxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, models.NewValidationError("password must be at most %d bytes", maxPasswordBytes)
		}
		return nil, models.NewPersistenceError(err, "There was an error creating the user: %v", err)
	}

	user := &models.User{
		UserName: in.UserName,
		Password: string(hash),
		Email:    in.Email,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, models.NewDuplicateUserError(err, "User Name already taken")
		}
		return nil, models.NewPersistenceError(err, "There was an error creating the user: %v", err)
	}
	return user, nil
}

// Authenticate checks the password for userName and records the login with
// clientIdentifier (the request's User-Agent). It returns the user with the
// new entry appended.
func (s *AccountService) Authenticate(ctx context.Context, userName, password, clientIdentifier string) (*models.User, error) {
	user, err := s.Repo.GetUserByUserName(ctx, userName)
	if err != nil {
		return nil, models.NewPersistenceError(err, "There was an error verifying the user: %v", err)
	}
	if user == nil {
		return nil, models.NewNotFoundError("Unable to find user: %s", userName)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewInvalidCredentialsError("Incorrect Password for user: %s", userName)
	}

	entry := models.LoginEntry{
		DateTime:  s.Now().UTC(),
		UserAgent: clientIdentifier,
	}
	updated, err := s.Repo.AppendLoginHistory(ctx, user.UserName, entry)
	if err != nil {
		return nil, models.NewPersistenceError(err, "There was an error verifying the user: %v", err)
	}
	if updated == nil {
		return nil, models.NewNotFoundError("Unable to find user: %s", userName)
	}
	return updated, nil
}
