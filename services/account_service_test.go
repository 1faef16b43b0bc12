package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"climatesolutions/models"
	"climatesolutions/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUserRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	indexErr  error
	createErr error
	getErr    error
	appendErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}}
}

func (r *memUserRepo) EnsureIndexes(ctx context.Context) error {
	return r.indexErr
}

func (r *memUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.users[user.UserName]; ok {
		return fmt.Errorf("%w: E11000", repository.ErrDuplicateUser)
	}
	stored := *user
	stored.LoginHistory = []models.LoginEntry{}
	r.users[user.UserName] = &stored
	return nil
}

func (r *memUserRepo) GetUserByUserName(ctx context.Context, userName string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.users[userName]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) AppendLoginHistory(ctx context.Context, userName string, entry models.LoginEntry) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return nil, r.appendErr
	}
	u, ok := r.users[userName]
	if !ok {
		return nil, nil
	}
	u.LoginHistory = append(u.LoginHistory, entry)
	cp := *u
	cp.LoginHistory = append([]models.LoginEntry(nil), u.LoginHistory...)
	return &cp, nil
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newAccountService(repo *memUserRepo) *AccountService {
	svc := NewAccountService(repo)
	svc.Now = func() time.Time { return fixedNow }
	return svc
}

func register(t *testing.T, svc *AccountService, name, password string) {
	t.Helper()
	_, err := svc.Register(context.Background(), RegisterInput{
		UserName: name, Password: password, Password2: password, Email: name + "@example.com",
	})
	require.NoError(t, err)
}

func TestAccountInitialize(t *testing.T) {
	repo := newMemUserRepo()
	svc := newAccountService(repo)
	assert.NoError(t, svc.Initialize(context.Background()))

	repo.indexErr = errors.New("no reachable servers")
	err := svc.Initialize(context.Background())
	assert.True(t, models.IsKind(err, models.KindConnection))
}

func TestRegisterStoresHashOnly(t *testing.T) {
	repo := newMemUserRepo()
	svc := newAccountService(repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		UserName: "alice", Password: "pw1", Password2: "pw1", Email: "a@x.io",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserName)

	stored := repo.users["alice"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "pw1", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("pw1")))
	cost, err := bcrypt.Cost([]byte(stored.Password))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
	assert.Empty(t, stored.LoginHistory)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	repo := newMemUserRepo()
	svc := newAccountService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		UserName: "alice", Password: "a", Password2: "b", Email: "a@x.io",
	})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindValidation))
	assert.Equal(t, "Passwords do not match", err.Error())
	assert.Empty(t, repo.users)
}

func TestRegisterRequiresUserName(t *testing.T) {
	svc := newAccountService(newMemUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{Password: "a", Password2: "a"})
	assert.True(t, models.IsKind(err, models.KindValidation))
	assert.Equal(t, "user name is required", err.Error())
}

func TestRegisterPasswordTooLong(t *testing.T) {
	repo := newMemUserRepo()
	svc := newAccountService(repo)

	long := strings.Repeat("p", 80)
	_, err := svc.Register(context.Background(), RegisterInput{
		UserName: "alice", Password: long, Password2: long,
	})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindValidation))
	assert.Equal(t, "password must be at most 72 characters", err.Error())

	// 40 two-byte runes pass the character rule but not bcrypt's byte limit.
	wide := strings.Repeat("é", 40)
	_, err = svc.Register(context.Background(), RegisterInput{
		UserName: "alice", Password: wide, Password2: wide,
	})
	assert.True(t, models.IsKind(err, models.KindValidation))
	assert.Equal(t, "password must be at most 72 bytes", err.Error())
	assert.Empty(t, repo.users)

	exact := strings.Repeat("p", 72)
	register(t, svc, "alice", exact)
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newAccountService(newMemUserRepo())
	register(t, svc, "alice", "pw1")

	_, err := svc.Register(context.Background(), RegisterInput{
		UserName: "alice", Password: "other", Password2: "other",
	})
	assert.True(t, models.IsKind(err, models.KindDuplicateUser))
	assert.Equal(t, "User Name already taken", err.Error())
}

func TestRegisterIsCaseSensitive(t *testing.T) {
	svc := newAccountService(newMemUserRepo())
	register(t, svc, "alice", "pw1")
	register(t, svc, "Alice", "pw1")
}

func TestRegisterStorageFailure(t *testing.T) {
	repo := newMemUserRepo()
	repo.createErr = errors.New("disk full")
	svc := newAccountService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		UserName: "alice", Password: "pw1", Password2: "pw1",
	})
	assert.True(t, models.IsKind(err, models.KindPersistence))
	assert.Equal(t, "There was an error creating the user: disk full", err.Error())
}

func TestAuthenticateAppendsHistory(t *testing.T) {
	repo := newMemUserRepo()
	svc := newAccountService(repo)
	register(t, svc, "alice", "pw1")

	user, err := svc.Authenticate(context.Background(), "alice", "pw1", "Mozilla/5.0")
	require.NoError(t, err)
	require.Len(t, user.LoginHistory, 1)
	assert.Equal(t, models.LoginEntry{DateTime: fixedNow, UserAgent: "Mozilla/5.0"}, user.LoginHistory[0])

	user, err = svc.Authenticate(context.Background(), "alice", "pw1", "curl/8.0")
	require.NoError(t, err)
	require.Len(t, user.LoginHistory, 2)
	assert.Equal(t, "Mozilla/5.0", user.LoginHistory[0].UserAgent)
	assert.Equal(t, "curl/8.0", user.LoginHistory[1].UserAgent)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc := newAccountService(newMemUserRepo())

	_, err := svc.Authenticate(context.Background(), "ghost", "x", "ua")
	assert.True(t, models.IsKind(err, models.KindNotFound))
	assert.Equal(t, "Unable to find user: ghost", err.Error())
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := newMemUserRepo()
	svc := newAccountService(repo)
	register(t, svc, "alice", "pw1")

	_, err := svc.Authenticate(context.Background(), "alice", "wrong", "ua")
	assert.True(t, models.IsKind(err, models.KindInvalidCredentials))
	assert.Equal(t, "Incorrect Password for user: alice", err.Error())
	assert.Empty(t, repo.users["alice"].LoginHistory)
}

func TestAuthenticatePersistFailure(t *testing.T) {
	repo := newMemUserRepo()
	svc := newAccountService(repo)
	register(t, svc, "alice", "pw1")
	repo.appendErr = errors.New("write conflict")

	_, err := svc.Authenticate(context.Background(), "alice", "pw1", "ua")
	assert.True(t, models.IsKind(err, models.KindPersistence))
	assert.Equal(t, "There was an error verifying the user: write conflict", err.Error())
}

func TestAuthenticateConcurrentLoginsKeepEveryEntry(t *testing.T) {
	repo := newMemUserRepo()
	svc := newAccountService(repo)
	register(t, svc, "alice", "pw1")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Authenticate(context.Background(), "alice", "pw1", fmt.Sprintf("ua-%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, repo.users["alice"].LoginHistory, 8)
}
