package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backend/internal/domains/user/model"
	"shop-backend/internal/shared/apperr"
	"shop-backend/pkg/jwt"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]*model.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return model.ErrEmailAlreadyExists
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *memUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, fullName, phone *string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	if fullName != nil {
		u.FullName = *fullName
	}
	if phone != nil {
		u.Phone = phone
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) List(_ context.Context, _ string, limit, offset int) ([]*model.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.User{}
	for _, u := range r.users {
		out = append(out, u)
	}
	total := int64(len(out))
	if offset >= len(out) {
		return []*model.User{}, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (r *memUserRepo) ListCustomerIDs(_ context.Context) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := []uuid.UUID{}
	for id, u := range r.users {
		if !u.IsAdmin() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func newTestService() (UserService, *jwt.Manager) {
	m := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	return NewUserService(newMemUserRepo(), m), m
}

func TestRegisterAndLogin(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, model.RegisterRequest{
		Email:    "Alice@Example.com",
		Password: "secret123",
		FullName: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.NotEqual(t, "secret123", u.PasswordHash)

	res, err := svc.Login(ctx, model.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	claims, err := m.ValidateAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.Equal(t, model.RoleUser, claims.Role)

	refreshed, err := svc.RefreshToken(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, refreshed.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	req := model.RegisterRequest{Email: "bob@example.com", Password: "password1", FullName: "Bob"}

	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Register(ctx, model.RegisterRequest{Email: "c@example.com", Password: "password1", FullName: "C"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "c@example.com", Password: "wrong-pass"})
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = svc.Login(ctx, model.LoginRequest{Email: "nobody@example.com", Password: "password1"})
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Register(context.Background(), model.RegisterRequest{Email: "not-an-email", Password: "short"})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	u, err := svc.Register(ctx, model.RegisterRequest{Email: "d@example.com", Password: "password1", FullName: "D"})
	require.NoError(t, err)

	name := "Dung"
	updated, err := svc.UpdateProfile(ctx, u.ID, model.UpdateProfileRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Dung", updated.FullName)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
