package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shop-backend/internal/domains/user/model"
	"shop-backend/internal/domains/user/repository"
	"shop-backend/internal/shared"
	"shop-backend/pkg/jwt"
	"shop-backend/pkg/logger"
)

type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*model.LoginResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.User, error)
	ListUsers(ctx context.Context, req model.ListUsersRequest) ([]*model.User, int64, error)

	// dùng bởi background jobs (shared.UserDirectory)
	GetBasicInfo(ctx context.Context, userID uuid.UUID) (*shared.UserBasicInfo, error)
	ListCustomerIDs(ctx context.Context) ([]uuid.UUID, error)
}

type userService struct {
	repo       repository.UserRepository
	jwtManager *jwt.Manager
}

func NewUserService(repo repository.UserRepository, jwtManager *jwt.Manager) UserService {
	return &userService{repo: repo, jwtManager: jwtManager}
}

// Register tạo tài khoản mới với role user
func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidInput, err.Error(), nil)
	}

	// bcrypt.DefaultCost = 10
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, model.NewUserError(model.ErrCodeInternal, "Failed to hash password", err)
	}

	u := &model.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         model.RoleUser,
	}
	if req.Phone != "" {
		u.Phone = &req.Phone
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, model.ErrEmailAlreadyExists) {
			return nil, model.NewUserError(model.ErrCodeEmailExists, "Email already exists", err)
		}
		return nil, model.NewUserError(model.ErrCodeInternal, "Failed to create user", err)
	}

	logger.Info("User registered", map[string]interface{}{"user_id": u.ID})
	return u, nil
}

// Login xác thực email/password và trả về cặp JWT
func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidInput, err.Error(), nil)
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		// không phân biệt "email không tồn tại" với "sai mật khẩu"
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserError(model.ErrCodeInvalidCredentials, "Invalid email or password", nil)
		}
		return nil, model.NewUserError(model.ErrCodeInternal, "Failed to find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidCredentials, "Invalid email or password", nil)
	}

	return s.issueTokens(u)
}

func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (*model.LoginResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidCredentials, "Invalid refresh token", err)
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidCredentials, "Invalid refresh token", err)
	}

	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(u)
}

func (s *userService) issueTokens(u *model.User) (*model.LoginResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Email, u.Role)
	if err != nil {
		return nil, model.NewUserError(model.ErrCodeInternal, "Failed to generate access token", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, model.NewUserError(model.ErrCodeInternal, "Failed to generate refresh token", err)
	}

	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.jwtManager.AccessTokenTTL()),
		User:         u,
	}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserError(model.ErrCodeUserNotFound, "User not found", err)
		}
		return nil, model.NewUserError(model.ErrCodeInternal, "Failed to get user", err)
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidInput, err.Error(), nil)
	}

	u, err := s.repo.UpdateProfile(ctx, userID, req.FullName, req.Phone)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserError(model.ErrCodeUserNotFound, "User not found", err)
		}
		return nil, model.NewUserError(model.ErrCodeInternal, "Failed to update profile", err)
	}
	return u, nil
}

// ListUsers dành cho admin
func (s *userService) ListUsers(ctx context.Context, req model.ListUsersRequest) ([]*model.User, int64, error) {
	req.Normalize()
	users, total, err := s.repo.List(ctx, req.Search, req.Limit, (req.Page-1)*req.Limit)
	if err != nil {
		return nil, 0, model.NewUserError(model.ErrCodeInternal, "Failed to list users", err)
	}
	return users, total, nil
}

func (s *userService) GetBasicInfo(ctx context.Context, userID uuid.UUID) (*shared.UserBasicInfo, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &shared.UserBasicInfo{ID: u.ID, Email: u.Email, FullName: u.FullName}, nil
}

func (s *userService) ListCustomerIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids, err := s.repo.ListCustomerIDs(ctx)
	if err != nil {
		return nil, model.NewUserError(model.ErrCodeInternal, "Failed to list customers", err)
	}
	return ids, nil
}
