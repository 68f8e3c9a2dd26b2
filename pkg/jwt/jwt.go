package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims represents JWT claims structure
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Type   string `json:"type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// Manager handles JWT operations
type Manager struct {
	secret        string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewManager creates new JWT manager
func NewManager(secret string, accessExpiry, refreshExpiry time.Duration) *Manager {
	return &Manager{
		secret:        secret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// AccessTokenTTL trả về thời hạn access token (dùng cho ExpiresAt trong login response)
func (m *Manager) AccessTokenTTL() time.Duration {
	return m.accessExpiry
}

// GenerateAccessToken generates access token carrying role for admin routes
func (m *Manager) GenerateAccessToken(userID, email, role string) (string, error) {
	return m.sign(Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Type:   TokenTypeAccess,
	}, m.accessExpiry)
}

// GenerateRefreshToken generates refresh token
func (m *Manager) GenerateRefreshToken(userID string) (string, error) {
	return m.sign(Claims{
		UserID: userID,
		Type:   TokenTypeRefresh,
	}, m.refreshExpiry)
}

func (m *Manager) sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

// ValidateToken validates and parses token
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// ValidateAccessToken validates access token specifically
func (m *Manager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return m.validateType(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken validates refresh token specifically
func (m *Manager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return m.validateType(tokenString, TokenTypeRefresh)
}

func (m *Manager) validateType(tokenString, expected string) (*Claims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Type != expected {
		return nil, fmt.Errorf("invalid token type: expected %s, got %s", expected, claims.Type)
	}

	return claims, nil
}
