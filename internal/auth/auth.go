package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the authenticated principal placed into request context by the
// auth middleware. Permissions come from the user's role.
type User struct {
	ID          int64    `json:"id"`
	EmployeeID  string   `json:"employee_id"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions,omitempty"`
}

func (u *User) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission || p == PermAdmin {
			return true
		}
	}
	return false
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID, email string) (token string, err error)
	GenerateRefreshToken(userID, email string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// ServiceAPI is the surface the HTTP handler depends on.
type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUserWithPermissions(userID int64) (*User, error)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserInactive       = errors.New("user is inactive")
)

// Permission names known to the portal.
const (
	PermAdmin            = "admin"
	PermManageCommittees = "manage_committees"
	PermViewCommittees   = "view_committees"
	PermManageUsers      = "manage_users"
)
