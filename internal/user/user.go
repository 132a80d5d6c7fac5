package user

import (
	"errors"
	"time"

	userDatamodel "github.com/procureops/procurement-portal/internal/core/datamodel/user"
)

type User struct {
	ID           int64     `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	OTPEnabled   bool      `json:"otp_enabled"`
	Permissions  []string  `json:"permissions,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Role struct {
	ID          int64    `json:"id"`
	RoleName    string   `json:"role_name"`
	Permissions []string `json:"permissions,omitempty"`
}

func (u *User) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func (u *User) IsActiveUser() bool {
	return u.IsActive
}

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
	ErrRoleNotFound   = errors.New("role not found")
)

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		EmployeeID:   u.EmployeeID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		RoleID:       u.Role.ID,
		IsActive:     u.IsActive,
		OTPEnabled:   u.OTPEnabled,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User, role Role) *User {
	return &User{
		ID:           u.ID,
		EmployeeID:   u.EmployeeID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         role,
		IsActive:     u.IsActive,
		OTPEnabled:   u.OTPEnabled,
		Permissions:  role.Permissions,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
