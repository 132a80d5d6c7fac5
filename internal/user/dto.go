package user

import (
	"github.com/procureops/procurement-portal/internal"
	"github.com/procureops/procurement-portal/internal/core/common/validation"
)

type CreateUserDTO struct {
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Password   string `json:"password"`
	RoleID     int64  `json:"role_id"`
	IsActive   *bool  `json:"is_active"`
}

func (d *CreateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", d.EmployeeID).Required().MaxLen(64)
	v.Field("email", d.Email).Required().Email().MaxLen(255)
	v.Field("name", d.Name).Required().MaxLen(255)
	v.Field("password", d.Password).Required().MinLen(8)
	if d.RoleID <= 0 {
		v.AddError("role_id", "role_id is required", internal.ErrCodeValidationFailed)
	}
	return v.Validate()
}

func (d *CreateUserDTO) Active() bool {
	if d.IsActive == nil {
		return true
	}
	return *d.IsActive
}

type UpdateUserDTO struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
	RoleID   *int64  `json:"role_id"`
	IsActive *bool   `json:"is_active"`
}

func (d *UpdateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.Email != nil {
		v.Field("email", *d.Email).Required().Email().MaxLen(255)
	}
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MaxLen(255)
	}
	if d.Password != nil {
		v.Field("password", *d.Password).Required().MinLen(8)
	}
	if d.RoleID != nil && *d.RoleID <= 0 {
		v.AddError("role_id", "role_id must reference an existing role", internal.ErrCodeValidationFailed)
	}
	return v.Validate()
}
