package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey"`
	EmployeeID   string    `gorm:"column:employee_id;uniqueIndex;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Name         string    `gorm:"column:name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	RoleID       int64     `gorm:"column:role_id;not null"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	OTPEnabled   bool      `gorm:"column:otp_enabled;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type Role struct {
	ID        int64     `gorm:"primaryKey"`
	RoleName  string    `gorm:"column:role_name;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Role) TableName() string {
	return "roles"
}

type Permission struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Permission) TableName() string {
	return "permissions"
}

type RolePermission struct {
	ID           int64     `gorm:"primaryKey"`
	RoleID       int64     `gorm:"column:role_id;not null;index"`
	PermissionID int64     `gorm:"column:permission_id;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}
