package user

import (
	"errors"
	"log/slog"

	"github.com/procureops/procurement-portal/internal"
)

// Repository defines the data access methods for users and roles.
type Repository interface {
	Create(u *User) (int64, error)
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	List(limit, offset int) ([]*User, error)
	Update(u *User) error
	Delete(id int64) error
	GetRole(id int64) (*Role, error)
	ListRoles() ([]*Role, error)
}

// PasswordHasher produces storage-safe password hashes.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// Service handles user and role management.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

func (s *Service) ListUsers(limit, offset int) ([]*User, error) {
	users, err := s.repo.List(limit, offset)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

func (s *Service) GetUser(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
		}
		s.logger.Error("failed to get user", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to get user", err)
	}
	return u, nil
}

// CreateUser validates the payload, rejects duplicate emails, hashes the
// password, and persists the new account.
func (s *Service) CreateUser(dto *CreateUserDTO) (*User, error) {
	if appErr := dto.Validate(); appErr != nil {
		s.logger.Warn("user validation failed", "error", appErr.GetDetailedMessage())
		return nil, appErr
	}

	role, err := s.repo.GetRole(dto.RoleID)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return nil, internal.NewValidationFieldError("role_id", "unknown role", internal.ErrCodeRoleNotFound)
		}
		s.logger.Error("failed to resolve role", "error", err, "role_id", dto.RoleID)
		return nil, internal.NewInternalError("failed to resolve role", err)
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, internal.NewConflictError("email already in use", internal.ErrCodeDuplicateEmail)
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Error("failed to check email uniqueness", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	u := &User{
		EmployeeID:   dto.EmployeeID,
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: hash,
		Role:         *role,
		IsActive:     dto.Active(),
	}

	id, err := s.repo.Create(u)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, internal.NewConflictError("email already in use", internal.ErrCodeDuplicateEmail)
		}
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", id, "email", dto.Email, "role", role.RoleName)
	return s.GetUser(id)
}

// UpdateUser applies the provided fields to an existing account. Omitted
// fields are left unchanged.
func (s *Service) UpdateUser(id int64, dto *UpdateUserDTO) (*User, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	u, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if dto.Email != nil && *dto.Email != u.Email {
		if existing, err := s.repo.GetByEmail(*dto.Email); err == nil && existing != nil && existing.ID != id {
			return nil, internal.NewConflictError("email already in use", internal.ErrCodeDuplicateEmail)
		}
		u.Email = *dto.Email
	}
	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.Password != nil {
		hash, err := s.hasher.HashPassword(*dto.Password)
		if err != nil {
			s.logger.Error("failed to hash password", "error", err, "user_id", id)
			return nil, internal.NewInternalError("failed to update user", err)
		}
		u.PasswordHash = hash
	}
	if dto.RoleID != nil && *dto.RoleID != u.Role.ID {
		role, err := s.repo.GetRole(*dto.RoleID)
		if err != nil {
			if errors.Is(err, ErrRoleNotFound) {
				return nil, internal.NewValidationFieldError("role_id", "unknown role", internal.ErrCodeRoleNotFound)
			}
			s.logger.Error("failed to resolve role", "error", err, "role_id", *dto.RoleID)
			return nil, internal.NewInternalError("failed to update user", err)
		}
		u.Role = *role
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.logger.Info("user updated", "user_id", id)
	return s.GetUser(id)
}

func (s *Service) DeleteUser(id int64) error {
	if _, err := s.GetUser(id); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return internal.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}

func (s *Service) ListRoles() ([]*Role, error) {
	roles, err := s.repo.ListRoles()
	if err != nil {
		s.logger.Error("failed to list roles", "error", err)
		return nil, internal.NewInternalError("failed to list roles", err)
	}
	return roles, nil
}
