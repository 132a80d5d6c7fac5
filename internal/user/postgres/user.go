package postgres

import (
	"errors"

	userDatamodel "github.com/procureops/procurement-portal/internal/core/datamodel/user"
	"github.com/procureops/procurement-portal/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements the user.Repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *user.User) (int64, error) {
	dm := user.ToDataModel(u)
	if err := r.db.Create(dm).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, user.ErrDuplicateEmail
		}
		return 0, err
	}
	return dm.ID, nil
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var dm userDatamodel.User
	if err := r.db.Where("id = ?", id).First(&dm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	role, err := r.GetRole(dm.RoleID)
	if err != nil {
		return nil, err
	}
	return user.FromDataModel(&dm, *role), nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var dm userDatamodel.User
	if err := r.db.Where("email = ?", email).First(&dm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	role, err := r.GetRole(dm.RoleID)
	if err != nil {
		return nil, err
	}
	return user.FromDataModel(&dm, *role), nil
}

func (r *UserRepository) List(limit, offset int) ([]*user.User, error) {
	var dms []userDatamodel.User
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&dms).Error
	if err != nil {
		return nil, err
	}

	roles, err := r.rolesByID()
	if err != nil {
		return nil, err
	}

	users := make([]*user.User, 0, len(dms))
	for i := range dms {
		role, ok := roles[dms[i].RoleID]
		if !ok {
			role = user.Role{ID: dms[i].RoleID}
		}
		users = append(users, user.FromDataModel(&dms[i], role))
	}
	return users, nil
}

func (r *UserRepository) Update(u *user.User) error {
	updates := map[string]interface{}{
		"email":         u.Email,
		"name":          u.Name,
		"password_hash": u.PasswordHash,
		"role_id":       u.Role.ID,
		"is_active":     u.IsActive,
	}
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", u.ID).
		Updates(updates).Error
}

func (r *UserRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&userDatamodel.User{}).Error
}

func (r *UserRepository) GetRole(id int64) (*user.Role, error) {
	var dm userDatamodel.Role
	if err := r.db.Where("id = ?", id).First(&dm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrRoleNotFound
		}
		return nil, err
	}

	perms, err := r.rolePermissions(dm.ID)
	if err != nil {
		return nil, err
	}

	return &user.Role{
		ID:          dm.ID,
		RoleName:    dm.RoleName,
		Permissions: perms,
	}, nil
}

func (r *UserRepository) ListRoles() ([]*user.Role, error) {
	var dms []userDatamodel.Role
	if err := r.db.Order("id").Find(&dms).Error; err != nil {
		return nil, err
	}

	roles := make([]*user.Role, 0, len(dms))
	for i := range dms {
		perms, err := r.rolePermissions(dms[i].ID)
		if err != nil {
			return nil, err
		}
		roles = append(roles, &user.Role{
			ID:          dms[i].ID,
			RoleName:    dms[i].RoleName,
			Permissions: perms,
		})
	}
	return roles, nil
}

func (r *UserRepository) rolePermissions(roleID int64) ([]string, error) {
	var perms []string
	err := r.db.Model(&userDatamodel.Permission{}).
		Joins("JOIN role_permissions rp ON rp.permission_id = permissions.id").
		Where("rp.role_id = ?", roleID).
		Pluck("permissions.name", &perms).Error
	return perms, err
}

func (r *UserRepository) rolesByID() (map[int64]user.Role, error) {
	var dms []userDatamodel.Role
	if err := r.db.Find(&dms).Error; err != nil {
		return nil, err
	}
	roles := make(map[int64]user.Role, len(dms))
	for i := range dms {
		perms, err := r.rolePermissions(dms[i].ID)
		if err != nil {
			return nil, err
		}
		roles[dms[i].ID] = user.Role{
			ID:          dms[i].ID,
			RoleName:    dms[i].RoleName,
			Permissions: perms,
		}
	}
	return roles, nil
}
