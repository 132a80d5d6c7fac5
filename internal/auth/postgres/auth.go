package auth

import (
	"database/sql"
	"fmt"

	"github.com/procureops/procurement-portal/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentialsByEmail(email string) (string, int64, bool, error) {
	var passwordHash string
	var userID int64
	var isActive bool
	query := `SELECT id, password_hash, is_active FROM users WHERE email = ?`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash, &isActive); err != nil {
		if err == sql.ErrNoRows {
			return "", 0, false, fmt.Errorf("user not found")
		}
		return "", 0, false, err
	}
	return passwordHash, userID, isActive, nil
}

func (r *Repository) GetUserWithPermissions(userID int64) (*auth.User, error) {
	var user auth.User

	query := `SELECT id, employee_id, email FROM users WHERE id = ? AND is_active = true`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&user.ID, &user.EmployeeID, &user.Email); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}

	permQuery := `SELECT p.name
	             FROM permissions p
	             JOIN role_permissions rp ON p.id = rp.permission_id
	             JOIN users u ON u.role_id = rp.role_id
	             WHERE u.id = ?`

	rows, err := r.db.Raw(permQuery, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var permName string
		if err := rows.Scan(&permName); err != nil {
			return nil, err
		}
		permissions = append(permissions, permName)
	}

	user.Permissions = permissions
	return &user, nil
}
