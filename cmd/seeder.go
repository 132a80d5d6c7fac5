package cmd

import (
	"fmt"
	"log"

	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with roles, permissions, sample users and procurement plans for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"committee_members", "committees", "procurement_plans", "role_permissions", "users", "roles", "permissions"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		permissions := []struct {
			Name string
			Desc string
		}{
			{"admin", "full administrator"},
			{"manage_committees", "Can create, edit and delete committees"},
			{"view_committees", "Can view committees and procurement plans"},
			{"manage_users", "Can manage user accounts and roles"},
		}

		for _, p := range permissions {
			var pid int64
			row := db.Raw("SELECT id FROM permissions WHERE name = ?", p.Name).Row()
			if err := row.Scan(&pid); err != nil {
				if err := db.Exec("INSERT INTO permissions (name, description, created_at) VALUES (?, ?, now())", p.Name, p.Desc).Error; err != nil {
					log.Fatalf("failed to insert permission %s: %v", p.Name, err)
				}
			}
		}

		roles := map[string][]string{
			"admin":               {"admin", "manage_committees", "view_committees", "manage_users"},
			"procurement_officer": {"manage_committees", "view_committees"},
			"viewer":              {"view_committees"},
		}

		for roleName, perms := range roles {
			var roleID int64
			if err := db.Raw("SELECT id FROM roles WHERE role_name = ?", roleName).Row().Scan(&roleID); err != nil {
				if err := db.Exec("INSERT INTO roles (role_name, created_at) VALUES (?, now())", roleName).Error; err != nil {
					log.Fatalf("failed to insert role %s: %v", roleName, err)
				}
				if err := db.Raw("SELECT id FROM roles WHERE role_name = ?", roleName).Row().Scan(&roleID); err != nil {
					log.Fatalf("role not found after insert %s: %v", roleName, err)
				}
			}

			for _, permName := range perms {
				var pid int64
				if err := db.Raw("SELECT id FROM permissions WHERE name = ?", permName).Row().Scan(&pid); err != nil {
					log.Fatalf("permission not found %s: %v", permName, err)
				}

				var exists int
				if err := db.Raw("SELECT 1 FROM role_permissions WHERE role_id = ? AND permission_id = ?", roleID, pid).Row().Scan(&exists); err == nil {
					continue
				}
				if err := db.Exec("INSERT INTO role_permissions (role_id, permission_id, created_at) VALUES (?, ?, now())", roleID, pid).Error; err != nil {
					log.Fatalf("failed to grant permission %s to role %s: %v", permName, roleName, err)
				}
			}
			fmt.Printf("Seeded role: %s\n", roleName)
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		users := []struct {
			EmployeeID string
			Email      string
			Name       string
			Role       string
		}{
			{"EMP-000001", "admin@procureops.local", "Portal Admin", "admin"},
			{"EMP-000002", "officer@procureops.local", "Procurement Officer", "procurement_officer"},
		}

		for _, u := range users {
			var exists int
			if err := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row().Scan(&exists); err == nil {
				fmt.Printf("User already exists: %s\n", u.Email)
				continue
			}

			var roleID int64
			if err := db.Raw("SELECT id FROM roles WHERE role_name = ?", u.Role).Row().Scan(&roleID); err != nil {
				log.Fatalf("role not found %s: %v", u.Role, err)
			}

			if err := db.Exec("INSERT INTO users (employee_id, email, name, password_hash, role_id, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, true, now(), now())",
				u.EmployeeID, u.Email, u.Name, string(hash), roleID).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Printf("Seeded user: %s (%s)\n", u.Email, u.Role)
		}

		plans := []struct {
			ProjectName  string
			PolicyNumber string
			Desc         string
		}{
			{"Office Network Upgrade", "PLAN-2026-001", "Procurement of switches and cabling for the head office"},
			{"Laptop Refresh Program", "PLAN-2026-002", "Replacement laptops for field staff"},
			{"Canteen Catering Services", "PLAN-2025-014", "Annual catering services contract"},
			{"Warehouse CCTV Installation", "PLAN-2025-021", "Security cameras for the regional warehouse"},
		}

		for _, p := range plans {
			var exists int
			if err := db.Raw("SELECT 1 FROM procurement_plans WHERE policy_number = ?", p.PolicyNumber).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO procurement_plans (project_name, policy_number, project_description, created_at, updated_at) VALUES (?, ?, ?, now(), now())",
				p.ProjectName, p.PolicyNumber, p.Desc).Error; err != nil {
				log.Fatalf("failed to insert procurement plan %s: %v", p.ProjectName, err)
			}
			fmt.Printf("Seeded procurement plan: %s\n", p.ProjectName)
		}

		fmt.Println("Seeding completed")
	},
}
