package postgres_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	userDatamodel "github.com/procureops/procurement-portal/internal/core/datamodel/user"
	"github.com/procureops/procurement-portal/internal/user"
	userPostgres "github.com/procureops/procurement-portal/internal/user/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

var _ = Describe("User Repository", func() {
	var (
		db     *gorm.DB
		repo   user.Repository
		roleID int64
	)

	BeforeEach(func() {
		var err error
		// Use SQLite in-memory database for testing
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&userDatamodel.Role{},
			&userDatamodel.Permission{},
			&userDatamodel.RolePermission{},
			&userDatamodel.User{},
		)
		Expect(err).NotTo(HaveOccurred())

		role := &userDatamodel.Role{RoleName: "procurement_officer"}
		Expect(db.Create(role).Error).To(Succeed())
		roleID = role.ID

		perms := []userDatamodel.Permission{
			{Name: "manage_committees"},
			{Name: "view_committees"},
		}
		for i := range perms {
			Expect(db.Create(&perms[i]).Error).To(Succeed())
			Expect(db.Create(&userDatamodel.RolePermission{
				RoleID:       roleID,
				PermissionID: perms[i].ID,
			}).Error).To(Succeed())
		}

		repo = userPostgres.NewUserRepository(db)
	})

	newUser := func(email string) *user.User {
		return &user.User{
			EmployeeID:   "EMP-" + email,
			Email:        email,
			Name:         "Test User",
			PasswordHash: "hashed",
			Role:         user.Role{ID: roleID},
			IsActive:     true,
		}
	}

	Describe("Create and GetByID", func() {
		It("should persist a user and load it with role permissions", func() {
			id, err := repo.Create(newUser("ayu@corp.example"))
			Expect(err).NotTo(HaveOccurred())
			Expect(id).NotTo(BeZero())

			got, err := repo.GetByID(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Email).To(Equal("ayu@corp.example"))
			Expect(got.Role.RoleName).To(Equal("procurement_officer"))
			Expect(got.Permissions).To(ConsistOf("manage_committees", "view_committees"))
		})

		It("should return a sentinel for an unknown id", func() {
			_, err := repo.GetByID(404)
			Expect(err).To(Equal(user.ErrNotFound))
		})
	})

	Describe("GetByEmail", func() {
		It("should find a user by email", func() {
			_, err := repo.Create(newUser("budi@corp.example"))
			Expect(err).NotTo(HaveOccurred())

			got, err := repo.GetByEmail("budi@corp.example")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Test User"))
		})

		It("should return a sentinel when no user matches", func() {
			_, err := repo.GetByEmail("nobody@corp.example")
			Expect(err).To(Equal(user.ErrNotFound))
		})
	})

	Describe("Update and Delete", func() {
		It("should rewrite account columns", func() {
			id, err := repo.Create(newUser("citra@corp.example"))
			Expect(err).NotTo(HaveOccurred())

			u, err := repo.GetByID(id)
			Expect(err).NotTo(HaveOccurred())
			u.Name = "Citra Dewi"
			u.IsActive = false
			Expect(repo.Update(u)).To(Succeed())

			got, err := repo.GetByID(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Citra Dewi"))
			Expect(got.IsActive).To(BeFalse())
		})

		It("should delete an account", func() {
			id, err := repo.Create(newUser("dian@corp.example"))
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.Delete(id)).To(Succeed())
			_, err = repo.GetByID(id)
			Expect(err).To(Equal(user.ErrNotFound))
		})
	})

	Describe("Roles", func() {
		It("should resolve a role with its permissions", func() {
			role, err := repo.GetRole(roleID)
			Expect(err).NotTo(HaveOccurred())
			Expect(role.Permissions).To(HaveLen(2))
		})

		It("should return a sentinel for an unknown role", func() {
			_, err := repo.GetRole(404)
			Expect(err).To(Equal(user.ErrRoleNotFound))
		})

		It("should list all roles", func() {
			roles, err := repo.ListRoles()
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(1))
		})
	})
})
