package user_test

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/procureops/procurement-portal/internal"
	"github.com/procureops/procurement-portal/internal/user"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

// MockRepository implements user.Repository for testing
type MockRepository struct {
	users  map[int64]*user.User
	roles  map[int64]*user.Role
	nextID int64
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users: make(map[int64]*user.User),
		roles: map[int64]*user.Role{
			1: {ID: 1, RoleName: "admin", Permissions: []string{"admin"}},
			2: {ID: 2, RoleName: "viewer", Permissions: []string{"view_committees"}},
		},
		nextID: 1,
	}
}

func (m *MockRepository) Create(u *user.User) (int64, error) {
	u.ID = m.nextID
	m.nextID++
	copied := *u
	m.users[u.ID] = &copied
	return u.ID, nil
}

func (m *MockRepository) GetByID(id int64) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *MockRepository) GetByEmail(email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *MockRepository) List(limit, offset int) ([]*user.User, error) {
	var result []*user.User
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, nil
}

func (m *MockRepository) Update(u *user.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return user.ErrNotFound
	}
	copied := *u
	m.users[u.ID] = &copied
	return nil
}

func (m *MockRepository) Delete(id int64) error {
	delete(m.users, id)
	return nil
}

func (m *MockRepository) GetRole(id int64) (*user.Role, error) {
	role, ok := m.roles[id]
	if !ok {
		return nil, user.ErrRoleNotFound
	}
	return role, nil
}

func (m *MockRepository) ListRoles() ([]*user.Role, error) {
	var result []*user.Role
	for _, r := range m.roles {
		result = append(result, r)
	}
	return result, nil
}

// MockHasher implements user.PasswordHasher for testing
type MockHasher struct {
	fail bool
}

func (m *MockHasher) HashPassword(password string) (string, error) {
	if m.fail {
		return "", errors.New("hash failure")
	}
	return fmt.Sprintf("hashed(%s)", password), nil
}

func validCreate() *user.CreateUserDTO {
	return &user.CreateUserDTO{
		EmployeeID: "EMP-200001",
		Email:      "eka@corp.example",
		Name:       "Eka Putri",
		Password:   "long-enough-password",
		RoleID:     2,
	}
}

var _ = Describe("User Service", func() {
	var (
		mockRepo *MockRepository
		hasher   *MockHasher
		service  *user.Service
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		hasher = &MockHasher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, hasher, logger)
	})

	Describe("CreateUser", func() {
		It("should create an account with a hashed password", func() {
			u, err := service.CreateUser(validCreate())
			Expect(err).NotTo(HaveOccurred())
			Expect(u.ID).To(Equal(int64(1)))
			Expect(u.Role.RoleName).To(Equal("viewer"))
			Expect(u.IsActive).To(BeTrue())
			Expect(mockRepo.users[1].PasswordHash).To(Equal("hashed(long-enough-password)"))
		})

		It("should reject a short password", func() {
			dto := validCreate()
			dto.Password = "short"
			_, err := service.CreateUser(dto)
			Expect(err).To(HaveOccurred())
			Expect(mockRepo.users).To(BeEmpty())
		})

		It("should reject an unknown role", func() {
			dto := validCreate()
			dto.RoleID = 99
			_, err := service.CreateUser(dto)
			Expect(err).To(HaveOccurred())
			Expect(mockRepo.users).To(BeEmpty())
		})

		It("should reject a duplicate email", func() {
			_, err := service.CreateUser(validCreate())
			Expect(err).NotTo(HaveOccurred())

			dto := validCreate()
			dto.EmployeeID = "EMP-200002"
			_, err = service.CreateUser(dto)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateEmail))
		})

		It("should honor an explicit inactive flag", func() {
			inactive := false
			dto := validCreate()
			dto.IsActive = &inactive
			u, err := service.CreateUser(dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.IsActive).To(BeFalse())
		})
	})

	Describe("UpdateUser", func() {
		var existingID int64

		BeforeEach(func() {
			u, err := service.CreateUser(validCreate())
			Expect(err).NotTo(HaveOccurred())
			existingID = u.ID
		})

		It("should apply only the provided fields", func() {
			newName := "Eka P. Rahmawati"
			u, err := service.UpdateUser(existingID, &user.UpdateUserDTO{Name: &newName})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Name).To(Equal(newName))
			Expect(u.Email).To(Equal("eka@corp.example"))
		})

		It("should rehash a changed password", func() {
			newPassword := "another-long-password"
			_, err := service.UpdateUser(existingID, &user.UpdateUserDTO{Password: &newPassword})
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.users[existingID].PasswordHash).To(Equal("hashed(another-long-password)"))
		})

		It("should switch roles", func() {
			adminRole := int64(1)
			u, err := service.UpdateUser(existingID, &user.UpdateUserDTO{RoleID: &adminRole})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Role.RoleName).To(Equal("admin"))
		})

		It("should return not found for an unknown user", func() {
			name := "ghost"
			_, err := service.UpdateUser(404, &user.UpdateUserDTO{Name: &name})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeUserNotFound))
		})
	})

	Describe("DeleteUser", func() {
		It("should delete an existing account", func() {
			u, err := service.CreateUser(validCreate())
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteUser(u.ID)).To(Succeed())
			Expect(mockRepo.users).To(BeEmpty())
		})

		It("should return not found for an unknown account", func() {
			err := service.DeleteUser(404)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListRoles", func() {
		It("should return every role with its permissions", func() {
			roles, err := service.ListRoles()
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(2))
		})
	})
})
