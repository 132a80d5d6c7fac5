package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/procureops/procurement-portal/internal/committee"
	committeePostgres "github.com/procureops/procurement-portal/internal/committee/postgres"
	committeeDatamodel "github.com/procureops/procurement-portal/internal/core/datamodel/committee"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestCommitteePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Committee Postgres Suite")
}

func newCommittee(name string) *committeeDatamodel.Committee {
	formation := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	return &committeeDatamodel.Committee{
		Name:           name,
		Purpose:        "Evaluate vendor bids",
		CommitteeType:  "evaluation",
		FormationDate:  formation,
		Deadline:       formation.AddDate(0, 0, 30),
		ApprovalStatus: "pending",
		Members: []committeeDatamodel.Member{
			{EmployeeID: "EMP-100001", Name: "Ayu Lestari", Email: "ayu@corp.example", Role: "chairperson"},
			{EmployeeID: "EMP-100002", Name: "Budi Santoso", Email: "budi@corp.example", Role: "member"},
		},
	}
}

var _ = Describe("Committee Repository", func() {
	var (
		db   *gorm.DB
		repo committee.Repository
	)

	BeforeEach(func() {
		var err error
		// Use SQLite in-memory database for testing
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&committeeDatamodel.Committee{}, &committeeDatamodel.Member{})
		Expect(err).NotTo(HaveOccurred())

		repo = committeePostgres.NewCommitteeRepository(db)
	})

	Describe("Create and GetByID", func() {
		It("should persist the committee with its roster", func() {
			c := newCommittee("Laptop Tender Evaluation")
			Expect(repo.Create(c)).To(Succeed())
			Expect(c.ID).NotTo(BeZero())

			got, err := repo.GetByID(c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Laptop Tender Evaluation"))
			Expect(got.Members).To(HaveLen(2))
		})

		It("should error for an unknown id", func() {
			_, err := repo.GetByID(404)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("List", func() {
		It("should apply limit and offset", func() {
			Expect(repo.Create(newCommittee("First"))).To(Succeed())
			Expect(repo.Create(newCommittee("Second"))).To(Succeed())
			Expect(repo.Create(newCommittee("Third"))).To(Succeed())

			page, err := repo.List(2, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(HaveLen(2))

			rest, err := repo.List(2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(rest).To(HaveLen(1))
		})
	})

	Describe("Update", func() {
		It("should rewrite scalar columns and swap the roster together", func() {
			c := newCommittee("Original")
			Expect(repo.Create(c)).To(Succeed())

			c.Name = "Renamed"
			c.Purpose = "Updated purpose"
			err := repo.Update(c, []committeeDatamodel.Member{
				{EmployeeID: "EMP-100003", Name: "Citra Dewi", Email: "citra@corp.example", Role: "secretary"},
			})
			Expect(err).NotTo(HaveOccurred())

			got, err := repo.GetByID(c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Renamed"))
			Expect(got.Members).To(HaveLen(1))
			Expect(got.Members[0].EmployeeID).To(Equal("EMP-100003"))
		})

		It("should roll back scalar changes when the roster write fails", func() {
			c := newCommittee("Original")
			Expect(repo.Create(c)).To(Succeed())

			c.Name = "Renamed"
			err := repo.Update(c, []committeeDatamodel.Member{
				{EmployeeID: "EMP-100003", Name: "Citra Dewi", Email: "citra@corp.example", Role: "member"},
				{EmployeeID: "EMP-100003", Name: "Citra Dewi", Email: "citra@corp.example", Role: "member"},
			})
			Expect(err).To(HaveOccurred())

			got, gerr := repo.GetByID(c.ID)
			Expect(gerr).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Original"))
			Expect(got.Members).To(HaveLen(2))
		})
	})

	Describe("AddMember and RemoveMember", func() {
		It("should append one member", func() {
			c := newCommittee("Committee")
			Expect(repo.Create(c)).To(Succeed())

			err := repo.AddMember(&committeeDatamodel.Member{
				CommitteeID: c.ID,
				EmployeeID:  "EMP-100003",
				Name:        "Citra Dewi",
				Email:       "citra@corp.example",
				Role:        "member",
			})
			Expect(err).NotTo(HaveOccurred())

			got, err := repo.GetByID(c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Members).To(HaveLen(3))
		})

		It("should report whether a member was removed", func() {
			c := newCommittee("Committee")
			Expect(repo.Create(c)).To(Succeed())

			removed, err := repo.RemoveMember(c.ID, "EMP-100002")
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeTrue())

			removed, err = repo.RemoveMember(c.ID, "EMP-404404")
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeFalse())

			got, err := repo.GetByID(c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Members).To(HaveLen(1))
		})
	})

	Describe("Delete", func() {
		It("should remove the committee and its roster", func() {
			c := newCommittee("Committee")
			Expect(repo.Create(c)).To(Succeed())

			Expect(repo.Delete(c.ID)).To(Succeed())

			_, err := repo.GetByID(c.ID)
			Expect(err).To(HaveOccurred())

			var count int64
			Expect(db.Model(&committeeDatamodel.Member{}).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		})
	})
})
