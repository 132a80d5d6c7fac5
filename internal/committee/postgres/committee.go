package postgres

import (
	"github.com/procureops/procurement-portal/internal/committee"
	committeeDatamodel "github.com/procureops/procurement-portal/internal/core/datamodel/committee"
	"gorm.io/gorm"
)

// CommitteeRepository implements the committee.Repository interface using GORM
type CommitteeRepository struct {
	db *gorm.DB
}

func NewCommitteeRepository(db *gorm.DB) committee.Repository {
	return &CommitteeRepository{db: db}
}

// Create saves the committee and its roster in one transaction.
func (r *CommitteeRepository) Create(c *committeeDatamodel.Committee) error {
	return r.db.Create(c).Error
}

func (r *CommitteeRepository) GetByID(id int64) (*committeeDatamodel.Committee, error) {
	var c committeeDatamodel.Committee
	err := r.db.Preload("Members").Where("id = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommitteeRepository) List(limit, offset int) ([]*committeeDatamodel.Committee, error) {
	var committees []*committeeDatamodel.Committee
	err := r.db.Preload("Members").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&committees).Error
	return committees, err
}

// Update rewrites the committee's scalar columns and swaps the whole roster
// in one transaction; a failed roster write rolls the scalars back too.
func (r *CommitteeRepository) Update(c *committeeDatamodel.Committee, members []committeeDatamodel.Member) error {
	updates := map[string]interface{}{
		"name":                c.Name,
		"purpose":             c.Purpose,
		"committee_type":      c.CommitteeType,
		"formation_date":      c.FormationDate,
		"deadline":            c.Deadline,
		"procurement_plan_id": c.ProcurementPlanID,
		"approval_status":     c.ApprovalStatus,
		"letter_storage_key":  c.LetterStorageKey,
		"letter_filename":     c.LetterFileName,
		"letter_content_type": c.LetterContentType,
		"letter_uploaded_at":  c.LetterUploadedAt,
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&committeeDatamodel.Committee{}).
			Where("id = ?", c.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("committee_id = ?", c.ID).
			Delete(&committeeDatamodel.Member{}).Error; err != nil {
			return err
		}
		for i := range members {
			members[i].ID = 0
			members[i].CommitteeID = c.ID
			if err := tx.Create(&members[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CommitteeRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("committee_id = ?", id).
			Delete(&committeeDatamodel.Member{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).
			Delete(&committeeDatamodel.Committee{}).Error
	})
}

func (r *CommitteeRepository) AddMember(m *committeeDatamodel.Member) error {
	return r.db.Create(m).Error
}

// RemoveMember deletes by employee id and reports whether a row was removed.
func (r *CommitteeRepository) RemoveMember(committeeID int64, employeeID string) (bool, error) {
	result := r.db.Where("committee_id = ? AND employee_id = ?", committeeID, employeeID).
		Delete(&committeeDatamodel.Member{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
