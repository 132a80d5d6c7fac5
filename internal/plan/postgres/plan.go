package postgres

import (
	planDatamodel "github.com/procureops/procurement-portal/internal/core/datamodel/plan"
	"github.com/procureops/procurement-portal/internal/plan"
	"gorm.io/gorm"
)

// PlanRepository implements the plan.RepositoryAPI interface using GORM
type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) plan.RepositoryAPI {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) GetAll() ([]*planDatamodel.ProcurementPlan, error) {
	var plans []*planDatamodel.ProcurementPlan
	err := r.db.Order("project_name ASC").Find(&plans).Error
	return plans, err
}

func (r *PlanRepository) GetByID(id int64) (*planDatamodel.ProcurementPlan, error) {
	var p planDatamodel.ProcurementPlan
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
