package plan

import (
	"time"

	planDatamodel "github.com/procureops/procurement-portal/internal/core/datamodel/plan"
)

// ProcurementPlan is read-only reference data a committee may be linked to.
type ProcurementPlan struct {
	ID                 int64     `json:"id"`
	ProjectName        string    `json:"project_name"`
	PolicyNumber       string    `json:"policy_number"`
	ProjectDescription string    `json:"project_description"`
	CreatedAt          time.Time `json:"created_at"`
}

func FromDataModel(dm *planDatamodel.ProcurementPlan) *ProcurementPlan {
	return &ProcurementPlan{
		ID:                 dm.ID,
		ProjectName:        dm.ProjectName,
		PolicyNumber:       dm.PolicyNumber,
		ProjectDescription: dm.ProjectDescription,
		CreatedAt:          dm.CreatedAt,
	}
}

func ToDataModel(p *ProcurementPlan) *planDatamodel.ProcurementPlan {
	return &planDatamodel.ProcurementPlan{
		ID:                 p.ID,
		ProjectName:        p.ProjectName,
		PolicyNumber:       p.PolicyNumber,
		ProjectDescription: p.ProjectDescription,
		CreatedAt:          p.CreatedAt,
	}
}
