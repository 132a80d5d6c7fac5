package plan

import "time"

type ProcurementPlan struct {
	ID                 int64     `gorm:"primaryKey"`
	ProjectName        string    `gorm:"column:project_name;not null"`
	PolicyNumber       string    `gorm:"column:policy_number;uniqueIndex;not null"`
	ProjectDescription string    `gorm:"column:project_description"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProcurementPlan) TableName() string {
	return "procurement_plans"
}
