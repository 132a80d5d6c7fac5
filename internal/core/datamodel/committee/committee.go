package committee

import "time"

type Committee struct {
	ID                  int64      `gorm:"primaryKey"`
	Name                string     `gorm:"column:name;not null"`
	Purpose             string     `gorm:"column:purpose;not null"`
	CommitteeType       string     `gorm:"column:committee_type;not null"`
	FormationDate       time.Time  `gorm:"column:formation_date;type:date;not null"`
	Deadline            time.Time  `gorm:"column:deadline;type:date;not null"`
	ProcurementPlanID   *int64     `gorm:"column:procurement_plan_id"`
	ApprovalStatus      string     `gorm:"column:approval_status;default:pending"`
	LetterStorageKey    *string    `gorm:"column:letter_storage_key"`
	LetterFileName      *string    `gorm:"column:letter_filename"`
	LetterContentType   *string    `gorm:"column:letter_content_type"`
	LetterUploadedAt    *time.Time `gorm:"column:letter_uploaded_at"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Members []Member `gorm:"foreignKey:CommitteeID;constraint:OnDelete:CASCADE"`
}

func (Committee) TableName() string {
	return "committees"
}

type Member struct {
	ID          int64     `gorm:"primaryKey"`
	CommitteeID int64     `gorm:"column:committee_id;not null;uniqueIndex:uniq_committee_member"`
	EmployeeID  string    `gorm:"column:employee_id;not null;uniqueIndex:uniq_committee_member"`
	Name        string    `gorm:"column:name;not null"`
	Email       string    `gorm:"column:email;not null"`
	Department  *string   `gorm:"column:department"`
	Phone       *string   `gorm:"column:phone"`
	Designation *string   `gorm:"column:designation"`
	Role        string    `gorm:"column:role;default:member"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Member) TableName() string {
	return "committee_members"
}
