package committee

import (
	"time"

	committeeDatamodel "github.com/procureops/procurement-portal/internal/core/datamodel/committee"
)

type Committee struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Purpose           string     `json:"purpose"`
	CommitteeType     string     `json:"committee_type"`
	FormationDate     time.Time  `json:"formation_date"`
	Deadline          time.Time  `json:"deadline"`
	ProcurementPlanID *int64     `json:"procurement_plan,omitempty"`
	ApprovalStatus    string     `json:"approval_status"`
	Members           []Member   `json:"members"`
	Letter            *Letter    `json:"formation_letter,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type Member struct {
	ID          int64     `json:"id"`
	CommitteeID int64     `json:"committee_id"`
	EmployeeID  string    `json:"employee_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Department  *string   `json:"department,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Designation *string   `json:"designation,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// Letter describes the stored formation letter; the blob itself lives in the
// letter store under StorageKey.
type Letter struct {
	FileName    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	StorageKey  string    `json:"-"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

const (
	TypeSpecification = "specification"
	TypeEvaluation    = "evaluation"
	TypeOther         = "other"

	RoleMember      = "member"
	RoleChairperson = "chairperson"
	RoleSecretary   = "secretary"

	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

func ValidCommitteeType(t string) bool {
	switch t {
	case TypeSpecification, TypeEvaluation, TypeOther:
		return true
	default:
		return false
	}
}

func ValidMemberRole(r string) bool {
	switch r {
	case RoleMember, RoleChairperson, RoleSecretary:
		return true
	default:
		return false
	}
}

// DeadlineFor derives the committee deadline from the formation date plus a
// configured day offset. It is never accepted from the client.
func DeadlineFor(formationDate time.Time, offsetDays int) time.Time {
	return formationDate.AddDate(0, 0, offsetDays)
}

// HasMember reports whether the roster already contains the employee id.
func (c *Committee) HasMember(employeeID string) bool {
	for _, m := range c.Members {
		if m.EmployeeID == employeeID {
			return true
		}
	}
	return false
}

func ToDataModel(c *Committee) *committeeDatamodel.Committee {
	dm := &committeeDatamodel.Committee{
		ID:                c.ID,
		Name:              c.Name,
		Purpose:           c.Purpose,
		CommitteeType:     c.CommitteeType,
		FormationDate:     c.FormationDate,
		Deadline:          c.Deadline,
		ProcurementPlanID: c.ProcurementPlanID,
		ApprovalStatus:    c.ApprovalStatus,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	if c.Letter != nil {
		dm.LetterStorageKey = &c.Letter.StorageKey
		dm.LetterFileName = &c.Letter.FileName
		dm.LetterContentType = &c.Letter.ContentType
		uploadedAt := c.Letter.UploadedAt
		dm.LetterUploadedAt = &uploadedAt
	}
	for _, m := range c.Members {
		dm.Members = append(dm.Members, *MemberToDataModel(&m))
	}
	return dm
}

func MemberToDataModel(m *Member) *committeeDatamodel.Member {
	return &committeeDatamodel.Member{
		ID:          m.ID,
		CommitteeID: m.CommitteeID,
		EmployeeID:  m.EmployeeID,
		Name:        m.Name,
		Email:       m.Email,
		Department:  m.Department,
		Phone:       m.Phone,
		Designation: m.Designation,
		Role:        m.Role,
		CreatedAt:   m.CreatedAt,
	}
}

func FromDataModel(dm *committeeDatamodel.Committee) *Committee {
	c := &Committee{
		ID:                dm.ID,
		Name:              dm.Name,
		Purpose:           dm.Purpose,
		CommitteeType:     dm.CommitteeType,
		FormationDate:     dm.FormationDate,
		Deadline:          dm.Deadline,
		ProcurementPlanID: dm.ProcurementPlanID,
		ApprovalStatus:    dm.ApprovalStatus,
		CreatedAt:         dm.CreatedAt,
		UpdatedAt:         dm.UpdatedAt,
	}
	if dm.LetterStorageKey != nil && dm.LetterFileName != nil {
		c.Letter = &Letter{
			FileName:   *dm.LetterFileName,
			StorageKey: *dm.LetterStorageKey,
		}
		if dm.LetterContentType != nil {
			c.Letter.ContentType = *dm.LetterContentType
		}
		if dm.LetterUploadedAt != nil {
			c.Letter.UploadedAt = *dm.LetterUploadedAt
		}
	}
	for i := range dm.Members {
		c.Members = append(c.Members, *MemberFromDataModel(&dm.Members[i]))
	}
	return c
}

func MemberFromDataModel(dm *committeeDatamodel.Member) *Member {
	return &Member{
		ID:          dm.ID,
		CommitteeID: dm.CommitteeID,
		EmployeeID:  dm.EmployeeID,
		Name:        dm.Name,
		Email:       dm.Email,
		Department:  dm.Department,
		Phone:       dm.Phone,
		Designation: dm.Designation,
		Role:        dm.Role,
		CreatedAt:   dm.CreatedAt,
	}
}

func FromDataModelSlice(committees []*committeeDatamodel.Committee) []*Committee {
	result := make([]*Committee, len(committees))
	for i, dm := range committees {
		result[i] = FromDataModel(dm)
	}
	return result
}
