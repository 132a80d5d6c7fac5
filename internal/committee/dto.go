package committee

import (
	"fmt"
	"time"

	"github.com/procureops/procurement-portal/internal"
	"github.com/procureops/procurement-portal/internal/core/common/validation"
)

const formationDateLayout = "2006-01-02"

// CommitteeFormDTO is the multipart form payload for create and update. The
// members part arrives as a JSON array; the formation letter file part is
// handled separately by the handler.
type CommitteeFormDTO struct {
	Name            string      `json:"name"`
	Purpose         string      `json:"purpose"`
	CommitteeType   string      `json:"committee_type"`
	FormationDate   string      `json:"formation_date"`
	ProcurementPlan string      `json:"procurement_plan"`
	Members         []MemberDTO `json:"members"`
}

type MemberDTO struct {
	EmployeeID  string  `json:"employee_id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Department  *string `json:"department,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Designation *string `json:"designation,omitempty"`
	Role        string  `json:"role"`
}

// Validate enforces the submit-time invariants: mandatory scalar fields, a
// known committee type, at least one member, complete member rows, and no
// duplicate employee ids across the roster.
func (dto *CommitteeFormDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLen(200)
	v.Field("purpose", dto.Purpose).Required().MaxLen(1000)
	v.Field("committee_type", dto.CommitteeType).Required().
		OneOf(TypeSpecification, TypeEvaluation, TypeOther)
	v.Field("formation_date", dto.FormationDate).Required()

	if dto.FormationDate != "" {
		if _, err := time.Parse(formationDateLayout, dto.FormationDate); err != nil {
			v.AddError("formation_date", "formation_date must be formatted YYYY-MM-DD", internal.ErrCodeInvalidDate)
		}
	}

	if len(dto.Members) == 0 {
		v.AddError("members", "at least one member is required", internal.ErrCodeEmptyRoster)
	}

	seen := make(map[string]bool, len(dto.Members))
	for i, m := range dto.Members {
		prefix := fmt.Sprintf("members[%d]", i)
		if m.EmployeeID == "" {
			v.AddError(prefix+".employee_id", "employee_id is required", internal.ErrCodeValidationFailed)
		} else if seen[m.EmployeeID] {
			v.AddError(prefix+".employee_id",
				fmt.Sprintf("duplicate employee_id %s in roster", m.EmployeeID),
				internal.ErrCodeDuplicateMember)
		} else {
			seen[m.EmployeeID] = true
		}
		if m.Name == "" {
			v.AddError(prefix+".name", "name is required", internal.ErrCodeValidationFailed)
		}
		if m.Email == "" {
			v.AddError(prefix+".email", "email is required", internal.ErrCodeValidationFailed)
		}
		if m.Role != "" && !ValidMemberRole(m.Role) {
			v.AddError(prefix+".role", "role must be one of: member, chairperson, secretary", internal.ErrCodeInvalidMemberRole)
		}
	}

	return v.Validate()
}

// ParsedFormationDate returns the formation date; call only after Validate.
func (dto *CommitteeFormDTO) ParsedFormationDate() time.Time {
	t, _ := time.Parse(formationDateLayout, dto.FormationDate)
	return t
}

// PlanSelected reports whether a procurement plan was chosen. The portal
// sends "none" (or leaves the field empty) to clear the link.
func (dto *CommitteeFormDTO) PlanSelected() bool {
	return dto.ProcurementPlan != "" && dto.ProcurementPlan != "none"
}

func (m *MemberDTO) toDomain() Member {
	role := m.Role
	if role == "" {
		role = RoleMember
	}
	return Member{
		EmployeeID:  m.EmployeeID,
		Name:        m.Name,
		Email:       m.Email,
		Department:  m.Department,
		Phone:       m.Phone,
		Designation: m.Designation,
		Role:        role,
	}
}

// AddMemberDTO is the JSON payload for the incremental add-member endpoint.
// Only employee_id is mandatory; missing identity fields are enriched from
// the employee directory.
type AddMemberDTO struct {
	EmployeeID  string  `json:"employee_id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Department  *string `json:"department,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Designation *string `json:"designation,omitempty"`
	Role        string  `json:"role"`
}

func (dto *AddMemberDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", dto.EmployeeID).Required()
	if dto.Role != "" && !ValidMemberRole(dto.Role) {
		v.AddError("role", "role must be one of: member, chairperson, secretary", internal.ErrCodeInvalidMemberRole)
	}
	return v.Validate()
}

// LetterUpload carries an in-memory formation letter from the handler to the
// service.
type LetterUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}
