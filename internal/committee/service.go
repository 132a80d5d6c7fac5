package committee

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/procureops/procurement-portal/internal"
	committeeDatamodel "github.com/procureops/procurement-portal/internal/core/datamodel/committee"
	"github.com/procureops/procurement-portal/internal/directory"
)

// Repository defines the data access methods for committees and their rosters.
type Repository interface {
	Create(c *committeeDatamodel.Committee) error
	GetByID(id int64) (*committeeDatamodel.Committee, error)
	List(limit, offset int) ([]*committeeDatamodel.Committee, error)
	Update(c *committeeDatamodel.Committee, members []committeeDatamodel.Member) error
	Delete(id int64) error
	AddMember(m *committeeDatamodel.Member) error
	RemoveMember(committeeID int64, employeeID string) (bool, error)
}

// PlanValidator checks that a procurement plan id refers to real reference data.
type PlanValidator interface {
	Exists(planID int64) (bool, error)
}

// EmployeeDirectory resolves an employee id to directory data, used to
// enrich partially-filled member rows.
type EmployeeDirectory interface {
	Lookup(ctx context.Context, employeeID string) (*directory.Employee, error)
}

// LetterStore persists formation-letter blobs keyed by storage key.
type LetterStore interface {
	Save(key string, data []byte) error
	Open(key string) (io.ReadCloser, int64, error)
	Remove(key string) error
}

// Service handles committee business logic
type Service struct {
	repo         Repository
	plans        PlanValidator
	dir          EmployeeDirectory
	letters      LetterStore
	deadlineDays int
	logger       *slog.Logger
}

func NewService(repo Repository, plans PlanValidator, dir EmployeeDirectory, letters LetterStore, deadlineDays int, logger *slog.Logger) *Service {
	if deadlineDays <= 0 {
		deadlineDays = 30
	}
	return &Service{
		repo:         repo,
		plans:        plans,
		dir:          dir,
		letters:      letters,
		deadlineDays: deadlineDays,
		logger:       logger,
	}
}

func (s *Service) ListCommittees(limit, offset int) ([]*Committee, error) {
	dms, err := s.repo.List(limit, offset)
	if err != nil {
		s.logger.Error("failed to list committees", "error", err)
		return nil, err
	}
	return FromDataModelSlice(dms), nil
}

func (s *Service) GetCommittee(id int64) (*Committee, error) {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get committee", "error", err, "committee_id", id)
		return nil, internal.ErrCommitteeNotFound
	}
	return FromDataModel(dm), nil
}

// CreateCommittee validates the full form, derives the deadline, stores the
// formation letter blob if present, and persists the committee with its
// roster atomically.
func (s *Service) CreateCommittee(dto *CommitteeFormDTO, letter *LetterUpload) (*Committee, error) {
	c, appErr := s.buildCommittee(dto)
	if appErr != nil {
		s.logger.Warn("committee validation failed", "error", appErr.GetDetailedMessage())
		return nil, appErr
	}
	c.ApprovalStatus = ApprovalPending

	if letter != nil {
		stored, err := s.storeLetter(letter)
		if err != nil {
			return nil, err
		}
		c.Letter = stored
	}

	dm := ToDataModel(c)
	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create committee", "error", err)
		if c.Letter != nil {
			if rmErr := s.letters.Remove(c.Letter.StorageKey); rmErr != nil {
				s.logger.Warn("failed to remove orphaned letter blob", "error", rmErr, "key", c.Letter.StorageKey)
			}
		}
		return nil, internal.NewInternalError("failed to create committee", err)
	}

	s.logger.Info("committee created",
		"committee_id", dm.ID,
		"name", c.Name,
		"type", c.CommitteeType,
		"members", len(c.Members))

	return s.GetCommittee(dm.ID)
}

// UpdateCommittee re-validates the full form against an existing committee
// and replaces its fields and roster. A new letter replaces the stored blob.
func (s *Service) UpdateCommittee(id int64, dto *CommitteeFormDTO, letter *LetterUpload) (*Committee, error) {
	existingDM, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrCommitteeNotFound
	}
	existing := FromDataModel(existingDM)

	c, appErr := s.buildCommittee(dto)
	if appErr != nil {
		s.logger.Warn("committee validation failed", "error", appErr.GetDetailedMessage(), "committee_id", id)
		return nil, appErr
	}
	c.ID = id
	c.ApprovalStatus = existing.ApprovalStatus
	c.Letter = existing.Letter

	var replacedKey string
	if letter != nil {
		stored, err := s.storeLetter(letter)
		if err != nil {
			return nil, err
		}
		if existing.Letter != nil {
			replacedKey = existing.Letter.StorageKey
		}
		c.Letter = stored
	}

	dm := ToDataModel(c)
	members := dm.Members
	dm.Members = nil

	if err := s.repo.Update(dm, members); err != nil {
		s.logger.Error("failed to update committee", "error", err, "committee_id", id)
		return nil, internal.NewInternalError("failed to update committee", err)
	}

	if replacedKey != "" {
		if err := s.letters.Remove(replacedKey); err != nil {
			s.logger.Warn("failed to remove replaced letter blob", "error", err, "key", replacedKey)
		}
	}

	s.logger.Info("committee updated", "committee_id", id, "members", len(members))
	return s.GetCommittee(id)
}

func (s *Service) DeleteCommittee(id int64) error {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		return internal.ErrCommitteeNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete committee", "error", err, "committee_id", id)
		return internal.NewInternalError("failed to delete committee", err)
	}

	if dm.LetterStorageKey != nil {
		if err := s.letters.Remove(*dm.LetterStorageKey); err != nil {
			s.logger.Warn("failed to remove letter blob", "error", err, "key", *dm.LetterStorageKey)
		}
	}

	s.logger.Info("committee deleted", "committee_id", id)
	return nil
}

// AddMember appends one member to an already-persisted committee. Identity
// fields missing from the request are filled from the employee directory, so
// a client can save a row as soon as a valid employee id is known.
func (s *Service) AddMember(ctx context.Context, committeeID int64, dto *AddMemberDTO) (*Member, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	dm, err := s.repo.GetByID(committeeID)
	if err != nil {
		return nil, internal.ErrCommitteeNotFound
	}
	c := FromDataModel(dm)

	if c.HasMember(dto.EmployeeID) {
		return nil, internal.NewConflictError("member already on the roster", internal.ErrCodeDuplicateMember)
	}

	member := Member{
		CommitteeID: committeeID,
		EmployeeID:  dto.EmployeeID,
		Name:        dto.Name,
		Email:       dto.Email,
		Department:  dto.Department,
		Phone:       dto.Phone,
		Designation: dto.Designation,
		Role:        dto.Role,
	}
	if member.Role == "" {
		member.Role = RoleMember
	}

	if member.Name == "" || member.Email == "" {
		emp, err := s.dir.Lookup(ctx, dto.EmployeeID)
		if err != nil {
			s.logger.Error("employee lookup failed", "error", err, "employee_id", dto.EmployeeID)
			return nil, err
		}
		if member.Name == "" {
			member.Name = emp.Name
		}
		if member.Email == "" {
			member.Email = emp.Email
		}
		if member.Department == nil && emp.Department != "" {
			dept := emp.Department
			member.Department = &dept
		}
		if member.Designation == nil && emp.Designation != "" {
			desig := emp.Designation
			member.Designation = &desig
		}
	}

	memberDM := MemberToDataModel(&member)
	if err := s.repo.AddMember(memberDM); err != nil {
		s.logger.Error("failed to add member", "error", err, "committee_id", committeeID, "employee_id", dto.EmployeeID)
		return nil, internal.NewInternalError("failed to add member", err)
	}

	s.logger.Info("member added", "committee_id", committeeID, "employee_id", dto.EmployeeID, "role", member.Role)
	return MemberFromDataModel(memberDM), nil
}

// RemoveMember deletes one member from a persisted committee by employee id.
func (s *Service) RemoveMember(committeeID int64, employeeID string) error {
	if _, err := s.repo.GetByID(committeeID); err != nil {
		return internal.ErrCommitteeNotFound
	}

	removed, err := s.repo.RemoveMember(committeeID, employeeID)
	if err != nil {
		s.logger.Error("failed to remove member", "error", err, "committee_id", committeeID, "employee_id", employeeID)
		return internal.NewInternalError("failed to remove member", err)
	}
	if !removed {
		return internal.ErrMemberNotFound
	}

	s.logger.Info("member removed", "committee_id", committeeID, "employee_id", employeeID)
	return nil
}

// OpenLetter streams the stored formation letter for download.
func (s *Service) OpenLetter(committeeID int64) (io.ReadCloser, int64, *Letter, error) {
	dm, err := s.repo.GetByID(committeeID)
	if err != nil {
		return nil, 0, nil, internal.ErrCommitteeNotFound
	}
	c := FromDataModel(dm)

	if c.Letter == nil {
		return nil, 0, nil, internal.ErrLetterNotFound
	}

	rc, size, err := s.letters.Open(c.Letter.StorageKey)
	if err != nil {
		s.logger.Error("failed to open letter blob", "error", err, "committee_id", committeeID, "key", c.Letter.StorageKey)
		return nil, 0, nil, internal.ErrLetterNotFound
	}
	return rc, size, c.Letter, nil
}

// buildCommittee validates the form and assembles a domain committee with a
// derived deadline and resolved plan link.
func (s *Service) buildCommittee(dto *CommitteeFormDTO) (*Committee, *internal.AppError) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	formationDate := dto.ParsedFormationDate()
	c := &Committee{
		Name:          dto.Name,
		Purpose:       dto.Purpose,
		CommitteeType: dto.CommitteeType,
		FormationDate: formationDate,
		Deadline:      DeadlineFor(formationDate, s.deadlineDays),
	}

	if dto.PlanSelected() {
		planID, err := strconv.ParseInt(dto.ProcurementPlan, 10, 64)
		if err != nil {
			return nil, internal.NewValidationFieldError("procurement_plan", "procurement_plan must be a plan id or \"none\"", internal.ErrCodeValidationFailed)
		}
		exists, err := s.plans.Exists(planID)
		if err != nil {
			s.logger.Error("failed to check procurement plan", "error", err, "plan_id", planID)
			return nil, internal.NewInternalError("failed to verify procurement plan", err)
		}
		if !exists {
			return nil, internal.NewValidationFieldError("procurement_plan", "unknown procurement plan", internal.ErrCodePlanNotFound)
		}
		c.ProcurementPlanID = &planID
	}

	for _, m := range dto.Members {
		c.Members = append(c.Members, m.toDomain())
	}

	return c, nil
}

var allowedLetterExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

func (s *Service) storeLetter(upload *LetterUpload) (*Letter, *internal.AppError) {
	ext := strings.ToLower(filepath.Ext(upload.FileName))
	if !allowedLetterExtensions[ext] {
		return nil, internal.NewValidationFieldError("formation_letter",
			"formation letter must be a PDF or Word document",
			internal.ErrCodeInvalidLetterFile)
	}

	key := uuid.NewString() + ext
	if err := s.letters.Save(key, upload.Data); err != nil {
		s.logger.Error("failed to store formation letter", "error", err, "filename", upload.FileName)
		return nil, internal.NewInternalError("failed to store formation letter", err)
	}

	return &Letter{
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
		StorageKey:  key,
		UploadedAt:  time.Now(),
	}, nil
}
