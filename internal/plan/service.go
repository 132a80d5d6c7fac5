package plan

import (
	"log/slog"
	"strings"

	"github.com/procureops/procurement-portal/internal"
	planDatamodel "github.com/procureops/procurement-portal/internal/core/datamodel/plan"
)

type RepositoryAPI interface {
	GetAll() ([]*planDatamodel.ProcurementPlan, error)
	GetByID(id int64) (*planDatamodel.ProcurementPlan, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListPlans returns all plans, optionally filtered by a case-insensitive
// substring match on project name. The picker's search runs here.
func (s *Service) ListPlans(query string) ([]*ProcurementPlan, error) {
	dms, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get procurement plans", "error", err)
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	var plans []*ProcurementPlan
	for _, dm := range dms {
		if query != "" && !strings.Contains(strings.ToLower(dm.ProjectName), query) {
			continue
		}
		plans = append(plans, FromDataModel(dm))
	}

	s.logger.Info("retrieved procurement plans", "count", len(plans), "query", query)
	return plans, nil
}

func (s *Service) GetPlan(id int64) (*ProcurementPlan, error) {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get procurement plan", "error", err, "plan_id", id)
		return nil, internal.ErrPlanNotFound
	}
	if dm == nil {
		return nil, internal.ErrPlanNotFound
	}
	return FromDataModel(dm), nil
}

// Exists reports whether a plan id refers to real reference data; used by
// the committee service when validating a plan link.
func (s *Service) Exists(id int64) (bool, error) {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		return false, err
	}
	return dm != nil, nil
}
