package report

import (
	"context"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core/assessment"
)

type (
	Repository interface {
		// BranchRollups returns one row per branch (only branchID when valid), ordered by branch id.
		BranchRollups(ctx context.Context, branchID null.Int64) ([]BranchRollup, error)
		OverallStats(ctx context.Context) (OverallStats, error)
		SubjectTeacherDistribution(ctx context.Context, branchID null.Int64) ([]SubjectTeachers, error)
		SubjectStructure(ctx context.Context, branchID null.Int64) ([]SubjectStructure, error)
		GradeSummary(ctx context.Context, filter assessment.GradeFilter) ([]GradeSummary, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) BranchRollups(ctx context.Context) ([]BranchRollup, error) {
	return svc.repo.BranchRollups(ctx, null.Int64{})
}

// BranchOverview is the rollup of a single branch; false when the branch does not exist.
func (svc *Service) BranchOverview(ctx context.Context, branchID int64) (BranchRollup, bool, error) {
	rollups, err := svc.repo.BranchRollups(ctx, null.Int64From(branchID))
	if err != nil {
		return BranchRollup{}, false, err
	}
	if len(rollups) == 0 {
		return BranchRollup{}, false, nil
	}
	return rollups[0], true, nil
}

func (svc *Service) OverallStats(ctx context.Context) (OverallStats, error) {
	return svc.repo.OverallStats(ctx)
}

// SubjectTeacherDistribution counts teachers per subject, across all branches when branchID is null.
func (svc *Service) SubjectTeacherDistribution(ctx context.Context, branchID null.Int64) ([]SubjectTeachers, error) {
	return svc.repo.SubjectTeacherDistribution(ctx, branchID)
}

func (svc *Service) SubjectStructure(ctx context.Context, branchID null.Int64) ([]SubjectStructure, error) {
	return svc.repo.SubjectStructure(ctx, branchID)
}

func (svc *Service) GradeSummary(ctx context.Context, filter assessment.GradeFilter) ([]GradeSummary, error) {
	filter.Clean()
	return svc.repo.GradeSummary(ctx, filter)
}
