package assessment

import (
	"context"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
)

type (
	Repository interface {
		CreateScore(ctx context.Context, s Score) (Score, error)
		QueryScores(ctx context.Context, studentID int64) ([]Score, error)
		// CreateGrade copies the current student name into the grade row.
		CreateGrade(ctx context.Context, g Grade) (Grade, error)
		QueryGrades(ctx context.Context, filter GradeFilter, ordering []core.DBOrdering) ([]Grade, error)
		DeleteGrades(ctx context.Context, filter GradeFilter) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) RecordScore(ctx context.Context, ns NewScore) (Score, error) {
	if err := ns.Validate(); err != nil {
		return Score{}, err
	}
	return svc.repo.CreateScore(ctx, Score{StudentID: ns.StudentID, SubjectID: ns.SubjectID, Math: ns.Math, Science: ns.Science})
}

func (svc *Service) ScoresByStudent(ctx context.Context, studentID int64) ([]Score, error) {
	return svc.repo.QueryScores(ctx, studentID)
}

func (svc *Service) RecordGrade(ctx context.Context, ng NewGrade) (Grade, error) {
	if err := ng.Validate(); err != nil {
		return Grade{}, err
	}
	return svc.repo.CreateGrade(ctx, Grade{
		StudentID: null.Int64From(ng.StudentID),
		Subject:   ng.Subject,
		Chapter:   ng.Chapter,
		Section:   ng.Section,
		Grade:     ng.Grade,
	})
}

func (svc *Service) QueryGrades(ctx context.Context, filter GradeFilter, ordering ...core.DBOrdering) ([]Grade, error) {
	filter.Clean()
	return svc.repo.QueryGrades(ctx, filter, ordering)
}

// DeleteGrades removes the grades matching filter; an empty filter removes the whole history.
func (svc *Service) DeleteGrades(ctx context.Context, filter GradeFilter) (int, error) {
	filter.Clean()
	return svc.repo.DeleteGrades(ctx, filter)
}
