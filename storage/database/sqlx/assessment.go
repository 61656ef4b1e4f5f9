package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/assessment"
)

const gradeColumns = `g.grade_id, g.student_id, g.student_name, g.branch_id, g.subject, g.chapter, g.section, g.grade`

var gradeOrdering = map[string]string{
	"id":         "g.grade_id",
	"student_id": "g.student_id",
	"subject":    "g.subject",
	"chapter":    "g.chapter",
	"grade":      "g.grade",
}

type assessmentRepository struct {
	db core.DB
}

var _ assessment.Repository = (*assessmentRepository)(nil) // interface compliance check

func NewAssessmentRepository(db core.DB) *assessmentRepository {
	return &assessmentRepository{db: db}
}

func (repo assessmentRepository) CreateScore(ctx context.Context, s assessment.Score) (assessment.Score, error) {
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		id, err := insert(ctx, exec, `
			INSERT INTO scores (student_id, subject_id, math, science) VALUES (:student_id, :subject_id, :math, :science)`, s)
		s.ID = id
		return errors.Wrap(err, "inserting score")
	})
	if err != nil {
		return assessment.Score{}, err
	}
	return s, nil
}

func (repo assessmentRepository) QueryScores(ctx context.Context, studentID int64) ([]assessment.Score, error) {
	scores := make([]assessment.Score, 0)
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		err := exec.SelectContext(ctx, &scores, `
			SELECT score_id, student_id, subject_id, math, science FROM scores WHERE student_id = ? ORDER BY score_id`, studentID)
		return errors.Wrap(err, "selecting scores")
	})
	if err != nil {
		return nil, err
	}
	return scores, nil
}

func (repo assessmentRepository) CreateGrade(ctx context.Context, g assessment.Grade) (assessment.Grade, error) {
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		id, err := insert(ctx, exec, `
			INSERT INTO grades (student_id, student_name, branch_id, subject, chapter, section, grade)
			SELECT :student_id, COALESCE(st.student_name, ''), c.branch_id, :subject, :chapter, :section, :grade
			FROM (SELECT 1) AS one
			LEFT JOIN student st ON st.student_id = :student_id
			LEFT JOIN section sec ON sec.section_id = st.section_id
			LEFT JOIN class c ON c.class_id = sec.class_id`, g)
		if err != nil {
			return errors.Wrap(err, "inserting grade")
		}
		err = exec.GetContext(ctx, &g, `SELECT `+gradeColumns+` FROM grades g WHERE g.grade_id = ?`, id)
		return errors.Wrap(err, "selecting grade")
	})
	if err != nil {
		return assessment.Grade{}, err
	}
	return g, nil
}

// gradeWhere builds the conditions shared by grade queries, summaries and deletes on the "g" alias.
func gradeWhere(filter assessment.GradeFilter) (from string, w where) {
	from = ` FROM grades g`
	if filter.StudentID.Valid {
		w.add("g.student_id = ?", filter.StudentID.Int64)
	}
	if filter.BranchID.Valid {
		w.add("g.branch_id = ?", filter.BranchID.Int64)
	}
	if filter.Subject != "" {
		w.add("g.subject = ?", filter.Subject)
	}
	if filter.Chapter != "" {
		w.add("g.chapter = ?", filter.Chapter)
	}
	if filter.Section != "" {
		w.add("g.section = ?", filter.Section)
	}
	return from, w
}

func (repo assessmentRepository) QueryGrades(ctx context.Context, filter assessment.GradeFilter, ordering []core.DBOrdering) ([]assessment.Grade, error) {
	from, w := gradeWhere(filter)
	query := `SELECT ` + gradeColumns + from + w.String() + core.OrderByClause(ordering, gradeOrdering, "")

	grades := make([]assessment.Grade, 0)
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		return errors.Wrap(exec.SelectContext(ctx, &grades, query, w.args...), "selecting grades")
	})
	if err != nil {
		return nil, err
	}
	return grades, nil
}

func (repo assessmentRepository) DeleteGrades(ctx context.Context, filter assessment.GradeFilter) (int, error) {
	from, w := gradeWhere(filter)
	query := `DELETE FROM grades WHERE grade_id IN (SELECT g.grade_id` + from + w.String() + `)`

	var cnt int
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		res, err := exec.ExecContext(ctx, query, w.args...)
		if err != nil {
			return errors.Wrap(err, "deleting grades")
		}
		n, err := res.RowsAffected()
		cnt = int(n)
		return errors.Wrap(err, "deleting grades")
	})
	return cnt, err
}
