package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/assessment"
	"github.com/trezcool/schooldash/core/report"
)

// Each count is computed in its own grouped subquery and left-joined to branch,
// so joining several one-to-many paths cannot multiply rows or skew averages.
const branchRollupsQuery = `
	SELECT b.branch_id, b.branch_name,
	       COALESCE(st.students, 0)     AS students,
	       COALESCE(t.teachers, 0)      AS teachers,
	       COALESCE(c.classes, 0)       AS classes,
	       COALESCE(sec.sections, 0)    AS sections,
	       COALESCE(sc.math_avg, 0)     AS math_avg,
	       COALESCE(sc.science_avg, 0)  AS science_avg
	FROM branch b
	LEFT JOIN (
	    SELECT branch_id, COUNT(*) AS classes FROM class GROUP BY branch_id
	) c ON c.branch_id = b.branch_id
	LEFT JOIN (
	    SELECT cl.branch_id, COUNT(*) AS sections
	    FROM section s JOIN class cl ON cl.class_id = s.class_id
	    GROUP BY cl.branch_id
	) sec ON sec.branch_id = b.branch_id
	LEFT JOIN (
	    SELECT cl.branch_id, COUNT(*) AS students
	    FROM student s
	    JOIN section se ON se.section_id = s.section_id
	    JOIN class cl ON cl.class_id = se.class_id
	    GROUP BY cl.branch_id
	) st ON st.branch_id = b.branch_id
	LEFT JOIN (
	    SELECT branch_id, COUNT(*) AS teachers FROM teachers GROUP BY branch_id
	) t ON t.branch_id = b.branch_id
	LEFT JOIN (
	    SELECT cl.branch_id, AVG(sc.math) AS math_avg, AVG(sc.science) AS science_avg
	    FROM scores sc
	    JOIN student s ON s.student_id = sc.student_id
	    JOIN section se ON se.section_id = s.section_id
	    JOIN class cl ON cl.class_id = se.class_id
	    GROUP BY cl.branch_id
	) sc ON sc.branch_id = b.branch_id`

type reportRepository struct {
	db core.DB
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db core.DB) *reportRepository {
	return &reportRepository{db: db}
}

func (repo reportRepository) BranchRollups(ctx context.Context, branchID null.Int64) ([]report.BranchRollup, error) {
	query := branchRollupsQuery
	var args []interface{}
	if branchID.Valid {
		query += ` WHERE b.branch_id = ?`
		args = append(args, branchID.Int64)
	}
	query += ` ORDER BY b.branch_id`

	rollups := make([]report.BranchRollup, 0)
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		return errors.Wrap(exec.SelectContext(ctx, &rollups, query, args...), "selecting branch rollups")
	})
	if err != nil {
		return nil, err
	}
	return rollups, nil
}

func (repo reportRepository) OverallStats(ctx context.Context) (report.OverallStats, error) {
	var stats report.OverallStats
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		err := exec.GetContext(ctx, &stats, `
			SELECT (SELECT COUNT(*) FROM branch)   AS branches,
			       (SELECT COUNT(*) FROM teachers) AS teachers,
			       (SELECT COUNT(*) FROM student)  AS students,
			       (SELECT COUNT(*) FROM subject)  AS subjects`)
		return errors.Wrap(err, "selecting overall stats")
	})
	return stats, err
}

func (repo reportRepository) SubjectTeacherDistribution(ctx context.Context, branchID null.Int64) ([]report.SubjectTeachers, error) {
	var w where
	w.add("subject <> ''")
	if branchID.Valid {
		w.add("branch_id = ?", branchID.Int64)
	}
	query := `SELECT subject, COUNT(*) AS teachers FROM teachers` + w.String() + ` GROUP BY subject ORDER BY subject`

	rows := make([]report.SubjectTeachers, 0)
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		return errors.Wrap(exec.SelectContext(ctx, &rows, query, w.args...), "selecting subject teachers")
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (repo reportRepository) SubjectStructure(ctx context.Context, branchID null.Int64) ([]report.SubjectStructure, error) {
	var w where
	if branchID.Valid {
		w.add("s.branch_id = ?", branchID.Int64)
	}
	query := `
		SELECT s.subject_id, s.subject_name, s.class_id,
		       COUNT(DISTINCT a.chapter_id) AS chapters,
		       COUNT(DISTINCT a.topic_id)   AS topics
		FROM subject s
		LEFT JOIN topic_association a ON a.subject_id = s.subject_id` + w.String() + `
		GROUP BY s.subject_id, s.subject_name, s.class_id
		ORDER BY s.subject_id`

	rows := make([]report.SubjectStructure, 0)
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		return errors.Wrap(exec.SelectContext(ctx, &rows, query, w.args...), "selecting subject structure")
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (repo reportRepository) GradeSummary(ctx context.Context, filter assessment.GradeFilter) ([]report.GradeSummary, error) {
	from, w := gradeWhere(filter)
	query := `SELECT g.subject, g.chapter, COUNT(*) AS grades, COALESCE(AVG(g.grade), 0) AS average` +
		from + w.String() + ` GROUP BY g.subject, g.chapter ORDER BY g.subject, g.chapter`

	rows := make([]report.GradeSummary, 0)
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		return errors.Wrap(exec.SelectContext(ctx, &rows, query, w.args...), "summarizing grades")
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
