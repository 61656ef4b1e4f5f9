package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/assessment"
	"github.com/trezcool/schooldash/core/class"
	"github.com/trezcool/schooldash/core/curriculum"
	"github.com/trezcool/schooldash/core/report"
	"github.com/trezcool/schooldash/core/student"
	"github.com/trezcool/schooldash/core/teacher"
)

// branchApi serves the branch-scoped views of branchadmins and teachers.
// Every record it touches is checked to belong to the session's branch; records of other branches are not found.
type branchApi struct {
	classes     *class.Service
	students    *student.Service
	curriculum  *curriculum.Service
	teachers    *teacher.Service
	assessments *assessment.Service
	reports     *report.Service
	metrics     *metrics
}

func newBranchApi(opts *Options, m *metrics) *branchApi {
	students := opts.StudentSvc
	if students != nil {
		students = students.WithBulkObserver(m.bulkRowObserver(bulkKindStudents))
	}
	return &branchApi{
		classes:     opts.ClassSvc,
		students:    students,
		curriculum:  opts.CurriculumSvc,
		teachers:    opts.TeacherSvc,
		assessments: opts.AssessmentSvc,
		reports:     opts.ReportSvc,
		metrics:     m,
	}
}

func (api *branchApi) ownClass(ctx echo.Context, id int64) (class.Class, error) {
	branchID, err := contextBranchID(ctx)
	if err != nil {
		return class.Class{}, err
	}
	c, found, err := api.classes.FindClass(ctx.Request().Context(), id)
	if err != nil {
		return class.Class{}, errors.Wrap(err, "finding class")
	}
	if !found || c.BranchID != branchID {
		return class.Class{}, errHttpNotFound
	}
	return c, nil
}

func (api *branchApi) ownSection(ctx echo.Context, id int64) (class.Section, error) {
	s, found, err := api.classes.FindSection(ctx.Request().Context(), id)
	if err != nil {
		return class.Section{}, errors.Wrap(err, "finding section")
	}
	if !found {
		return class.Section{}, errHttpNotFound
	}
	if _, err = api.ownClass(ctx, s.ClassID); err != nil {
		return class.Section{}, err
	}
	return s, nil
}

func (api *branchApi) ownStudent(ctx echo.Context, id int64) (student.Student, error) {
	s, found, err := api.students.Find(ctx.Request().Context(), id)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "finding student")
	}
	if !found {
		return student.Student{}, errHttpNotFound
	}
	if _, err = api.ownSection(ctx, s.SectionID); err != nil {
		return student.Student{}, err
	}
	return s, nil
}

func (api *branchApi) ownChapter(ctx echo.Context, id int64) (curriculum.Chapter, error) {
	c, found, err := api.curriculum.FindChapter(ctx.Request().Context(), id)
	if err != nil {
		return curriculum.Chapter{}, errors.Wrap(err, "finding chapter")
	}
	if !found {
		return curriculum.Chapter{}, errHttpNotFound
	}
	if _, err = api.ownClass(ctx, c.ClassID); err != nil {
		return curriculum.Chapter{}, err
	}
	return c, nil
}

func (api *branchApi) ownSubject(ctx echo.Context, id int64) (curriculum.Subject, error) {
	branchID, err := contextBranchID(ctx)
	if err != nil {
		return curriculum.Subject{}, err
	}
	s, err := api.curriculum.GetSubject(ctx.Request().Context(), id)
	if err != nil {
		if core.IsNotFound(err) {
			return curriculum.Subject{}, errHttpNotFound
		}
		return curriculum.Subject{}, errors.Wrap(err, "getting subject")
	}
	if s.BranchID != branchID {
		return curriculum.Subject{}, errHttpNotFound
	}
	return s, nil
}

// ownTopic resolves the topic through its associations: every chapter or subject it hangs from
// must belong to the session's branch. A topic with no association reaches no branch.
func (api *branchApi) ownTopic(ctx echo.Context, id int64) (curriculum.TopicWithOutcome, error) {
	branchID, err := contextBranchID(ctx)
	if err != nil {
		return curriculum.TopicWithOutcome{}, err
	}
	rctx := ctx.Request().Context()
	t, found, err := api.curriculum.FindTopic(rctx, id)
	if err != nil {
		return curriculum.TopicWithOutcome{}, errors.Wrap(err, "finding topic")
	}
	if !found {
		return curriculum.TopicWithOutcome{}, errHttpNotFound
	}
	branches, err := api.curriculum.TopicBranches(rctx, id)
	if err != nil {
		return curriculum.TopicWithOutcome{}, errors.Wrap(err, "resolving topic branches")
	}
	if len(branches) == 0 {
		return curriculum.TopicWithOutcome{}, errHttpNotFound
	}
	for _, b := range branches {
		if b != branchID {
			return curriculum.TopicWithOutcome{}, errHttpNotFound
		}
	}
	return t, nil
}

func (api *branchApi) ownTeacher(ctx echo.Context, id int64) (teacher.Teacher, error) {
	branchID, err := contextBranchID(ctx)
	if err != nil {
		return teacher.Teacher{}, err
	}
	t, found, err := api.teachers.Find(ctx.Request().Context(), id)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "finding teacher")
	}
	if !found || t.BranchID != branchID {
		return teacher.Teacher{}, errHttpNotFound
	}
	return t, nil
}
