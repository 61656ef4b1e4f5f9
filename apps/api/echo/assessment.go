package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/assessment"
)

var errNoSection = core.NewValidationError(nil, core.FieldError{Field: "section", Error: "this field is required"})

// Scores

func (api *branchApi) recordScore(ctx echo.Context) error {
	var data assessment.NewScore
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewScore")
	}
	if data.StudentID != 0 {
		if _, err := api.ownStudent(ctx, data.StudentID); err != nil {
			return err
		}
	}
	if data.SubjectID != 0 {
		if _, err := api.ownSubject(ctx, data.SubjectID); err != nil {
			return err
		}
	}
	s, err := api.assessments.RecordScore(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording score")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *branchApi) studentScores(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownStudent(ctx, id); err != nil {
		return err
	}
	scores, err := api.assessments.ScoresByStudent(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying scores")
	}
	return ctx.JSON(http.StatusOK, scores)
}

// Grades

func (api *branchApi) recordGrade(ctx echo.Context) error {
	var data assessment.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if data.StudentID != 0 {
		if _, err := api.ownStudent(ctx, data.StudentID); err != nil {
			return err
		}
	}
	g, err := api.assessments.RecordGrade(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording grade")
	}
	return ctx.JSON(http.StatusCreated, g)
}

// gradeFilter reads ?student_id, subject, chapter and section, always narrowed to the session's branch.
func (api *branchApi) gradeFilter(ctx echo.Context) (assessment.GradeFilter, error) {
	branchID, err := contextBranchID(ctx)
	if err != nil {
		return assessment.GradeFilter{}, err
	}
	studentID, err := queryID(ctx, "student_id")
	if err != nil {
		return assessment.GradeFilter{}, err
	}
	return assessment.GradeFilter{
		StudentID: studentID,
		BranchID:  null.Int64From(branchID),
		Subject:   ctx.QueryParam("subject"),
		Chapter:   ctx.QueryParam("chapter"),
		Section:   ctx.QueryParam("section"),
	}, nil
}

func (api *branchApi) queryGrades(ctx echo.Context) error {
	filter, err := api.gradeFilter(ctx)
	if err != nil {
		return err
	}
	grades, err := api.assessments.QueryGrades(ctx.Request().Context(), filter, bindOrdering(ctx)...)
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

// destroyGrades clears the grades matching the query; a section is required so a branch is never wiped at once.
func (api *branchApi) destroyGrades(ctx echo.Context) error {
	filter, err := api.gradeFilter(ctx)
	if err != nil {
		return err
	}
	if core.CleanString(filter.Section) == "" {
		return errNoSection
	}
	n, err := api.assessments.DeleteGrades(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "deleting grades")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"deleted": n})
}
