package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core/branch"
)

type branchadminApi struct {
	*branchApi
	branches *branch.Service
}

func registerBranchadminAPI(g *echo.Group, opts *Options, m *metrics) {
	api := branchadminApi{branchApi: newBranchApi(opts, m), branches: opts.BranchSvc}

	g.GET("/dashboard", api.dashboard)

	g.GET("/classes", api.queryClasses)
	g.POST("/classes", api.createClass)
	g.PUT("/classes/:id", api.updateClass)
	g.DELETE("/classes/:id", api.destroyClass)

	g.GET("/classes/:id/sections", api.querySections)
	g.POST("/classes/:id/sections", api.createSection)
	g.PUT("/sections/:id", api.updateSection)
	g.DELETE("/sections/:id", api.destroySection)

	g.GET("/sections/:id/students", api.queryStudents)
	g.POST("/sections/:id/students", api.createStudent)
	g.POST("/sections/:id/students/upload", api.uploadStudents)
	g.GET("/sections/:id/students/export", api.exportStudents)
	g.PUT("/students/:id", api.updateStudent)
	g.DELETE("/students/:id", api.destroyStudent)

	g.GET("/teachers", api.queryTeachers)
	g.POST("/teachers", api.createTeacher)
	g.PUT("/teachers/:id", api.updateTeacher)
	g.DELETE("/teachers/:id", api.destroyTeacher)

	g.GET("/subjects", api.querySubjects)
	g.POST("/subjects", api.createSubject)
	g.PUT("/subjects/:id", api.updateSubject)
	g.DELETE("/subjects/:id", api.destroySubject)

	g.GET("/classes/:id/chapters", api.queryChapters)
	g.POST("/classes/:id/chapters", api.createChapter)
	g.POST("/classes/:id/chapters/upload", api.uploadChapters)
	g.PUT("/chapters/:id", api.updateChapter)
	g.DELETE("/chapters/:id", api.destroyChapter)

	g.GET("/reports/subject-teachers", api.subjectTeachers)
	g.GET("/reports/subject-structure", api.subjectStructure)
	g.GET("/reports/grades", api.gradeSummary)
}

func (api *branchadminApi) dashboard(ctx echo.Context) error {
	branchID, err := contextBranchID(ctx)
	if err != nil {
		return err
	}
	rctx := ctx.Request().Context()
	b, found, err := api.branches.Find(rctx, branchID)
	if err != nil {
		return errors.Wrap(err, "finding branch")
	}
	if !found {
		return errHttpNotFound
	}
	overview, _, err := api.reports.BranchOverview(rctx, branchID)
	if err != nil {
		return errors.Wrap(err, "querying branch overview")
	}
	subjects, err := api.branches.Subjects(rctx, branchID)
	if err != nil {
		return errors.Wrap(err, "listing branch subjects")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"branch": b, "overview": overview, "subjects": subjects})
}

// Reports

func (api *branchApi) subjectTeachers(ctx echo.Context) error {
	branchID, err := contextBranchID(ctx)
	if err != nil {
		return err
	}
	return subjectTeachers(ctx, api.reports, null.Int64From(branchID))
}

func (api *branchApi) subjectStructure(ctx echo.Context) error {
	branchID, err := contextBranchID(ctx)
	if err != nil {
		return err
	}
	return subjectStructure(ctx, api.reports, null.Int64From(branchID))
}

func (api *branchApi) gradeSummary(ctx echo.Context) error {
	branchID, err := contextBranchID(ctx)
	if err != nil {
		return err
	}
	return gradeSummary(ctx, api.reports, null.Int64From(branchID))
}
