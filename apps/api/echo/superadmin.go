package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core/assessment"
	"github.com/trezcool/schooldash/core/branch"
	"github.com/trezcool/schooldash/core/report"
	"github.com/trezcool/schooldash/core/user"
)

type BranchAdminRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type superadminApi struct {
	branches *branch.Service
	users    *user.Service
	reports  *report.Service
}

func registerSuperadminAPI(g *echo.Group, opts *Options) {
	api := superadminApi{
		branches: opts.BranchSvc,
		users:    opts.UserSvc,
		reports:  opts.ReportSvc,
	}

	g.GET("/dashboard", api.dashboard)

	g.GET("/branches", api.queryBranches)
	g.POST("/branches", api.createBranch)
	g.GET("/branches/admins", api.queryBranchesWithAdmins)
	g.GET("/branches/:id", api.retrieveBranch)
	g.PUT("/branches/:id", api.updateBranch)
	g.DELETE("/branches/:id", api.destroyBranch)
	g.POST("/branches/:id/admins", api.createBranchAdmin)

	g.GET("/users", api.queryUsers)
	g.PUT("/users/:id", api.updateUser)
	g.DELETE("/users/:id", api.destroyUser)

	g.GET("/reports/subject-teachers", api.subjectTeachers)
	g.GET("/reports/subject-structure", api.subjectStructure)
	g.GET("/reports/grades", api.gradeSummary)
}

func (api *superadminApi) dashboard(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	rollups, err := api.reports.BranchRollups(rctx)
	if err != nil {
		return errors.Wrap(err, "querying branch rollups")
	}
	stats, err := api.reports.OverallStats(rctx)
	if err != nil {
		return errors.Wrap(err, "querying overall stats")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"stats": stats, "branches": rollups})
}

// Branches

func (api *superadminApi) queryBranches(ctx echo.Context) error {
	branches, err := api.branches.Query(ctx.Request().Context(), bindOrdering(ctx)...)
	if err != nil {
		return errors.Wrap(err, "querying branches")
	}
	return ctx.JSON(http.StatusOK, branches)
}

func (api *superadminApi) queryBranchesWithAdmins(ctx echo.Context) error {
	rows, err := api.branches.QueryWithAdmins(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying branches with admins")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *superadminApi) createBranch(ctx echo.Context) error {
	var data branch.NewBranch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBranch")
	}
	b, err := api.branches.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating branch")
	}
	return ctx.JSON(http.StatusCreated, b)
}

func (api *superadminApi) retrieveBranch(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	rctx := ctx.Request().Context()
	b, found, err := api.branches.Find(rctx, id)
	if err != nil {
		return errors.Wrap(err, "finding branch")
	}
	if !found {
		return errHttpNotFound
	}
	subjects, err := api.branches.Subjects(rctx, id)
	if err != nil {
		return errors.Wrap(err, "listing branch subjects")
	}
	overview, _, err := api.reports.BranchOverview(rctx, id)
	if err != nil {
		return errors.Wrap(err, "querying branch overview")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"branch": b, "subjects": subjects, "overview": overview})
}

func (api *superadminApi) updateBranch(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	var data branch.UpdateBranch
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateBranch")
	}
	b, err := api.branches.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating branch")
	}
	return ctx.JSON(http.StatusOK, b)
}

func (api *superadminApi) destroyBranch(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.branches.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting branch")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *superadminApi) createBranchAdmin(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	var data BranchAdminRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BranchAdminRequest")
	}
	rctx := ctx.Request().Context()
	if _, found, err := api.branches.Find(rctx, id); err != nil {
		return errors.Wrap(err, "finding branch")
	} else if !found {
		return errHttpNotFound
	}
	usr, err := api.users.CreateBranchAdmin(rctx, data.Name, data.Email, data.Password, id)
	if err != nil {
		return errors.Wrap(err, "creating branch admin")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

// Users

func (api *superadminApi) queryUsers(ctx echo.Context) error {
	branchID, err := queryID(ctx, "branch_id")
	if err != nil {
		return err
	}
	filter := user.QueryFilter{BranchID: branchID, Role: ctx.QueryParam("role"), Search: ctx.QueryParam("search")}
	users, err := api.users.Query(ctx.Request().Context(), filter, bindOrdering(ctx)...)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *superadminApi) updateUser(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	var data user.UpdateUser
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	usr, err := api.users.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *superadminApi) destroyUser(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	// a superadmin cannot delete themselves
	if id == contextSession(ctx).UserID {
		return errHttpForbidden
	}
	n, err := api.users.Delete(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	if n == 0 {
		return errHttpNotFound
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Reports

func (api *superadminApi) subjectTeachers(ctx echo.Context) error {
	branchID, err := queryID(ctx, "branch_id")
	if err != nil {
		return err
	}
	return subjectTeachers(ctx, api.reports, branchID)
}

func (api *superadminApi) subjectStructure(ctx echo.Context) error {
	branchID, err := queryID(ctx, "branch_id")
	if err != nil {
		return err
	}
	return subjectStructure(ctx, api.reports, branchID)
}

func (api *superadminApi) gradeSummary(ctx echo.Context) error {
	branchID, err := queryID(ctx, "branch_id")
	if err != nil {
		return err
	}
	return gradeSummary(ctx, api.reports, branchID)
}

func subjectTeachers(ctx echo.Context, svc *report.Service, branchID null.Int64) error {
	rows, err := svc.SubjectTeacherDistribution(ctx.Request().Context(), branchID)
	if err != nil {
		return errors.Wrap(err, "querying subject teachers")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func subjectStructure(ctx echo.Context, svc *report.Service, branchID null.Int64) error {
	rows, err := svc.SubjectStructure(ctx.Request().Context(), branchID)
	if err != nil {
		return errors.Wrap(err, "querying subject structure")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func gradeSummary(ctx echo.Context, svc *report.Service, branchID null.Int64) error {
	filter := assessment.GradeFilter{
		BranchID: branchID,
		Subject:  ctx.QueryParam("subject"),
		Chapter:  ctx.QueryParam("chapter"),
		Section:  ctx.QueryParam("section"),
	}
	rows, err := svc.GradeSummary(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "summarizing grades")
	}
	return ctx.JSON(http.StatusOK, rows)
}
