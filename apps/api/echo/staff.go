package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core/teacher"
)

func (api *branchApi) queryTeachers(ctx echo.Context) error {
	branchID, err := contextBranchID(ctx)
	if err != nil {
		return err
	}
	filter := teacher.QueryFilter{BranchID: null.Int64From(branchID), Subject: ctx.QueryParam("subject")}
	teachers, err := api.teachers.Query(ctx.Request().Context(), filter, bindOrdering(ctx)...)
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *branchApi) createTeacher(ctx echo.Context) error {
	branchID, err := contextBranchID(ctx)
	if err != nil {
		return err
	}
	var data teacher.NewTeacher
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	data.BranchID = branchID
	t, err := api.teachers.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *branchApi) updateTeacher(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownTeacher(ctx, id); err != nil {
		return err
	}
	var data teacher.UpdateTeacher
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	t, err := api.teachers.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *branchApi) destroyTeacher(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownTeacher(ctx, id); err != nil {
		return err
	}
	if err = api.teachers.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}
