package echoapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core/class"
	"github.com/trezcool/schooldash/core/student"
)

// Classes

func (api *branchApi) queryClasses(ctx echo.Context) error {
	branchID, err := contextBranchID(ctx)
	if err != nil {
		return err
	}
	filter := class.QueryFilter{BranchID: null.Int64From(branchID)}
	if grade, err := queryID(ctx, "grade"); err != nil {
		return err
	} else if grade.Valid {
		filter.Grade = null.IntFrom(int(grade.Int64))
	}
	classes, err := api.classes.QueryClasses(ctx.Request().Context(), filter, bindOrdering(ctx)...)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *branchApi) createClass(ctx echo.Context) error {
	branchID, err := contextBranchID(ctx)
	if err != nil {
		return err
	}
	var data class.NewClass
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	data.BranchID = branchID
	c, err := api.classes.CreateClass(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *branchApi) updateClass(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownClass(ctx, id); err != nil {
		return err
	}
	var data class.UpdateClass
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}
	c, err := api.classes.UpdateClass(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *branchApi) destroyClass(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownClass(ctx, id); err != nil {
		return err
	}
	if err = api.classes.DeleteClass(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Sections

func (api *branchApi) querySections(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownClass(ctx, id); err != nil {
		return err
	}
	sections, err := api.classes.QuerySections(ctx.Request().Context(), id, bindOrdering(ctx)...)
	if err != nil {
		return errors.Wrap(err, "querying sections")
	}
	return ctx.JSON(http.StatusOK, sections)
}

func (api *branchApi) createSection(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownClass(ctx, id); err != nil {
		return err
	}
	var data class.NewSection
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSection")
	}
	data.ClassID = id
	s, err := api.classes.CreateSection(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating section")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *branchApi) updateSection(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownSection(ctx, id); err != nil {
		return err
	}
	var data class.UpdateSection
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSection")
	}
	s, err := api.classes.UpdateSection(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating section")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *branchApi) destroySection(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownSection(ctx, id); err != nil {
		return err
	}
	if err = api.classes.DeleteSection(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting section")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Students

func (api *branchApi) queryStudents(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownSection(ctx, id); err != nil {
		return err
	}
	students, err := api.students.QueryBySection(ctx.Request().Context(), id, bindOrdering(ctx)...)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *branchApi) createStudent(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownSection(ctx, id); err != nil {
		return err
	}
	var data student.NewStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	data.SectionID = id
	s, err := api.students.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

// uploadStudents imports the multipart "file" CSV into the section and returns the per-row report.
func (api *branchApi) uploadStudents(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownSection(ctx, id); err != nil {
		return err
	}
	fh, err := ctx.FormFile("file")
	if err != nil {
		return errNoFile
	}
	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer src.Close()

	report, err := api.students.ImportCSV(ctx.Request().Context(), id, src)
	if err != nil {
		return errors.Wrap(err, "importing students")
	}
	return ctx.JSON(http.StatusOK, report)
}

func (api *branchApi) exportStudents(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	sec, err := api.ownSection(ctx, id)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err = api.students.ExportCSV(ctx.Request().Context(), id, &buf); err != nil {
		return errors.Wrap(err, "exporting students")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="students_section_%d.csv"`, sec.ID))
	return ctx.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (api *branchApi) updateStudent(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	orig, err := api.ownStudent(ctx, id)
	if err != nil {
		return err
	}
	var data student.UpdateStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if data.SectionID == 0 {
		data.SectionID = orig.SectionID
	} else if _, err = api.ownSection(ctx, data.SectionID); err != nil {
		return err
	}
	s, err := api.students.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *branchApi) destroyStudent(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownStudent(ctx, id); err != nil {
		return err
	}
	if err = api.students.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}
