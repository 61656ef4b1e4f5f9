package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core/curriculum"
)

type EvaluationRequest struct {
	Evaluated bool `json:"evaluated" form:"evaluated"`
}

// Subjects

func (api *branchApi) querySubjects(ctx echo.Context) error {
	branchID, err := contextBranchID(ctx)
	if err != nil {
		return err
	}
	classID, err := queryID(ctx, "class_id")
	if err != nil {
		return err
	}
	filter := curriculum.SubjectFilter{BranchID: null.Int64From(branchID), ClassID: classID}
	subjects, err := api.curriculum.QuerySubjects(ctx.Request().Context(), filter, bindOrdering(ctx)...)
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *branchApi) createSubject(ctx echo.Context) error {
	branchID, err := contextBranchID(ctx)
	if err != nil {
		return err
	}
	var data curriculum.NewSubject
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if data.ClassID != 0 {
		if _, err = api.ownClass(ctx, data.ClassID); err != nil {
			return err
		}
	}
	data.BranchID = branchID
	s, err := api.curriculum.CreateSubject(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *branchApi) updateSubject(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownSubject(ctx, id); err != nil {
		return err
	}
	var data curriculum.UpdateSubject
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubject")
	}
	s, err := api.curriculum.UpdateSubject(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating subject")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *branchApi) destroySubject(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownSubject(ctx, id); err != nil {
		return err
	}
	if err = api.curriculum.DeleteSubject(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Chapters

func (api *branchApi) queryChapters(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownClass(ctx, id); err != nil {
		return err
	}
	chapters, err := api.curriculum.QueryChapters(ctx.Request().Context(), id, bindOrdering(ctx)...)
	if err != nil {
		return errors.Wrap(err, "querying chapters")
	}
	return ctx.JSON(http.StatusOK, chapters)
}

func (api *branchApi) createChapter(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownClass(ctx, id); err != nil {
		return err
	}
	var data curriculum.NewChapter
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewChapter")
	}
	data.ClassID = id
	c, err := api.curriculum.CreateChapter(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating chapter")
	}
	return ctx.JSON(http.StatusCreated, c)
}

// uploadChapters imports the multipart "file" CSV of chapters and topics into the class.
// Topics are also linked to ?subject_id when given.
func (api *branchApi) uploadChapters(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownClass(ctx, id); err != nil {
		return err
	}
	subjectID, err := queryID(ctx, "subject_id")
	if err != nil {
		return err
	}
	if subjectID.Valid {
		if _, err = api.ownSubject(ctx, subjectID.Int64); err != nil {
			return err
		}
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

	report, err := api.curriculum.ImportChaptersCSV(ctx.Request().Context(), id, subjectID, src)
	if err != nil {
		return errors.Wrap(err, "importing chapters")
	}
	api.metrics.bulkReport(bulkKindChapters, report)
	return ctx.JSON(http.StatusOK, report)
}

func (api *branchApi) updateChapter(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownChapter(ctx, id); err != nil {
		return err
	}
	var data curriculum.UpdateChapter
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateChapter")
	}
	c, err := api.curriculum.UpdateChapter(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating chapter")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *branchApi) destroyChapter(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownChapter(ctx, id); err != nil {
		return err
	}
	if err = api.curriculum.DeleteChapter(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting chapter")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Topics

func (api *branchApi) queryTopics(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownChapter(ctx, id); err != nil {
		return err
	}
	topics, err := api.curriculum.QueryTopicsByChapter(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying topics")
	}
	return ctx.JSON(http.StatusOK, topics)
}

func (api *branchApi) createTopic(ctx echo.Context) error {
	var data curriculum.NewTopic
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTopic")
	}
	if data.ChapterID.Valid {
		if _, err := api.ownChapter(ctx, data.ChapterID.Int64); err != nil {
			return err
		}
	}
	if data.SubjectID.Valid {
		if _, err := api.ownSubject(ctx, data.SubjectID.Int64); err != nil {
			return err
		}
	}
	t, err := api.curriculum.CreateTopic(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating topic")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *branchApi) updateTopic(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownTopic(ctx, id); err != nil {
		return err
	}
	var data curriculum.UpdateTopic
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTopic")
	}
	t, err := api.curriculum.UpdateTopic(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating topic")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *branchApi) destroyTopic(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownTopic(ctx, id); err != nil {
		return err
	}
	if err = api.curriculum.DeleteTopic(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting topic")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *branchApi) setTopicEvaluation(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownTopic(ctx, id); err != nil {
		return err
	}
	var data EvaluationRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EvaluationRequest")
	}
	eval, err := api.curriculum.SetEvaluated(ctx.Request().Context(), id, data.Evaluated)
	if err != nil {
		return errors.Wrap(err, "setting topic evaluation")
	}
	return ctx.JSON(http.StatusOK, eval)
}

func (api *branchApi) evaluationSummary(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.ownClass(ctx, id); err != nil {
		return err
	}
	rows, err := api.curriculum.EvaluationSummary(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "summarizing evaluations")
	}
	return ctx.JSON(http.StatusOK, rows)
}
