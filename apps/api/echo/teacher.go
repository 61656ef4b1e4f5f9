package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core/class"
	"github.com/trezcool/schooldash/core/curriculum"
)

type teacherApi struct {
	*branchApi
}

func registerTeacherAPI(g *echo.Group, opts *Options, m *metrics) {
	api := teacherApi{branchApi: newBranchApi(opts, m)}

	g.GET("/dashboard", api.dashboard)

	g.GET("/classes", api.queryClasses)
	g.GET("/classes/:id/sections", api.querySections)
	g.GET("/classes/:id/chapters", api.queryChapters)
	g.GET("/classes/:id/evaluation", api.evaluationSummary)
	g.GET("/sections/:id/students", api.queryStudents)

	g.GET("/chapters/:id/topics", api.queryTopics)
	g.POST("/topics", api.createTopic)
	g.PUT("/topics/:id", api.updateTopic)
	g.DELETE("/topics/:id", api.destroyTopic)
	g.PUT("/topics/:id/evaluation", api.setTopicEvaluation)

	g.GET("/grades", api.queryGrades)
	g.POST("/grades", api.recordGrade)
	g.DELETE("/grades", api.destroyGrades)

	g.POST("/scores", api.recordScore)
	g.GET("/students/:id/scores", api.studentScores)
}

// dashboard lists the teacher's branch classes and subjects.
func (api *teacherApi) dashboard(ctx echo.Context) error {
	branchID, err := contextBranchID(ctx)
	if err != nil {
		return err
	}
	rctx := ctx.Request().Context()
	bid := null.Int64From(branchID)
	classes, err := api.classes.QueryClasses(rctx, class.QueryFilter{BranchID: bid})
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	subjects, err := api.curriculum.QuerySubjects(rctx, curriculum.SubjectFilter{BranchID: bid})
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"classes": classes, "subjects": subjects})
}
