package sqlxrepos

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/class"
	"github.com/trezcool/schooldash/core/curriculum"
	"github.com/trezcool/schooldash/testutil"
)

type curriculumFixture struct {
	db      core.DB
	svc     *curriculum.Service
	cls     class.Class
	subject curriculum.Subject
}

func newCurriculumFixture(t *testing.T) curriculumFixture {
	db := testutil.PrepareDB(t)
	b := testutil.CreateBranch(t, NewBranchRepository(db), "Central", "Mathematics")
	cls := testutil.CreateClass(t, NewClassRepository(db), b.ID, 6, "6")
	svc := curriculum.NewService(NewCurriculumRepository(db))
	subject, err := svc.CreateSubject(context.Background(), curriculum.NewSubject{Name: "Mathematics", BranchID: b.ID, ClassID: cls.ID})
	require.NoError(t, err)
	return curriculumFixture{db: db, svc: svc, cls: cls, subject: subject}
}

func countRows(t *testing.T, db core.DB, query string, args ...interface{}) int {
	t.Helper()
	var n int
	err := db.Conn(context.Background(), func(exec core.DBExecutor) error {
		return exec.GetContext(context.Background(), &n, query, args...)
	})
	require.NoError(t, err)
	return n
}

func TestCurriculumRepository_Subjects(t *testing.T) {
	f := newCurriculumFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateSubject(ctx, curriculum.NewSubject{Name: "Mathematics", BranchID: f.subject.BranchID, ClassID: f.cls.ID})
	_, ok := core.IsConstraintViolation(err)
	assert.True(t, ok, "expected a constraint violation, got %v", err)

	s, err := f.svc.UpdateSubject(ctx, f.subject.ID, curriculum.UpdateSubject{Description: "Numbers"})
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", s.Name)
	assert.Equal(t, "Numbers", s.Description)

	subjects, err := f.svc.QuerySubjects(ctx, curriculum.SubjectFilter{ClassID: null.Int64From(f.cls.ID)})
	require.NoError(t, err)
	assert.Equal(t, []curriculum.Subject{s}, subjects)

	require.NoError(t, f.svc.DeleteSubject(ctx, s.ID))
	assert.ErrorIs(t, f.svc.DeleteSubject(ctx, s.ID), core.ErrNotFound)
}

func TestCurriculumRepository_Topics(t *testing.T) {
	f := newCurriculumFixture(t)
	ctx := context.Background()

	chapter, err := f.svc.CreateChapter(ctx, curriculum.NewChapter{ClassID: f.cls.ID, Name: "Fractions"})
	require.NoError(t, err)

	t.Run("requires an association", func(t *testing.T) {
		_, err := f.svc.CreateTopic(ctx, curriculum.NewTopic{Name: "Loose"})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "chapter_id", vErr.Fields[0].Field)
	})

	topic, err := f.svc.CreateTopic(ctx, curriculum.NewTopic{
		Name:            "Halves",
		ExpectedOutcome: null.StringFrom(" Can split in two "),
		ChapterID:       null.Int64From(chapter.ID),
		SubjectID:       null.Int64From(f.subject.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, null.StringFrom("Can split in two"), topic.ExpectedOutcome)

	t.Run("query by chapter", func(t *testing.T) {
		topics, err := f.svc.QueryTopicsByChapter(ctx, chapter.ID)
		require.NoError(t, err)
		assert.Equal(t, []curriculum.TopicWithOutcome{topic}, topics)
	})

	t.Run("associate twice", func(t *testing.T) {
		assoc := curriculum.Association{TopicID: topic.ID, ChapterID: null.Int64From(chapter.ID), SubjectID: null.Int64From(f.subject.ID)}
		require.NoError(t, f.svc.Associate(ctx, assoc))
		assert.Equal(t, 1, countRows(t, f.db, `SELECT COUNT(*) FROM topic_association WHERE topic_id = ?`, topic.ID))

		err := f.svc.Associate(ctx, curriculum.Association{TopicID: topic.ID})
		var vErr *core.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("update outcome", func(t *testing.T) {
		got, err := f.svc.UpdateTopic(ctx, topic.ID, curriculum.UpdateTopic{Name: "Halves", Description: "1/2", ExpectedOutcome: null.StringFrom("Can halve")})
		require.NoError(t, err)
		assert.Equal(t, null.StringFrom("Can halve"), got.ExpectedOutcome)

		got, err = f.svc.UpdateTopic(ctx, topic.ID, curriculum.UpdateTopic{Name: "Halves"})
		require.NoError(t, err)
		assert.False(t, got.ExpectedOutcome.Valid)
		stored, err := f.svc.GetTopic(ctx, topic.ID)
		require.NoError(t, err)
		assert.Equal(t, got, stored)
	})

	t.Run("delete", func(t *testing.T) {
		doomed, err := f.svc.CreateTopic(ctx, curriculum.NewTopic{
			Name:            "Quarters",
			ExpectedOutcome: null.StringFrom("Can split in four"),
			ChapterID:       null.Int64From(chapter.ID),
		})
		require.NoError(t, err)
		_, err = f.svc.SetEvaluated(ctx, doomed.ID, true)
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteTopic(ctx, doomed.ID))
		_, found, err := f.svc.FindTopic(ctx, doomed.ID)
		require.NoError(t, err)
		assert.False(t, found)
		for _, table := range []string{"topic_outcome", "topic_association", "evaluation"} {
			assert.Zero(t, countRows(t, f.db, `SELECT COUNT(*) FROM `+table+` WHERE topic_id = ?`, doomed.ID), table)
		}
		assert.ErrorIs(t, f.svc.DeleteTopic(ctx, doomed.ID), core.ErrNotFound)

		// the sibling topic is untouched
		_, err = f.svc.GetTopic(ctx, topic.ID)
		assert.NoError(t, err)
	})

	t.Run("branches", func(t *testing.T) {
		branches, err := f.svc.TopicBranches(ctx, topic.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{f.subject.BranchID}, branches)

		other := testutil.CreateBranch(t, NewBranchRepository(f.db), "Outskirts")
		ocls := testutil.CreateClass(t, NewClassRepository(f.db), other.ID, 6, "6")
		osubject, err := f.svc.CreateSubject(ctx, curriculum.NewSubject{Name: "Mathematics", BranchID: other.ID, ClassID: ocls.ID})
		require.NoError(t, err)
		shared, err := f.svc.CreateTopic(ctx, curriculum.NewTopic{Name: "Thirds", ChapterID: null.Int64From(chapter.ID)})
		require.NoError(t, err)
		require.NoError(t, f.svc.Associate(ctx, curriculum.Association{TopicID: shared.ID, SubjectID: null.Int64From(osubject.ID)}))

		branches, err = f.svc.TopicBranches(ctx, shared.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{f.subject.BranchID, other.ID}, branches)

		branches, err = f.svc.TopicBranches(ctx, 999)
		require.NoError(t, err)
		assert.Empty(t, branches)
	})
}

func TestCurriculumService_BulkCreateChapters(t *testing.T) {
	f := newCurriculumFixture(t)
	ctx := context.Background()

	upload := strings.Join([]string{
		"Chapter_Name,Description,Topics",
		"Geometry,Shapes,Angles; Triangles ;",
		"Algebra,,Equations;Angles",
		",orphan,Nothing",
		"Geometry,again,Circles",
	}, "\n")
	report, err := f.svc.ImportChaptersCSV(ctx, f.cls.ID, null.Int64From(f.subject.ID), strings.NewReader(upload))
	require.NoError(t, err)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Succeeded)
	var failed []int
	for _, rErr := range report.Failures {
		failed = append(failed, rErr.Row)
	}
	assert.Equal(t, []int{3, 4}, failed)

	chapters, err := f.svc.QueryChapters(ctx, f.cls.ID, core.DBOrdering{Field: "name", Ascending: true})
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "Algebra", chapters[0].Name)
	assert.Equal(t, "Geometry", chapters[1].Name)

	// "Angles" is shared by both chapters but stored once
	assert.Equal(t, 1, countRows(t, f.db, `SELECT COUNT(*) FROM topic WHERE topic_name = 'Angles'`))
	assert.Zero(t, countRows(t, f.db, `SELECT COUNT(*) FROM topic WHERE topic_name = 'Circles'`))

	geometry, err := f.svc.QueryTopicsByChapter(ctx, chapters[1].ID)
	require.NoError(t, err)
	var names []string
	for _, tp := range geometry {
		names = append(names, tp.Name)
	}
	assert.ElementsMatch(t, []string{"Angles", "Triangles"}, names)
}

func TestCurriculumRepository_EvaluationSummary(t *testing.T) {
	f := newCurriculumFixture(t)
	ctx := context.Background()

	_, err := f.svc.BulkCreateChapters(ctx, f.cls.ID, null.Int64{}, []curriculum.ChapterRow{
		{Name: "Numbers", Topics: []string{"Counting", "Place value", "Rounding"}},
		{Name: "Shapes", Topics: []string{"Squares"}},
		{Name: "Empty"},
	})
	require.NoError(t, err)
	chapters, err := f.svc.QueryChapters(ctx, f.cls.ID, core.DBOrdering{Field: "id", Ascending: true})
	require.NoError(t, err)
	require.Len(t, chapters, 3)

	numbers, err := f.svc.QueryTopicsByChapter(ctx, chapters[0].ID)
	require.NoError(t, err)
	require.Len(t, numbers, 3)

	ev, err := f.svc.SetEvaluated(ctx, numbers[0].ID, true)
	require.NoError(t, err)
	assert.True(t, ev.IsEvaluated)
	_, err = f.svc.SetEvaluated(ctx, numbers[1].ID, true)
	require.NoError(t, err)
	again, err := f.svc.SetEvaluated(ctx, numbers[1].ID, false)
	require.NoError(t, err)
	_, err = f.svc.SetEvaluated(ctx, numbers[1].ID, true)
	require.NoError(t, err)
	final, err := f.svc.SetEvaluated(ctx, numbers[1].ID, false)
	require.NoError(t, err)
	assert.Equal(t, again.ID, final.ID)
	assert.Equal(t, 1, countRows(t, f.db, `SELECT COUNT(*) FROM evaluation WHERE topic_id = ?`, numbers[1].ID))

	summary, err := f.svc.EvaluationSummary(ctx, f.cls.ID)
	require.NoError(t, err)
	assert.Equal(t, []curriculum.ChapterEvaluation{
		{ChapterID: chapters[0].ID, ChapterName: "Numbers", Evaluated: 1, NotEvaluated: 2},
		{ChapterID: chapters[1].ID, ChapterName: "Shapes", Evaluated: 0, NotEvaluated: 1},
		{ChapterID: chapters[2].ID, ChapterName: "Empty", Evaluated: 0, NotEvaluated: 0},
	}, summary)
}
