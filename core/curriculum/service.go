package curriculum

import (
	"context"
	"io"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
)

var errNoAssociation = core.FieldError{Field: "chapter_id", Error: "a topic must belong to a chapter or a subject"}

type (
	Repository interface {
		CreateSubject(ctx context.Context, s Subject) (Subject, error)
		QuerySubjects(ctx context.Context, filter SubjectFilter, ordering []core.DBOrdering) ([]Subject, error)
		GetSubject(ctx context.Context, id int64) (Subject, error)
		UpdateSubject(ctx context.Context, s Subject) (Subject, error)
		DeleteSubject(ctx context.Context, id int64) error

		CreateChapter(ctx context.Context, c Chapter) (Chapter, error)
		// CreateChapterWithTopics inserts the chapter, reuses or creates each named topic and associates it
		// to the chapter (and the subject when set), in one transaction.
		CreateChapterWithTopics(ctx context.Context, c Chapter, topics []string, subjectID null.Int64) (Chapter, error)
		QueryChapters(ctx context.Context, classID int64, ordering []core.DBOrdering) ([]Chapter, error)
		GetChapter(ctx context.Context, id int64) (Chapter, error)
		UpdateChapter(ctx context.Context, c Chapter) (Chapter, error)
		DeleteChapter(ctx context.Context, id int64) error

		// CreateTopic inserts the topic, its association and its outcome (when valid) in one transaction.
		CreateTopic(ctx context.Context, t Topic, assoc Association, outcome null.String) (TopicWithOutcome, error)
		QueryTopicsByChapter(ctx context.Context, chapterID int64) ([]TopicWithOutcome, error)
		GetTopic(ctx context.Context, id int64) (TopicWithOutcome, error)
		UpdateTopic(ctx context.Context, t TopicWithOutcome) (TopicWithOutcome, error)
		// DeleteTopic removes the topic outcomes, then its associations, then the topic, in one transaction.
		DeleteTopic(ctx context.Context, id int64) error
		Associate(ctx context.Context, assoc Association) error
		// TopicBranches lists the distinct branches of the chapters and subjects the topic is associated with.
		TopicBranches(ctx context.Context, topicID int64) ([]int64, error)

		SetEvaluated(ctx context.Context, topicID int64, evaluated bool) (Evaluation, error)
		EvaluationSummary(ctx context.Context, classID int64) ([]ChapterEvaluation, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Subjects

func (svc *Service) CreateSubject(ctx context.Context, ns NewSubject) (Subject, error) {
	if err := ns.Validate(); err != nil {
		return Subject{}, err
	}
	return svc.repo.CreateSubject(ctx, Subject{Name: ns.Name, Description: ns.Description, BranchID: ns.BranchID, ClassID: ns.ClassID})
}

func (svc *Service) QuerySubjects(ctx context.Context, filter SubjectFilter, ordering ...core.DBOrdering) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx, filter, ordering)
}

func (svc *Service) GetSubject(ctx context.Context, id int64) (Subject, error) {
	return svc.repo.GetSubject(ctx, id)
}

func (svc *Service) UpdateSubject(ctx context.Context, id int64, us UpdateSubject) (Subject, error) {
	orig, err := svc.repo.GetSubject(ctx, id)
	if err != nil {
		return Subject{}, err
	}
	if err = us.Validate(orig); err != nil {
		return Subject{}, err
	}
	orig.Name = us.Name
	orig.Description = us.Description
	return svc.repo.UpdateSubject(ctx, orig)
}

func (svc *Service) DeleteSubject(ctx context.Context, id int64) error {
	return svc.repo.DeleteSubject(ctx, id)
}

// Chapters

func (svc *Service) CreateChapter(ctx context.Context, nc NewChapter) (Chapter, error) {
	if err := nc.Validate(); err != nil {
		return Chapter{}, err
	}
	return svc.repo.CreateChapter(ctx, Chapter{ClassID: nc.ClassID, Name: nc.Name, Description: nc.Description})
}

func (svc *Service) QueryChapters(ctx context.Context, classID int64, ordering ...core.DBOrdering) ([]Chapter, error) {
	return svc.repo.QueryChapters(ctx, classID, ordering)
}

func (svc *Service) GetChapter(ctx context.Context, id int64) (Chapter, error) {
	return svc.repo.GetChapter(ctx, id)
}

func (svc *Service) FindChapter(ctx context.Context, id int64) (Chapter, bool, error) {
	c, err := svc.repo.GetChapter(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Chapter{}, false, nil
		}
		return Chapter{}, false, err
	}
	return c, true, nil
}

func (svc *Service) UpdateChapter(ctx context.Context, id int64, uc UpdateChapter) (Chapter, error) {
	orig, err := svc.repo.GetChapter(ctx, id)
	if err != nil {
		return Chapter{}, err
	}
	if err = uc.Validate(orig); err != nil {
		return Chapter{}, err
	}
	orig.Name = uc.Name
	orig.Description = uc.Description
	return svc.repo.UpdateChapter(ctx, orig)
}

func (svc *Service) DeleteChapter(ctx context.Context, id int64) error {
	return svc.repo.DeleteChapter(ctx, id)
}

// BulkCreateChapters inserts each row (a chapter and its topics) independently into the class.
// A failing row is recorded and the next one attempted; the error is non-nil only when the store became unavailable.
func (svc *Service) BulkCreateChapters(ctx context.Context, classID int64, subjectID null.Int64, rows []ChapterRow) (*core.BulkReport, error) {
	report := core.NewBulkReport()
	for i, row := range rows {
		nc := NewChapter{ClassID: classID, Name: row.Name, Description: row.Description}
		err := nc.Validate()
		if err == nil {
			_, err = svc.repo.CreateChapterWithTopics(ctx, Chapter{ClassID: nc.ClassID, Name: nc.Name, Description: nc.Description}, row.Topics, subjectID)
		}
		if err != nil {
			if core.IsStoreUnavailable(err) {
				return report, err
			}
			report.Fail(i+1, err)
			continue
		}
		report.Success()
	}
	return report, nil
}

// ImportChaptersCSV decodes a chapter/topic upload file and runs BulkCreateChapters on its rows.
func (svc *Service) ImportChaptersCSV(ctx context.Context, classID int64, subjectID null.Int64, r io.Reader) (*core.BulkReport, error) {
	rows, err := ReadChaptersCSV(r)
	if err != nil {
		return nil, core.NewValidationError(err, core.FieldError{Field: "file", Error: err.Error()})
	}
	return svc.BulkCreateChapters(ctx, classID, subjectID, rows)
}

// Topics

func (svc *Service) CreateTopic(ctx context.Context, nt NewTopic) (TopicWithOutcome, error) {
	if err := nt.Validate(); err != nil {
		return TopicWithOutcome{}, err
	}
	assoc := Association{ChapterID: nt.ChapterID, SubjectID: nt.SubjectID}
	if assoc.IsEmpty() {
		return TopicWithOutcome{}, core.NewValidationError(nil, errNoAssociation)
	}
	return svc.repo.CreateTopic(ctx, Topic{Name: nt.Name, Description: nt.Description}, assoc, nt.ExpectedOutcome)
}

func (svc *Service) QueryTopicsByChapter(ctx context.Context, chapterID int64) ([]TopicWithOutcome, error) {
	return svc.repo.QueryTopicsByChapter(ctx, chapterID)
}

func (svc *Service) GetTopic(ctx context.Context, id int64) (TopicWithOutcome, error) {
	return svc.repo.GetTopic(ctx, id)
}

func (svc *Service) FindTopic(ctx context.Context, id int64) (TopicWithOutcome, bool, error) {
	t, err := svc.repo.GetTopic(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return TopicWithOutcome{}, false, nil
		}
		return TopicWithOutcome{}, false, err
	}
	return t, true, nil
}

func (svc *Service) UpdateTopic(ctx context.Context, id int64, up UpdateTopic) (TopicWithOutcome, error) {
	if err := up.Validate(); err != nil {
		return TopicWithOutcome{}, err
	}
	t, err := svc.repo.GetTopic(ctx, id)
	if err != nil {
		return TopicWithOutcome{}, err
	}
	t.Name = up.Name
	t.Description = up.Description
	t.ExpectedOutcome = up.ExpectedOutcome
	return svc.repo.UpdateTopic(ctx, t)
}

func (svc *Service) DeleteTopic(ctx context.Context, id int64) error {
	return svc.repo.DeleteTopic(ctx, id)
}

func (svc *Service) Associate(ctx context.Context, assoc Association) error {
	if assoc.IsEmpty() {
		return core.NewValidationError(nil, errNoAssociation)
	}
	return svc.repo.Associate(ctx, assoc)
}

// TopicBranches returns the branches owning the topic through its chapter and subject associations.
func (svc *Service) TopicBranches(ctx context.Context, topicID int64) ([]int64, error) {
	return svc.repo.TopicBranches(ctx, topicID)
}

// Evaluations

func (svc *Service) SetEvaluated(ctx context.Context, topicID int64, evaluated bool) (Evaluation, error) {
	return svc.repo.SetEvaluated(ctx, topicID, evaluated)
}

func (svc *Service) EvaluationSummary(ctx context.Context, classID int64) ([]ChapterEvaluation, error) {
	return svc.repo.EvaluationSummary(ctx, classID)
}
