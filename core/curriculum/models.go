package curriculum

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
)

type Subject struct {
	ID          int64  `db:"subject_id" json:"id"`
	Name        string `db:"subject_name" json:"name"`
	Description string `db:"description" json:"description"`
	BranchID    int64  `db:"branch_id" json:"branch_id"`
	ClassID     int64  `db:"class_id" json:"class_id"`
}

type Chapter struct {
	ID          int64  `db:"chapter_id" json:"id"`
	ClassID     int64  `db:"class_id" json:"class_id"`
	Name        string `db:"chapter_name" json:"name"`
	Description string `db:"description" json:"description"`
}

type Topic struct {
	ID          int64  `db:"topic_id" json:"id"`
	Name        string `db:"topic_name" json:"name"`
	Description string `db:"description" json:"description"`
}

// TopicWithOutcome is a topic and its expected-outcome note, when one was recorded.
type TopicWithOutcome struct {
	Topic
	ExpectedOutcome null.String `db:"expected_outcome" json:"expected_outcome"`
}

// Association links a topic to a subject, a chapter or both.
type Association struct {
	TopicID   int64      `db:"topic_id" json:"topic_id"`
	SubjectID null.Int64 `db:"subject_id" json:"subject_id"`
	ChapterID null.Int64 `db:"chapter_id" json:"chapter_id"`
}

func (a Association) IsEmpty() bool {
	return !a.SubjectID.Valid && !a.ChapterID.Valid
}

type Evaluation struct {
	ID          int64 `db:"evaluation_id" json:"id"`
	TopicID     int64 `db:"topic_id" json:"topic_id"`
	IsEvaluated bool  `db:"is_evaluated" json:"is_evaluated"`
}

// ChapterEvaluation counts the topics of a chapter by evaluation status.
// Topics never evaluated count as not evaluated.
type ChapterEvaluation struct {
	ChapterID    int64  `db:"chapter_id" json:"chapter_id"`
	ChapterName  string `db:"chapter_name" json:"chapter_name"`
	Evaluated    int    `db:"evaluated" json:"yes"`
	NotEvaluated int    `db:"not_evaluated" json:"no"`
}

type SubjectFilter struct {
	BranchID null.Int64
	ClassID  null.Int64
}

type NewSubject struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description" validate:"max=500"`
	BranchID    int64  `json:"branch_id" validate:"required"`
	ClassID     int64  `json:"class_id" validate:"required"`
}

func (ns *NewSubject) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Description = core.CleanString(ns.Description)
	return core.Validate.Struct(ns)
}

// UpdateSubject renames a subject or changes its description; empty fields keep the original values.
type UpdateSubject struct {
	Name        string `json:"name" validate:"max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (us *UpdateSubject) Validate(orig Subject) error {
	if us.Name = core.CleanString(us.Name); us.Name == "" {
		us.Name = orig.Name
	}
	if us.Description = core.CleanString(us.Description); us.Description == "" {
		us.Description = orig.Description
	}
	return core.Validate.Struct(us)
}

type NewChapter struct {
	ClassID     int64  `json:"class_id" validate:"required"`
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (nc *NewChapter) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	return core.Validate.Struct(nc)
}

type UpdateChapter struct {
	Name        string `json:"name" validate:"max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (uc *UpdateChapter) Validate(orig Chapter) error {
	if uc.Name = core.CleanString(uc.Name); uc.Name == "" {
		uc.Name = orig.Name
	}
	if uc.Description = core.CleanString(uc.Description); uc.Description == "" {
		uc.Description = orig.Description
	}
	return core.Validate.Struct(uc)
}

// NewTopic creates a topic, optionally attached to a chapter and/or a subject, with an optional expected outcome.
type NewTopic struct {
	Name            string      `json:"name" validate:"required,notblank,max=100"`
	Description     string      `json:"description" validate:"max=500"`
	ExpectedOutcome null.String `json:"expected_outcome"`
	ChapterID       null.Int64  `json:"chapter_id"`
	SubjectID       null.Int64  `json:"subject_id"`
}

func (nt *NewTopic) Validate() error {
	nt.Name = core.CleanString(nt.Name)
	nt.Description = core.CleanString(nt.Description)
	if nt.ExpectedOutcome.Valid {
		nt.ExpectedOutcome.String = core.CleanString(nt.ExpectedOutcome.String)
	}
	return core.Validate.Struct(nt)
}

// UpdateTopic replaces the name, description and expected outcome of a topic.
type UpdateTopic struct {
	Name            string      `json:"name" validate:"required,notblank,max=100"`
	Description     string      `json:"description" validate:"max=500"`
	ExpectedOutcome null.String `json:"expected_outcome"`
}

func (up *UpdateTopic) Validate() error {
	up.Name = core.CleanString(up.Name)
	up.Description = core.CleanString(up.Description)
	if up.ExpectedOutcome.Valid {
		up.ExpectedOutcome.String = core.CleanString(up.ExpectedOutcome.String)
	}
	return core.Validate.Struct(up)
}

// ChapterRow is one row of a chapter/topic bulk upload.
type ChapterRow struct {
	Name        string
	Description string
	Topics      []string
}
