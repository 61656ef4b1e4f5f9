package assessment

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
)

// Score is one recorded result per subject area; scores are appended, never updated.
type Score struct {
	ID        int64   `db:"score_id" json:"id"`
	StudentID int64   `db:"student_id" json:"student_id"`
	SubjectID int64   `db:"subject_id" json:"subject_id"`
	Math      float64 `db:"math" json:"math"`
	Science   float64 `db:"science" json:"science"`
}

// Grade is one teacher-entered chapter grade; the grades table is an append-only history.
// The student's name and branch are copied at insert: StudentID turns null once the student is deleted
// while the grade stays in its branch's history.
type Grade struct {
	ID          int64      `db:"grade_id" json:"id"`
	StudentID   null.Int64 `db:"student_id" json:"student_id"`
	StudentName string     `db:"student_name" json:"student_name"`
	BranchID    int64      `db:"branch_id" json:"branch_id"`
	Subject     string     `db:"subject" json:"subject"`
	Chapter     string     `db:"chapter" json:"chapter"`
	Section     string     `db:"section" json:"section"`
	Grade       int        `db:"grade" json:"grade"`
}

type NewScore struct {
	StudentID int64   `json:"student_id" validate:"required"`
	SubjectID int64   `json:"subject_id" validate:"required"`
	Math      float64 `json:"math" validate:"min=0,max=100"`
	Science   float64 `json:"science" validate:"min=0,max=100"`
}

func (ns *NewScore) Validate() error {
	return core.Validate.Struct(ns)
}

type NewGrade struct {
	StudentID int64  `json:"student_id" validate:"required"`
	Subject   string `json:"subject" validate:"required,notblank,max=100"`
	Chapter   string `json:"chapter" validate:"required,notblank,max=100"`
	Section   string `json:"section" validate:"required,notblank,max=50"`
	Grade     int    `json:"grade" validate:"min=0,max=100"`
}

func (ng *NewGrade) Validate() error {
	ng.Subject = core.CleanString(ng.Subject)
	ng.Chapter = core.CleanString(ng.Chapter)
	ng.Section = core.CleanString(ng.Section)
	return core.Validate.Struct(ng)
}

// GradeFilter applies AND on its set fields.
type GradeFilter struct {
	StudentID null.Int64
	BranchID  null.Int64
	Subject   string
	Chapter   string
	Section   string
}

func (gf *GradeFilter) Clean() {
	gf.Subject = core.CleanString(gf.Subject)
	gf.Chapter = core.CleanString(gf.Chapter)
	gf.Section = core.CleanString(gf.Section)
}
