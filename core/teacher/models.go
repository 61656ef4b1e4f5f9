package teacher

import (
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
)

// ClassSeparator joins the class names of a teacher in the classes column.
const ClassSeparator = ","

type Teacher struct {
	ID       int64  `db:"teacher_id" json:"id"`
	Name     string `db:"teacher_name" json:"name"`
	BranchID int64  `db:"branch_id" json:"branch_id"`
	Email    string `db:"email" json:"email"`
	Subject  string `db:"subject" json:"subject"`
	Classes  string `db:"classes" json:"classes"`
}

func (t Teacher) ClassList() []string {
	return core.SplitList(t.Classes, ClassSeparator)
}

func JoinClasses(classes []string) string {
	return strings.Join(core.SplitList(strings.Join(classes, ClassSeparator), ClassSeparator), ClassSeparator)
}

type NewTeacher struct {
	Name     string   `json:"name" validate:"required,notblank,max=100"`
	Email    string   `json:"email" validate:"required,email"`
	Subject  string   `json:"subject" validate:"max=100"`
	Classes  []string `json:"classes"`
	BranchID int64    `json:"branch_id" validate:"required"`
}

func (nt *NewTeacher) Validate() error {
	nt.Name = core.CleanString(nt.Name)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.Subject = core.CleanString(nt.Subject)
	return core.Validate.Struct(nt)
}

// UpdateTeacher keeps the original values of empty fields; a nil Classes keeps the original classes.
type UpdateTeacher struct {
	Name    string   `json:"name" validate:"max=100"`
	Email   string   `json:"email" validate:"omitempty,email"`
	Subject string   `json:"subject" validate:"max=100"`
	Classes []string `json:"classes"`
}

func (ut *UpdateTeacher) Validate(orig Teacher) error {
	if ut.Name = core.CleanString(ut.Name); ut.Name == "" {
		ut.Name = orig.Name
	}
	if ut.Email = core.CleanString(ut.Email, true /* lower */); ut.Email == "" {
		ut.Email = orig.Email
	}
	if ut.Subject = core.CleanString(ut.Subject); ut.Subject == "" {
		ut.Subject = orig.Subject
	}
	if ut.Classes == nil {
		ut.Classes = orig.ClassList()
	}
	return core.Validate.Struct(ut)
}

type QueryFilter struct {
	BranchID null.Int64
	Subject  string
}
