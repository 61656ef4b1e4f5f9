package class

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
)

type Class struct {
	ID       int64  `db:"class_id" json:"id"`
	Grade    int    `db:"grade" json:"grade"`
	Name     string `db:"class_name" json:"name"`
	BranchID int64  `db:"branch_id" json:"branch_id"`
}

type Section struct {
	ID      int64  `db:"section_id" json:"id"`
	ClassID int64  `db:"class_id" json:"class_id"`
	Name    string `db:"section_name" json:"name"`
}

type NewClass struct {
	Grade    int    `json:"grade" validate:"min=1,max=12"`
	Name     string `json:"name" validate:"max=100"`
	BranchID int64  `json:"branch_id" validate:"required"`
}

func (nc *NewClass) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	return core.Validate.Struct(nc)
}

// UpdateClass keeps the original grade when Grade is null and the original name when Name is empty.
type UpdateClass struct {
	Grade null.Int `json:"grade"`
	Name  string   `json:"name" validate:"max=100"`
}

func (uc *UpdateClass) Validate(orig Class) error {
	if uc.Name = core.CleanString(uc.Name); uc.Name == "" {
		uc.Name = orig.Name
	}
	if !uc.Grade.Valid {
		uc.Grade = null.IntFrom(orig.Grade)
	}
	if err := core.Validate.Var(uc.Grade.Int, "min=1,max=12"); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "grade", Error: "grade must be between 1 and 12"})
	}
	return core.Validate.Struct(uc)
}

type QueryFilter struct {
	BranchID null.Int64
	Grade    null.Int
}

type NewSection struct {
	ClassID int64  `json:"class_id" validate:"required"`
	Name    string `json:"name" validate:"required,notblank,max=50"`
}

func (ns *NewSection) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	return core.Validate.Struct(ns)
}

type UpdateSection struct {
	Name string `json:"name" validate:"required,notblank,max=50"`
}

func (us *UpdateSection) Validate() error {
	us.Name = core.CleanString(us.Name)
	return core.Validate.Struct(us)
}
