package student

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
)

// Genders
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

type Student struct {
	ID          int64       `db:"student_id" json:"id"`
	SectionID   int64       `db:"section_id" json:"section_id"`
	Name        string      `db:"student_name" json:"name"`
	RollNumber  string      `db:"roll_number" json:"roll_number"`
	FatherName  string      `db:"father_name" json:"father_name"`
	MotherName  string      `db:"mother_name" json:"mother_name"`
	Gender      string      `db:"gender" json:"gender"`
	PhoneNumber string      `db:"phone_number" json:"phone_number"`
	DateOfBirth string      `db:"dob" json:"dob"`
	Address     string      `db:"address" json:"address"`
	Email       null.String `db:"email" json:"email"`
}

// NewStudent is the shape shared by the add-student form and every CSV row.
type NewStudent struct {
	SectionID   int64       `json:"section_id" validate:"required"`
	Name        string      `json:"name" validate:"required,notblank,max=100"`
	RollNumber  string      `json:"roll_number" validate:"required,notblank,max=30"`
	FatherName  string      `json:"father_name" validate:"max=100"`
	MotherName  string      `json:"mother_name" validate:"max=100"`
	Gender      string      `json:"gender" validate:"required,gender"`
	PhoneNumber string      `json:"phone_number" validate:"max=20"`
	DateOfBirth string      `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Address     string      `json:"address" validate:"max=255"`
	Email       null.String `json:"email"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.RollNumber = core.CleanString(ns.RollNumber)
	ns.FatherName = core.CleanString(ns.FatherName)
	ns.MotherName = core.CleanString(ns.MotherName)
	ns.Gender = normalizeGender(ns.Gender)
	ns.PhoneNumber = core.CleanString(ns.PhoneNumber)
	ns.DateOfBirth = core.CleanString(ns.DateOfBirth)
	ns.Address = core.CleanString(ns.Address)
	ns.Email = cleanEmail(ns.Email)
	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	return validateEmail(ns.Email)
}

func (ns NewStudent) student() Student {
	return Student{
		SectionID:   ns.SectionID,
		Name:        ns.Name,
		RollNumber:  ns.RollNumber,
		FatherName:  ns.FatherName,
		MotherName:  ns.MotherName,
		Gender:      ns.Gender,
		PhoneNumber: ns.PhoneNumber,
		DateOfBirth: ns.DateOfBirth,
		Address:     ns.Address,
		Email:       ns.Email,
	}
}

// UpdateStudent replaces every editable field of a student; the section may be changed too.
type UpdateStudent NewStudent

func (us *UpdateStudent) Validate() error {
	return (*NewStudent)(us).Validate()
}

type QueryFilter struct {
	SectionID null.Int64
	BranchID  null.Int64
	Search    string
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// normalizeGender title-cases known genders so "male" and "MALE" are accepted.
func normalizeGender(g string) string {
	switch core.CleanString(g, true /* lower */) {
	case "male", "m":
		return GenderMale
	case "female", "f":
		return GenderFemale
	case "other":
		return GenderOther
	default:
		return core.CleanString(g)
	}
}

func cleanEmail(email null.String) null.String {
	if !email.Valid {
		return email
	}
	e := core.CleanString(email.String, true /* lower */)
	return null.NewString(e, e != "")
}

func validateEmail(email null.String) error {
	if !email.Valid {
		return nil
	}
	if err := core.Validate.Var(email.String, "email"); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "email", Error: "must be a valid email address"})
	}
	return nil
}
