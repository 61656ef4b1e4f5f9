package branch

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
)

// DefaultSubjects are offered when a branch is created without an explicit list.
var DefaultSubjects = []string{"Mathematics", "Science", "English", "History", "Geography", "Computer Science"}

type Branch struct {
	ID            int64  `db:"branch_id" json:"id"`
	Name          string `db:"branch_name" json:"name"`
	Location      string `db:"location" json:"location"`
	ContactNumber string `db:"contact_number" json:"contact_number"`
}

// WithAdmin is a branch row joined to one of its branchadmin users, if any.
// A branch with several admins appears once per admin.
type WithAdmin struct {
	Branch
	AdminID    null.Int64  `db:"admin_id" json:"admin_id"`
	AdminName  null.String `db:"admin_name" json:"admin_name"`
	AdminEmail null.String `db:"admin_email" json:"admin_email"`
}

type NewBranch struct {
	Name          string   `json:"name" validate:"required,notblank,max=100"`
	Location      string   `json:"location" validate:"max=100"`
	ContactNumber string   `json:"contact_number" validate:"max=15"`
	Subjects      []string `json:"subjects" validate:"dive,notblank,max=100"`
}

func (nb *NewBranch) Validate() error {
	nb.Name = core.CleanString(nb.Name)
	nb.Location = core.CleanString(nb.Location)
	nb.ContactNumber = core.CleanString(nb.ContactNumber)
	nb.Subjects = cleanSubjects(nb.Subjects)
	return core.Validate.Struct(nb)
}

// UpdateBranch keeps the original value of every empty field.
type UpdateBranch struct {
	Name          string `json:"name" validate:"omitempty,max=100"`
	Location      string `json:"location" validate:"omitempty,max=100"`
	ContactNumber string `json:"contact_number" validate:"omitempty,max=15"`
}

func (ub *UpdateBranch) Validate(orig Branch) error {
	if ub.Name = core.CleanString(ub.Name); ub.Name == "" {
		ub.Name = orig.Name
	}
	if ub.Location = core.CleanString(ub.Location); ub.Location == "" {
		ub.Location = orig.Location
	}
	if ub.ContactNumber = core.CleanString(ub.ContactNumber); ub.ContactNumber == "" {
		ub.ContactNumber = orig.ContactNumber
	}
	return core.Validate.Struct(ub)
}

// cleanSubjects trims subject names and drops blanks and duplicates, keeping the first occurrence.
func cleanSubjects(subjects []string) []string {
	seen := make(map[string]bool, len(subjects))
	cleaned := make([]string, 0, len(subjects))
	for _, s := range subjects {
		s = core.CleanString(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		cleaned = append(cleaned, s)
	}
	return cleaned
}
