package user

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
)

// Roles
const (
	RoleSuperAdmin  = "superadmin"
	RoleBranchAdmin = "branchadmin"
	RoleTeacher     = "teacher"
)

var AllRoles = []string{RoleSuperAdmin, RoleBranchAdmin, RoleTeacher}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User is a login of the dashboard. BranchID is null only for superadmins.
// Password is kept and compared as plain text, as the store always did; it must be hashed before going to production.
type User struct {
	ID       int64      `db:"user_id" json:"id"`
	Name     string     `db:"name" json:"name"`
	Email    string     `db:"email" json:"email"`
	Password string     `db:"password" json:"-"`
	Grade    null.Int   `db:"grade" json:"grade"`
	Role     string     `db:"role" json:"role"`
	BranchID null.Int64 `db:"branch_id" json:"branch_id"`
}

func (u User) Identity() Identity {
	return Identity{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, BranchID: u.BranchID}
}

func (u User) IsSuperAdmin() bool  { return u.Role == RoleSuperAdmin }
func (u User) IsBranchAdmin() bool { return u.Role == RoleBranchAdmin }
func (u User) IsTeacher() bool     { return u.Role == RoleTeacher }

// Identity is what a successful credential check yields.
type Identity struct {
	UserID   int64      `db:"user_id" json:"id"`
	Name     string     `db:"name" json:"name"`
	Email    string     `db:"email" json:"email"`
	Role     string     `db:"role" json:"role"`
	BranchID null.Int64 `db:"branch_id" json:"branch_id"`
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name     string     `json:"name" validate:"required,notblank,max=100"`
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required"`
	Role     string     `json:"role" validate:"required,role"`
	BranchID null.Int64 `json:"branch_id"`
	Grade    null.Int   `json:"grade"`
}

func (nu *NewUser) Validate() error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	return core.Validate.Struct(nu)
}

// UpdateUser defines what information may be provided to modify an existing User.
// Empty strings leave the original values untouched.
type UpdateUser struct {
	Name     string     `json:"name" validate:"omitempty,max=100"`
	Email    string     `json:"email" validate:"omitempty,email"`
	Password string     `json:"password"`
	Grade    null.Int   `json:"grade"`
	BranchID null.Int64 `json:"branch_id"`
}

func (uu *UpdateUser) Validate(orig User) error {
	if name := core.CleanString(uu.Name); name != "" {
		uu.Name = name
	} else {
		uu.Name = orig.Name
	}
	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = orig.Email
	}
	if !uu.BranchID.Valid {
		uu.BranchID = orig.BranchID
	}
	if !uu.Grade.Valid {
		uu.Grade = orig.Grade
	}
	if err := core.Validate.Struct(uu); err != nil {
		return err
	}
	if orig.IsSuperAdmin() && uu.BranchID.Valid {
		return core.NewValidationError(errSuperAdminBranch, core.FieldError{Field: "branch_id", Error: errSuperAdminBranch.Error()})
	}
	if passwordTooSimilar(uu.Password, uu.Name, uu.Email) {
		return core.NewValidationError(nil, errPasswordTooSimilar)
	}
	return nil
}

type QueryFilter struct {
	BranchID null.Int64
	Role     string
	Search   string
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Role = core.CleanString(qf.Role, true /* lower */)
}
