package user

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/schooldash/core"
)

var (
	roleTag  = "role"
	roleText = "invalid role"

	branchRequiredTag  = "branch_required"
	branchRequiredText = "a branch is required for this role"

	noBranchTag  = "no_branch"
	noBranchText = "a superadmin cannot belong to a branch"

	errSuperAdminBranch = errors.New(noBranchText)

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"

	errPasswordTooSimilar = core.FieldError{Field: "password", Error: pwdAttrSimText}
)

// register custom validators
func init() {
	_ = core.Validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(roleTag, roleText)

	core.Validate.RegisterStructValidation(newUserStructValidation, NewUser{})
	core.RegisterCustomTranslation(branchRequiredTag, branchRequiredText)
	core.RegisterCustomTranslation(noBranchTag, noBranchText)
	core.RegisterCustomTranslation(pwdAttrSimTag, pwdAttrSimText)
}

// Custom Validators

// roleValidation checks that the role is one of AllRoles
func roleValidation(fl validator.FieldLevel) bool {
	return IsValidRole(fl.Field().String())
}

// newUserStructValidation checks that branch-scoped roles reference a branch and superadmins do not.
func newUserStructValidation(sl validator.StructLevel) {
	nu, ok := sl.Current().Interface().(NewUser)
	if !ok {
		return
	}
	switch nu.Role {
	case RoleBranchAdmin, RoleTeacher:
		if !nu.BranchID.Valid {
			sl.ReportError(nu.BranchID, "branch_id", "BranchID", branchRequiredTag, "")
		}
	case RoleSuperAdmin:
		if nu.BranchID.Valid {
			sl.ReportError(nu.BranchID, "branch_id", "BranchID", noBranchTag, "")
		}
	}
	if passwordTooSimilar(nu.Password, nu.Name, nu.Email) {
		sl.ReportError(nu.Password, "password", "Password", pwdAttrSimTag, "")
	}
}

// passwordTooSimilar reports whether pwd is too close to any of the user attributes.
func passwordTooSimilar(pwd string, attrs ...string) bool {
	if pwd == "" {
		return false
	}
	pwdChars := strings.Split(strings.ToLower(pwd), "")
	for _, attr := range attrs {
		if attr == "" {
			continue
		}
		m := difflib.NewMatcher(pwdChars, strings.Split(strings.ToLower(attr), ""))
		if m.QuickRatio() >= pwdMaxSim {
			return true
		}
	}
	return false
}
