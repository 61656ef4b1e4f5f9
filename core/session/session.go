// Package session holds the per-user navigation state of the dashboard: the authenticated role and the current page.
// The transitions here are the only writers of that state.
package session

import (
	"errors"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core/user"
)

// Pages
const (
	PageLogin                = "Login"
	PageSuperadminDashboard  = "SuperadminDashboard"
	PageBranchadminDashboard = "BranchadminDashboard"
	PageTeacherDashboard     = "TeacherDashboard"
)

var ErrRoleMismatch = errors.New("session role does not match the requested view")

// Session is an explicit value passed through every view-layer call.
// An empty Role means nobody is logged in.
type Session struct {
	Role     string     `json:"role"`
	Page     string     `json:"page"`
	UserID   int64      `json:"uid,omitempty"`
	BranchID null.Int64 `json:"branch_id"`
}

func (s Session) IsAuthenticated() bool {
	return s.Role != ""
}

// DashboardFor returns the landing page of a role, or PageLogin for unknown roles.
func DashboardFor(role string) string {
	switch role {
	case user.RoleSuperAdmin:
		return PageSuperadminDashboard
	case user.RoleBranchAdmin:
		return PageBranchadminDashboard
	case user.RoleTeacher:
		return PageTeacherDashboard
	default:
		return PageLogin
	}
}

// Login starts a session for a verified identity.
func Login(ident user.Identity) Session {
	return Session{
		Role:     ident.Role,
		Page:     DashboardFor(ident.Role),
		UserID:   ident.UserID,
		BranchID: ident.BranchID,
	}
}

// Require is called on every render of a role-specific view.
// When the session's role matches it is returned unchanged; otherwise the cleared session is returned with ErrRoleMismatch
// and the caller sends the user to PageLogin.
func Require(sess Session, role string) (Session, error) {
	if !sess.IsAuthenticated() || sess.Role != role {
		return Logout(), ErrRoleMismatch
	}
	return sess, nil
}

// Navigate moves an authenticated session to another page.
func Navigate(sess Session, page string) Session {
	if !sess.IsAuthenticated() {
		return Logout()
	}
	sess.Page = page
	return sess
}

// Logout clears all session state unconditionally.
func Logout() Session {
	return Session{}
}
