package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core/user"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		role string
		page string
	}{
		{user.RoleSuperAdmin, PageSuperadminDashboard},
		{user.RoleBranchAdmin, PageBranchadminDashboard},
		{user.RoleTeacher, PageTeacherDashboard},
	}
	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			sess := Login(user.Identity{UserID: 3, Role: tc.role, BranchID: null.Int64From(1)})
			assert.Equal(t, tc.role, sess.Role)
			assert.Equal(t, tc.page, sess.Page)
			assert.Equal(t, int64(3), sess.UserID)
			assert.True(t, sess.IsAuthenticated())
		})
	}
}

func TestRequire(t *testing.T) {
	teacher := Login(user.Identity{UserID: 7, Role: user.RoleTeacher, BranchID: null.Int64From(2)})

	t.Run("matching role keeps session", func(t *testing.T) {
		sess, err := Require(teacher, user.RoleTeacher)
		assert.NoError(t, err)
		assert.Equal(t, teacher, sess)
	})

	t.Run("other role clears session", func(t *testing.T) {
		sess, err := Require(teacher, user.RoleSuperAdmin)
		assert.ErrorIs(t, err, ErrRoleMismatch)
		assert.Equal(t, Session{}, sess)
		assert.False(t, sess.IsAuthenticated())
	})

	t.Run("anonymous session", func(t *testing.T) {
		sess, err := Require(Session{}, user.RoleTeacher)
		assert.ErrorIs(t, err, ErrRoleMismatch)
		assert.Equal(t, Session{}, sess)
	})
}

func TestNavigate(t *testing.T) {
	sess := Navigate(Login(user.Identity{Role: user.RoleBranchAdmin}), "Students")
	assert.Equal(t, "Students", sess.Page)
	assert.Equal(t, user.RoleBranchAdmin, sess.Role)

	assert.Equal(t, Logout(), Navigate(Session{}, "Students"))
}

func TestLogout(t *testing.T) {
	assert.Equal(t, Session{}, Logout())
	assert.False(t, Logout().IsAuthenticated())
}
