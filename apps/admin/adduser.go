package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/user"
)

var errRoleChange = errors.New("the role of an existing user cannot be changed")

// addUser creates a user, or updates the name, password and branch of the user owning the email.
func (cli *commandLine) addUser(name, email, pwd, role string, branchID int64) error {
	ctx := context.Background()
	role = core.CleanString(role, true /* lower */)
	var branch null.Int64
	if branchID > 0 {
		branch = null.Int64From(branchID)
	}

	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	if err != nil {
		if !core.IsNotFound(err) {
			return err
		}
		_, err = cli.usrSvc.Create(ctx, user.NewUser{
			Name:     name,
			Email:    email,
			Password: pwd,
			Role:     role,
			BranchID: branch,
		})
		return err
	}

	if usr.Role != role {
		return errRoleChange
	}
	_, err = cli.usrSvc.Update(ctx, usr.ID, user.UpdateUser{Name: name, Password: pwd, BranchID: branch})
	return err
}
