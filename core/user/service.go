package user

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUser(ctx context.Context, id int64) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		QueryUsers(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		SetPassword(ctx context.Context, id int64, pwd string) error
		DeleteUsersByID(ctx context.Context, ids ...int64) (int, error)
		// FindIdentity matches email and password exactly; core.ErrNotFound when nothing matches.
		FindIdentity(ctx context.Context, email, password string) (Identity, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(); err != nil {
		return User{}, err
	}
	usr := User{
		Name:     nu.Name,
		Email:    nu.Email,
		Password: nu.Password,
		Grade:    nu.Grade,
		Role:     nu.Role,
		BranchID: nu.BranchID,
	}
	return svc.repo.CreateUser(ctx, usr)
}

// CreateBranchAdmin creates a branchadmin login for the given branch.
func (svc *Service) CreateBranchAdmin(ctx context.Context, name, email, pwd string, branchID int64) (User, error) {
	return svc.Create(ctx, NewUser{
		Name:     name,
		Email:    email,
		Password: pwd,
		Role:     RoleBranchAdmin,
		BranchID: null.Int64From(branchID),
	})
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]User, error) {
	filter.Clean()
	return svc.repo.QueryUsers(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id int64) (User, error) {
	return svc.repo.GetUser(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

// Find is GetByID for callers rendering an empty state: a missing user is not an error.
func (svc *Service) Find(ctx context.Context, id int64) (User, bool, error) {
	usr, err := svc.repo.GetUser(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return User{}, false, nil
		}
		return User{}, false, err
	}
	return usr, true, nil
}

func (svc *Service) Update(ctx context.Context, id int64, uu UpdateUser) (User, error) {
	orig, err := svc.repo.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}
	if err = uu.Validate(orig); err != nil {
		return User{}, err
	}
	usr := orig
	usr.Name = uu.Name
	usr.Email = uu.Email
	usr.Grade = uu.Grade
	usr.BranchID = uu.BranchID
	if uu.Password != "" {
		usr.Password = uu.Password
	}
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) ResetPassword(ctx context.Context, email, pwd string) error {
	if pwd == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "password", Error: "this field is required"})
	}
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if passwordTooSimilar(pwd, usr.Name, usr.Email) {
		return core.NewValidationError(nil, errPasswordTooSimilar)
	}
	return svc.repo.SetPassword(ctx, usr.ID, pwd)
}

func (svc *Service) Delete(ctx context.Context, ids ...int64) (int, error) {
	return svc.repo.DeleteUsersByID(ctx, ids...)
}

// Authenticate checks the credential pair against the users table.
// The email gets the same trim and lowercase as on write; the password must match exactly.
// It returns core.ErrAuthenticationFailed when no user matches.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (Identity, error) {
	email = core.CleanString(email, true /* lower */)
	if email == "" || pwd == "" {
		return Identity{}, core.ErrAuthenticationFailed
	}
	ident, err := svc.repo.FindIdentity(ctx, email, pwd)
	if err != nil {
		if core.IsNotFound(err) {
			return Identity{}, core.ErrAuthenticationFailed
		}
		return Identity{}, errors.Wrap(err, "checking credentials")
	}
	return ident, nil
}
