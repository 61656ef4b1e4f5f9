package branch

import (
	"context"

	"github.com/trezcool/schooldash/core"
)

type (
	Repository interface {
		// CreateBranch inserts the branch and its branch_subject rows in one transaction.
		CreateBranch(ctx context.Context, b Branch, subjects []string) (Branch, error)
		QueryBranches(ctx context.Context, ordering []core.DBOrdering) ([]Branch, error)
		QueryBranchesWithAdmins(ctx context.Context) ([]WithAdmin, error)
		GetBranch(ctx context.Context, id int64) (Branch, error)
		ListSubjects(ctx context.Context, branchID int64) ([]string, error)
		UpdateBranch(ctx context.Context, b Branch) (Branch, error)
		// DeleteBranch removes branch_subject rows, then the branch users, then the branch, in one transaction.
		// It returns core.ErrNotFound when the branch does not exist.
		DeleteBranch(ctx context.Context, id int64) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nb NewBranch) (Branch, error) {
	if err := nb.Validate(); err != nil {
		return Branch{}, err
	}
	b := Branch{Name: nb.Name, Location: nb.Location, ContactNumber: nb.ContactNumber}
	return svc.repo.CreateBranch(ctx, b, nb.Subjects)
}

func (svc *Service) Query(ctx context.Context, ordering ...core.DBOrdering) ([]Branch, error) {
	return svc.repo.QueryBranches(ctx, ordering)
}

func (svc *Service) QueryWithAdmins(ctx context.Context) ([]WithAdmin, error) {
	return svc.repo.QueryBranchesWithAdmins(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Branch, error) {
	return svc.repo.GetBranch(ctx, id)
}

// Find returns false instead of an error when the branch does not exist.
func (svc *Service) Find(ctx context.Context, id int64) (Branch, bool, error) {
	b, err := svc.repo.GetBranch(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Branch{}, false, nil
		}
		return Branch{}, false, err
	}
	return b, true, nil
}

func (svc *Service) Subjects(ctx context.Context, branchID int64) ([]string, error) {
	return svc.repo.ListSubjects(ctx, branchID)
}

func (svc *Service) Update(ctx context.Context, id int64, ub UpdateBranch) (Branch, error) {
	orig, err := svc.repo.GetBranch(ctx, id)
	if err != nil {
		return Branch{}, err
	}
	if err = ub.Validate(orig); err != nil {
		return Branch{}, err
	}
	orig.Name = ub.Name
	orig.Location = ub.Location
	orig.ContactNumber = ub.ContactNumber
	return svc.repo.UpdateBranch(ctx, orig)
}

func (svc *Service) Delete(ctx context.Context, id int64) error {
	return svc.repo.DeleteBranch(ctx, id)
}
