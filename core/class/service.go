package class

import (
	"context"

	"github.com/trezcool/schooldash/core"
)

type (
	Repository interface {
		CreateClass(ctx context.Context, c Class) (Class, error)
		QueryClasses(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Class, error)
		GetClass(ctx context.Context, id int64) (Class, error)
		UpdateClass(ctx context.Context, c Class) (Class, error)
		DeleteClass(ctx context.Context, id int64) error

		CreateSection(ctx context.Context, s Section) (Section, error)
		QuerySections(ctx context.Context, classID int64, ordering []core.DBOrdering) ([]Section, error)
		GetSection(ctx context.Context, id int64) (Section, error)
		UpdateSection(ctx context.Context, s Section) (Section, error)
		// DeleteSection also deletes the section's students through the schema cascade.
		DeleteSection(ctx context.Context, id int64) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateClass(ctx context.Context, nc NewClass) (Class, error) {
	if err := nc.Validate(); err != nil {
		return Class{}, err
	}
	return svc.repo.CreateClass(ctx, Class{Grade: nc.Grade, Name: nc.Name, BranchID: nc.BranchID})
}

func (svc *Service) QueryClasses(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Class, error) {
	return svc.repo.QueryClasses(ctx, filter, ordering)
}

func (svc *Service) GetClass(ctx context.Context, id int64) (Class, error) {
	return svc.repo.GetClass(ctx, id)
}

func (svc *Service) FindClass(ctx context.Context, id int64) (Class, bool, error) {
	c, err := svc.repo.GetClass(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Class{}, false, nil
		}
		return Class{}, false, err
	}
	return c, true, nil
}

func (svc *Service) UpdateClass(ctx context.Context, id int64, uc UpdateClass) (Class, error) {
	orig, err := svc.repo.GetClass(ctx, id)
	if err != nil {
		return Class{}, err
	}
	if err = uc.Validate(orig); err != nil {
		return Class{}, err
	}
	orig.Grade = uc.Grade.Int
	orig.Name = uc.Name
	return svc.repo.UpdateClass(ctx, orig)
}

func (svc *Service) DeleteClass(ctx context.Context, id int64) error {
	return svc.repo.DeleteClass(ctx, id)
}

func (svc *Service) CreateSection(ctx context.Context, ns NewSection) (Section, error) {
	if err := ns.Validate(); err != nil {
		return Section{}, err
	}
	return svc.repo.CreateSection(ctx, Section{ClassID: ns.ClassID, Name: ns.Name})
}

func (svc *Service) QuerySections(ctx context.Context, classID int64, ordering ...core.DBOrdering) ([]Section, error) {
	return svc.repo.QuerySections(ctx, classID, ordering)
}

func (svc *Service) GetSection(ctx context.Context, id int64) (Section, error) {
	return svc.repo.GetSection(ctx, id)
}

func (svc *Service) FindSection(ctx context.Context, id int64) (Section, bool, error) {
	s, err := svc.repo.GetSection(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Section{}, false, nil
		}
		return Section{}, false, err
	}
	return s, true, nil
}

func (svc *Service) UpdateSection(ctx context.Context, id int64, us UpdateSection) (Section, error) {
	if err := us.Validate(); err != nil {
		return Section{}, err
	}
	s, err := svc.repo.GetSection(ctx, id)
	if err != nil {
		return Section{}, err
	}
	s.Name = us.Name
	return svc.repo.UpdateSection(ctx, s)
}

func (svc *Service) DeleteSection(ctx context.Context, id int64) error {
	return svc.repo.DeleteSection(ctx, id)
}
