package teacher

import (
	"context"

	"github.com/trezcool/schooldash/core"
)

type (
	Repository interface {
		CreateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		QueryTeachers(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Teacher, error)
		GetTeacher(ctx context.Context, id int64) (Teacher, error)
		UpdateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		DeleteTeacher(ctx context.Context, id int64) error
		// DeleteTeacherByEmail returns core.ErrNotFound when no teacher has this email.
		DeleteTeacherByEmail(ctx context.Context, email string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	if err := nt.Validate(); err != nil {
		return Teacher{}, err
	}
	return svc.repo.CreateTeacher(ctx, Teacher{
		Name:     nt.Name,
		BranchID: nt.BranchID,
		Email:    nt.Email,
		Subject:  nt.Subject,
		Classes:  JoinClasses(nt.Classes),
	})
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Teacher, error) {
	filter.Subject = core.CleanString(filter.Subject)
	return svc.repo.QueryTeachers(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Teacher, error) {
	return svc.repo.GetTeacher(ctx, id)
}

func (svc *Service) Find(ctx context.Context, id int64) (Teacher, bool, error) {
	t, err := svc.repo.GetTeacher(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Teacher{}, false, nil
		}
		return Teacher{}, false, err
	}
	return t, true, nil
}

func (svc *Service) Update(ctx context.Context, id int64, ut UpdateTeacher) (Teacher, error) {
	orig, err := svc.repo.GetTeacher(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	if err = ut.Validate(orig); err != nil {
		return Teacher{}, err
	}
	orig.Name = ut.Name
	orig.Email = ut.Email
	orig.Subject = ut.Subject
	orig.Classes = JoinClasses(ut.Classes)
	return svc.repo.UpdateTeacher(ctx, orig)
}

func (svc *Service) Delete(ctx context.Context, id int64) error {
	return svc.repo.DeleteTeacher(ctx, id)
}

func (svc *Service) DeleteByEmail(ctx context.Context, email string) error {
	return svc.repo.DeleteTeacherByEmail(ctx, core.CleanString(email, true /* lower */))
}
