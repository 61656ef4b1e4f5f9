package student

import (
	"context"
	"io"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, s Student) (Student, error)
		GetStudent(ctx context.Context, id int64) (Student, error)
		QueryStudents(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Student, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		DeleteStudent(ctx context.Context, id int64) error
	}

	// BulkObserver is told the outcome of every bulk row.
	BulkObserver func(ok bool)

	Service struct {
		repo     Repository
		observer BulkObserver
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// WithBulkObserver returns a copy of the service notifying fn of each bulk row outcome.
// The receiver is left unchanged.
func (svc *Service) WithBulkObserver(fn BulkObserver) *Service {
	cp := *svc
	cp.observer = fn
	return &cp
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(); err != nil {
		return Student{}, err
	}
	return svc.repo.CreateStudent(ctx, ns.student())
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *Service) Find(ctx context.Context, id int64) (Student, bool, error) {
	s, err := svc.repo.GetStudent(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Student{}, false, nil
		}
		return Student{}, false, err
	}
	return s, true, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Student, error) {
	filter.Clean()
	return svc.repo.QueryStudents(ctx, filter, ordering)
}

func (svc *Service) QueryBySection(ctx context.Context, sectionID int64, ordering ...core.DBOrdering) ([]Student, error) {
	return svc.Query(ctx, QueryFilter{SectionID: null.Int64From(sectionID)}, ordering...)
}

func (svc *Service) Update(ctx context.Context, id int64, us UpdateStudent) (Student, error) {
	if _, err := svc.repo.GetStudent(ctx, id); err != nil {
		return Student{}, err
	}
	if err := us.Validate(); err != nil {
		return Student{}, err
	}
	s := NewStudent(us).student()
	s.ID = id
	return svc.repo.UpdateStudent(ctx, s)
}

func (svc *Service) Delete(ctx context.Context, id int64) error {
	return svc.repo.DeleteStudent(ctx, id)
}

// BulkCreate inserts every row into the section independently: a failing row is recorded and the next one attempted.
// Rows inserted before a failure stay committed. The error is non-nil only when the store became unavailable,
// in which case the report covers the rows attempted so far.
func (svc *Service) BulkCreate(ctx context.Context, sectionID int64, rows []NewStudent) (*core.BulkReport, error) {
	report := core.NewBulkReport()
	for i, ns := range rows {
		ns.SectionID = sectionID
		_, err := svc.Create(ctx, ns)
		svc.observe(err == nil)
		if err != nil {
			if core.IsStoreUnavailable(err) {
				return report, err
			}
			report.Fail(i+1, err)
			continue
		}
		report.Success()
	}
	return report, nil
}

// ImportCSV decodes a bulk upload file and runs BulkCreate on its rows.
func (svc *Service) ImportCSV(ctx context.Context, sectionID int64, r io.Reader) (*core.BulkReport, error) {
	rows, err := ReadCSV(r)
	if err != nil {
		return nil, core.NewValidationError(err, core.FieldError{Field: "file", Error: err.Error()})
	}
	return svc.BulkCreate(ctx, sectionID, rows)
}

// ExportCSV writes the section's students, ordered by roll number.
func (svc *Service) ExportCSV(ctx context.Context, sectionID int64, w io.Writer) error {
	students, err := svc.QueryBySection(ctx, sectionID, core.DBOrdering{Field: "roll_number", Ascending: true})
	if err != nil {
		return err
	}
	return WriteCSV(w, students)
}

func (svc *Service) observe(ok bool) {
	if svc.observer != nil {
		svc.observer(ok)
	}
}
