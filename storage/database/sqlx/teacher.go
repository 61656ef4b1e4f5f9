package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/teacher"
)

const teacherColumns = `teacher_id, teacher_name, branch_id, email, subject, classes`

var teacherOrdering = map[string]string{
	"id":      "teacher_id",
	"name":    "teacher_name",
	"email":   "email",
	"subject": "subject",
}

type teacherRepository struct {
	db core.DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db core.DB) *teacherRepository {
	return &teacherRepository{db: db}
}

func (repo teacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		id, err := insert(ctx, exec, `
			INSERT INTO teachers (teacher_name, branch_id, email, subject, classes)
			VALUES (:teacher_name, :branch_id, :email, :subject, :classes)`, t)
		t.ID = id
		return errors.Wrap(err, "inserting teacher")
	})
	if err != nil {
		return teacher.Teacher{}, err
	}
	return t, nil
}

func (repo teacherRepository) QueryTeachers(ctx context.Context, filter teacher.QueryFilter, ordering []core.DBOrdering) ([]teacher.Teacher, error) {
	var w where
	if filter.BranchID.Valid {
		w.add("branch_id = ?", filter.BranchID.Int64)
	}
	if filter.Subject != "" {
		w.add("subject = ?", filter.Subject)
	}
	query := `SELECT ` + teacherColumns + ` FROM teachers` + w.String() + core.OrderByClause(ordering, teacherOrdering, "")

	teachers := make([]teacher.Teacher, 0)
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		return errors.Wrap(exec.SelectContext(ctx, &teachers, query, w.args...), "selecting teachers")
	})
	if err != nil {
		return nil, err
	}
	return teachers, nil
}

func (repo teacherRepository) GetTeacher(ctx context.Context, id int64) (teacher.Teacher, error) {
	var t teacher.Teacher
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		err := exec.GetContext(ctx, &t, `SELECT `+teacherColumns+` FROM teachers WHERE teacher_id = ?`, id)
		return trapNoRowsErr(err, "selecting teacher")
	})
	return t, err
}

func (repo teacherRepository) UpdateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		res, err := exec.NamedExecContext(ctx, `
			UPDATE teachers SET teacher_name = :teacher_name, email = :email, subject = :subject, classes = :classes
			WHERE teacher_id = :teacher_id`, t)
		_, err = affected(res, err, "updating teacher")
		return err
	})
	if err != nil {
		return teacher.Teacher{}, err
	}
	return t, nil
}

func (repo teacherRepository) DeleteTeacher(ctx context.Context, id int64) error {
	return repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		res, err := exec.ExecContext(ctx, `DELETE FROM teachers WHERE teacher_id = ?`, id)
		_, err = affected(res, err, "deleting teacher")
		return err
	})
}

func (repo teacherRepository) DeleteTeacherByEmail(ctx context.Context, email string) error {
	return repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		res, err := exec.ExecContext(ctx, `DELETE FROM teachers WHERE email = ?`, email)
		_, err = affected(res, err, "deleting teacher by email")
		return err
	})
}
