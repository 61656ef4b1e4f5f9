package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/student"
)

const studentColumns = `st.student_id, st.section_id, st.student_name, st.roll_number, st.father_name, st.mother_name,
	st.gender, st.phone_number, st.dob, st.address, st.email`

var studentOrdering = map[string]string{
	"id":          "st.student_id",
	"name":        "st.student_name",
	"roll_number": "st.roll_number",
	"gender":      "st.gender",
	"dob":         "st.dob",
}

type studentRepository struct {
	db core.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db core.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		id, err := insert(ctx, exec, `
			INSERT INTO student (section_id, student_name, roll_number, father_name, mother_name,
			                     gender, phone_number, dob, address, email)
			VALUES (:section_id, :student_name, :roll_number, :father_name, :mother_name,
			        :gender, :phone_number, :dob, :address, :email)`, s)
		s.ID = id
		return errors.Wrap(err, "inserting student")
	})
	if err != nil {
		return student.Student{}, err
	}
	return s, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, id int64) (student.Student, error) {
	var s student.Student
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		err := exec.GetContext(ctx, &s, `SELECT `+studentColumns+` FROM student st WHERE st.student_id = ?`, id)
		return trapNoRowsErr(err, "selecting student")
	})
	return s, err
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	from := ` FROM student st`
	var w where
	if filter.SectionID.Valid {
		w.add("st.section_id = ?", filter.SectionID.Int64)
	}
	if filter.BranchID.Valid {
		from += ` JOIN section sec ON sec.section_id = st.section_id JOIN class c ON c.class_id = sec.class_id`
		w.add("c.branch_id = ?", filter.BranchID.Int64)
	}
	if filter.Search != "" {
		val := "%" + filter.Search + "%"
		w.add("(st.student_name LIKE ? OR st.roll_number LIKE ?)", val, val)
	}
	query := `SELECT ` + studentColumns + from + w.String() + core.OrderByClause(ordering, studentOrdering, "")

	students := make([]student.Student, 0)
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		return errors.Wrap(exec.SelectContext(ctx, &students, query, w.args...), "selecting students")
	})
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		res, err := exec.NamedExecContext(ctx, `
			UPDATE student SET section_id = :section_id, student_name = :student_name, roll_number = :roll_number,
			                   father_name = :father_name, mother_name = :mother_name, gender = :gender,
			                   phone_number = :phone_number, dob = :dob, address = :address, email = :email
			WHERE student_id = :student_id`, s)
		_, err = affected(res, err, "updating student")
		return err
	})
	if err != nil {
		return student.Student{}, err
	}
	return s, nil
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id int64) error {
	return repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		res, err := exec.ExecContext(ctx, `DELETE FROM student WHERE student_id = ?`, id)
		_, err = affected(res, err, "deleting student")
		return err
	})
}
