package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/class"
)

const (
	classColumns   = `class_id, grade, class_name, branch_id`
	sectionColumns = `section_id, class_id, section_name`
)

var (
	classOrdering = map[string]string{
		"id":        "class_id",
		"grade":     "grade",
		"name":      "class_name",
		"branch_id": "branch_id",
	}
	sectionOrdering = map[string]string{
		"id":   "section_id",
		"name": "section_name",
	}
)

type classRepository struct {
	db core.DB
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db core.DB) *classRepository {
	return &classRepository{db: db}
}

func (repo classRepository) CreateClass(ctx context.Context, c class.Class) (class.Class, error) {
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		id, err := insert(ctx, exec, `
			INSERT INTO class (grade, class_name, branch_id) VALUES (:grade, :class_name, :branch_id)`, c)
		c.ID = id
		return errors.Wrap(err, "inserting class")
	})
	if err != nil {
		return class.Class{}, err
	}
	return c, nil
}

func (repo classRepository) QueryClasses(ctx context.Context, filter class.QueryFilter, ordering []core.DBOrdering) ([]class.Class, error) {
	var w where
	if filter.BranchID.Valid {
		w.add("branch_id = ?", filter.BranchID.Int64)
	}
	if filter.Grade.Valid {
		w.add("grade = ?", filter.Grade.Int)
	}
	query := `SELECT ` + classColumns + ` FROM class` + w.String() + core.OrderByClause(ordering, classOrdering, "")

	classes := make([]class.Class, 0)
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		return errors.Wrap(exec.SelectContext(ctx, &classes, query, w.args...), "selecting classes")
	})
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (repo classRepository) GetClass(ctx context.Context, id int64) (class.Class, error) {
	var c class.Class
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		err := exec.GetContext(ctx, &c, `SELECT `+classColumns+` FROM class WHERE class_id = ?`, id)
		return trapNoRowsErr(err, "selecting class")
	})
	return c, err
}

func (repo classRepository) UpdateClass(ctx context.Context, c class.Class) (class.Class, error) {
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		res, err := exec.NamedExecContext(ctx, `
			UPDATE class SET grade = :grade, class_name = :class_name WHERE class_id = :class_id`, c)
		_, err = affected(res, err, "updating class")
		return err
	})
	if err != nil {
		return class.Class{}, err
	}
	return c, nil
}

func (repo classRepository) DeleteClass(ctx context.Context, id int64) error {
	return repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		res, err := exec.ExecContext(ctx, `DELETE FROM class WHERE class_id = ?`, id)
		_, err = affected(res, err, "deleting class")
		return err
	})
}

func (repo classRepository) CreateSection(ctx context.Context, s class.Section) (class.Section, error) {
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		id, err := insert(ctx, exec, `
			INSERT INTO section (class_id, section_name) VALUES (:class_id, :section_name)`, s)
		s.ID = id
		return errors.Wrap(err, "inserting section")
	})
	if err != nil {
		return class.Section{}, err
	}
	return s, nil
}

func (repo classRepository) QuerySections(ctx context.Context, classID int64, ordering []core.DBOrdering) ([]class.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM section WHERE class_id = ?` + core.OrderByClause(ordering, sectionOrdering, "")
	sections := make([]class.Section, 0)
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		return errors.Wrap(exec.SelectContext(ctx, &sections, query, classID), "selecting sections")
	})
	if err != nil {
		return nil, err
	}
	return sections, nil
}

func (repo classRepository) GetSection(ctx context.Context, id int64) (class.Section, error) {
	var s class.Section
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		err := exec.GetContext(ctx, &s, `SELECT `+sectionColumns+` FROM section WHERE section_id = ?`, id)
		return trapNoRowsErr(err, "selecting section")
	})
	return s, err
}

func (repo classRepository) UpdateSection(ctx context.Context, s class.Section) (class.Section, error) {
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		res, err := exec.NamedExecContext(ctx, `
			UPDATE section SET section_name = :section_name WHERE section_id = :section_id`, s)
		_, err = affected(res, err, "updating section")
		return err
	})
	if err != nil {
		return class.Section{}, err
	}
	return s, nil
}

func (repo classRepository) DeleteSection(ctx context.Context, id int64) error {
	return repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		res, err := exec.ExecContext(ctx, `DELETE FROM section WHERE section_id = ?`, id)
		_, err = affected(res, err, "deleting section")
		return err
	})
}
