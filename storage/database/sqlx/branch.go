package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/branch"
)

const branchColumns = `branch_id, branch_name, location, contact_number`

var branchOrdering = map[string]string{
	"id":       "branch_id",
	"name":     "branch_name",
	"location": "location",
}

type branchRepository struct {
	db core.DB
}

var _ branch.Repository = (*branchRepository)(nil) // interface compliance check

func NewBranchRepository(db core.DB) *branchRepository {
	return &branchRepository{db: db}
}

func (repo branchRepository) CreateBranch(ctx context.Context, b branch.Branch, subjects []string) (branch.Branch, error) {
	err := repo.db.Tx(ctx, func(tx core.DBExecutor) error {
		id, err := insert(ctx, tx, `
			INSERT INTO branch (branch_name, location, contact_number)
			VALUES (:branch_name, :location, :contact_number)`, b)
		if err != nil {
			return errors.Wrap(err, "inserting branch")
		}
		b.ID = id

		for _, subject := range subjects {
			_, err = tx.ExecContext(ctx, `INSERT INTO branch_subject (branch_id, subject_name) VALUES (?, ?)`, id, subject)
			if err != nil {
				return errors.Wrap(err, "inserting branch subject")
			}
		}
		return nil
	})
	if err != nil {
		return branch.Branch{}, err
	}
	return b, nil
}

func (repo branchRepository) QueryBranches(ctx context.Context, ordering []core.DBOrdering) ([]branch.Branch, error) {
	branches := make([]branch.Branch, 0)
	query := `SELECT ` + branchColumns + ` FROM branch` + core.OrderByClause(ordering, branchOrdering, "")
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		return errors.Wrap(exec.SelectContext(ctx, &branches, query), "selecting branches")
	})
	if err != nil {
		return nil, err
	}
	return branches, nil
}

func (repo branchRepository) QueryBranchesWithAdmins(ctx context.Context) ([]branch.WithAdmin, error) {
	rows := make([]branch.WithAdmin, 0)
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		err := exec.SelectContext(ctx, &rows, `
			SELECT b.branch_id, b.branch_name, b.location, b.contact_number,
			       u.user_id AS admin_id, u.name AS admin_name, u.email AS admin_email
			FROM branch b
			LEFT JOIN user u ON u.branch_id = b.branch_id AND u.role = 'branchadmin'
			ORDER BY b.branch_id, u.user_id`)
		return errors.Wrap(err, "selecting branches with admins")
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (repo branchRepository) GetBranch(ctx context.Context, id int64) (branch.Branch, error) {
	var b branch.Branch
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		err := exec.GetContext(ctx, &b, `SELECT `+branchColumns+` FROM branch WHERE branch_id = ?`, id)
		return trapNoRowsErr(err, "selecting branch")
	})
	return b, err
}

func (repo branchRepository) ListSubjects(ctx context.Context, branchID int64) ([]string, error) {
	subjects := make([]string, 0)
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		err := exec.SelectContext(ctx, &subjects, `
			SELECT subject_name FROM branch_subject WHERE branch_id = ? ORDER BY rowid`, branchID)
		return errors.Wrap(err, "selecting branch subjects")
	})
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

func (repo branchRepository) UpdateBranch(ctx context.Context, b branch.Branch) (branch.Branch, error) {
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		res, err := exec.NamedExecContext(ctx, `
			UPDATE branch SET branch_name = :branch_name, location = :location, contact_number = :contact_number
			WHERE branch_id = :branch_id`, b)
		_, err = affected(res, err, "updating branch")
		return err
	})
	if err != nil {
		return branch.Branch{}, err
	}
	return b, nil
}

func (repo branchRepository) DeleteBranch(ctx context.Context, id int64) error {
	return repo.db.Tx(ctx, func(tx core.DBExecutor) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM branch_subject WHERE branch_id = ?`, id); err != nil {
			return errors.Wrap(err, "deleting branch subjects")
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM user WHERE branch_id = ?`, id); err != nil {
			return errors.Wrap(err, "deleting branch users")
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM branch WHERE branch_id = ?`, id)
		_, err = affected(res, err, "deleting branch")
		return err
	})
}
