package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/user"
)

const userColumns = `user_id, name, email, password, grade, role, branch_id`

var userOrdering = map[string]string{
	"id":        "user_id",
	"name":      "name",
	"email":     "email",
	"role":      "role",
	"branch_id": "branch_id",
}

type userRepository struct {
	db core.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db core.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		id, err := insert(ctx, exec, `
			INSERT INTO user (name, email, password, grade, role, branch_id)
			VALUES (:name, :email, :password, :grade, :role, :branch_id)`, usr)
		if err != nil {
			return errors.Wrap(err, "inserting user")
		}
		usr.ID = id
		return nil
	})
	if err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo userRepository) GetUser(ctx context.Context, id int64) (user.User, error) {
	var usr user.User
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		err := exec.GetContext(ctx, &usr, `SELECT `+userColumns+` FROM user WHERE user_id = ?`, id)
		return trapNoRowsErr(err, "selecting user")
	})
	return usr, err
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		err := exec.GetContext(ctx, &usr, `SELECT `+userColumns+` FROM user WHERE email = ?`, email)
		return trapNoRowsErr(err, "selecting user by email")
	})
	return usr, err
}

func (repo userRepository) QueryUsers(ctx context.Context, filter user.QueryFilter, ordering []core.DBOrdering) ([]user.User, error) {
	var w where
	if filter.BranchID.Valid {
		w.add("branch_id = ?", filter.BranchID.Int64)
	}
	if filter.Role != "" {
		w.add("role = ?", filter.Role)
	}
	if filter.Search != "" {
		val := "%" + filter.Search + "%"
		w.add("(name LIKE ? OR email LIKE ?)", val, val)
	}
	query := `SELECT ` + userColumns + ` FROM user` + w.String() + core.OrderByClause(ordering, userOrdering, "")

	users := make([]user.User, 0)
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		return errors.Wrap(exec.SelectContext(ctx, &users, query, w.args...), "selecting users")
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		res, err := exec.NamedExecContext(ctx, `
			UPDATE user SET name = :name, email = :email, password = :password, grade = :grade, branch_id = :branch_id
			WHERE user_id = :user_id`, usr)
		_, err = affected(res, err, "updating user")
		return err
	})
	if err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo userRepository) SetPassword(ctx context.Context, id int64, pwd string) error {
	return repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		res, err := exec.ExecContext(ctx, `UPDATE user SET password = ? WHERE user_id = ?`, pwd, id)
		_, err = affected(res, err, "setting password")
		return err
	})
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids ...int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := in(`DELETE FROM user WHERE user_id IN (?)`, ids)
	if err != nil {
		return 0, err
	}
	var cnt int
	err = repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		res, err := exec.ExecContext(ctx, query, args...)
		if err != nil {
			return errors.Wrap(err, "deleting users")
		}
		n, err := res.RowsAffected()
		cnt = int(n)
		return errors.Wrap(err, "deleting users")
	})
	return cnt, err
}

func (repo userRepository) FindIdentity(ctx context.Context, email, password string) (user.Identity, error) {
	var ident user.Identity
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		err := exec.GetContext(ctx, &ident, `
			SELECT user_id, name, email, role, branch_id FROM user
			WHERE email = ? AND password = ?`, email, password)
		return trapNoRowsErr(err, "checking credentials")
	})
	return ident, err
}
