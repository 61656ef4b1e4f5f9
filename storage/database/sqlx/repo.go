package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
)

// trapNoRowsErr maps sql "no rows" err to core.ErrNotFound
func trapNoRowsErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// insert runs a named INSERT and returns the new row id.
func insert(ctx context.Context, exec core.DBExecutor, query string, arg interface{}) (int64, error) {
	res, err := exec.NamedExecContext(ctx, query, arg)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// affected returns core.ErrNotFound when the statement changed no row.
func affected(res sql.Result, err error, msg string) (int, error) {
	if err != nil {
		return 0, errors.Wrap(err, msg)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, msg)
	}
	if n == 0 {
		return 0, core.ErrNotFound
	}
	return int(n), nil
}

// where joins conditions with AND into a WHERE clause.
type where struct {
	conds []string
	args  []interface{}
}

func (w *where) add(cond string, args ...interface{}) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// in expands an IN (?) clause for the given args.
func in(query string, args ...interface{}) (string, []interface{}, error) {
	q, a, err := sqlx.In(query, args...)
	return q, a, errors.Wrap(err, "expanding IN clause")
}
