package core

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
)

type (
	// DBExecutor is satisfied by *sqlx.DB and *sqlx.Tx.
	DBExecutor interface {
		sqlx.ExtContext
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	}

	DBTransactor interface {
		DBExecutor

		Commit() error
		Rollback() error
	}

	// DB scopes store access to a single call.
	DB interface {
		// Conn runs fn against the store; every statement fn issues releases its connection before returning.
		Conn(ctx context.Context, fn func(exec DBExecutor) error) error
		// Tx runs fn inside a transaction.
		// The transaction is committed when fn returns nil and rolled back otherwise.
		Tx(ctx context.Context, fn func(tx DBExecutor) error) error
	}
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// OrderByClause renders orderings as an ORDER BY clause, keeping only fields present in allowed
// (which maps public field names to column expressions). It returns def when nothing is left.
func OrderByClause(ordering []DBOrdering, allowed map[string]string, def string) string {
	parts := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		col, ok := allowed[ord.Field]
		if !ok {
			continue
		}
		parts = append(parts, DBOrdering{Field: col, Ascending: ord.Ascending}.String())
	}
	if len(parts) == 0 {
		if def == "" {
			return ""
		}
		return " ORDER BY " + def
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}
