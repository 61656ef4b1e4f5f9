package database

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/trezcool/schooldash/core"
)

// matches "UNIQUE constraint failed: section.class_id, section.section_name" and the like
var constraintMsgRe = regexp.MustCompile(`(?:UNIQUE|NOT NULL) constraint failed: ([\w.]+(?:, [\w.]+)*)`)

// matches "CHECK constraint failed: gender IN (...)"
var checkMsgRe = regexp.MustCompile(`CHECK constraint failed: (\w+)`)

// classifyError turns SQLite errors into the core error taxonomy: constraint failures become
// *core.ConstraintError and connection-level failures *core.StoreUnavailableError.
// Other errors are returned unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := core.IsConstraintViolation(err); ok || core.IsStoreUnavailable(err) {
		return err
	}
	var sErr *sqlite.Error
	if !errors.As(err, &sErr) {
		return err
	}

	code := sErr.Code()
	if code&0xff == sqlite3.SQLITE_CONSTRAINT {
		return constraintError(code, err)
	}
	switch code & 0xff { // primary result code
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR,
		sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_FULL, sqlite3.SQLITE_READONLY:
		return core.NewStoreUnavailableError(err)
	}
	return err
}

func constraintError(code int, err error) error {
	msg := err.Error()
	switch {
	case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
		strings.Contains(msg, "UNIQUE constraint failed"):
		table, field := constraintTarget(msg)
		return &core.ConstraintError{Kind: core.ConstraintUnique, Table: table, Field: field, Err: err}
	case code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY || strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return &core.ConstraintError{Kind: core.ConstraintForeignKey, Err: err}
	case code == sqlite3.SQLITE_CONSTRAINT_NOTNULL || strings.Contains(msg, "NOT NULL constraint failed"):
		table, field := constraintTarget(msg)
		return &core.ConstraintError{Kind: core.ConstraintNotNull, Table: table, Field: field, Err: err}
	default:
		var field string
		if m := checkMsgRe.FindStringSubmatch(msg); m != nil {
			field = m[1]
		}
		return &core.ConstraintError{Kind: core.ConstraintCheck, Field: field, Err: err}
	}
}

// constraintTarget extracts the table and the last column named by a UNIQUE or NOT NULL failure message.
func constraintTarget(msg string) (table, field string) {
	m := constraintMsgRe.FindStringSubmatch(msg)
	if m == nil {
		return "", ""
	}
	cols := strings.Split(m[1], ", ")
	last := cols[len(cols)-1]
	if i := strings.IndexByte(last, '.'); i >= 0 {
		return last[:i], last[i+1:]
	}
	return "", last
}
