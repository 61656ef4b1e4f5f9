package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/fs"
)

const (
	driverName     = "sqlite"
	migrationsDir  = "migrations"
	schemaFile     = migrationsDir + "/00001_schema.sql"
	defaultBranch  = "Main Branch"
	defaultSeedPwd = "123"
)

// Store is the SQLite store of the dashboard. It implements core.DB.
type Store struct {
	db *sqlx.DB
}

var _ core.DB = (*Store)(nil) // interface compliance check

// DSN builds the connection string of the store file. Foreign keys are enforced on every connection.
func DSN(conf *core.Config) string {
	q := []string{
		"_pragma=foreign_keys(1)",
		fmt.Sprintf("_pragma=busy_timeout(%d)", conf.Database.BusyTimeout.Milliseconds()),
		"_pragma=journal_mode(WAL)",
		"_txlock=immediate", // writers queue on busy_timeout instead of failing on lock upgrade
	}
	return "file:" + conf.Database.Path + "?" + strings.Join(q, "&")
}

// Open opens the store file (creating it when absent) and checks it can be reached.
func Open(conf *core.Config) (*Store, error) {
	db, err := sql.Open(driverName, DSN(conf))
	if err != nil {
		return nil, core.NewStoreUnavailableError(errors.Wrap(err, "opening database"))
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, core.NewStoreUnavailableError(errors.Wrap(err, "pinging database"))
	}
	// sqlx binds "?" placeholders for the sqlite3 driver name
	return &Store{db: sqlx.NewDb(db, "sqlite3")}, nil
}

// SQL returns the underlying *sql.DB, for goose.
func (s *Store) SQL() *sql.DB {
	return s.db.DB
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Conn(ctx context.Context, fn func(exec core.DBExecutor) error) error {
	return classifyError(fn(s.db))
}

func (s *Store) Tx(ctx context.Context, fn func(tx core.DBExecutor) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return classifyError(errors.Wrap(err, "beginning transaction"))
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return classifyError(err)
	}
	return classifyError(errors.Wrap(tx.Commit(), "committing transaction"))
}

// Init creates the missing tables and seeds the default users when the store has none.
// Every statement is create-if-not-exists or insert-or-ignore: Init can run on every process start,
// from several processes at once, and never drops or alters existing data.
func (s *Store) Init(ctx context.Context) error {
	stmts, err := schemaStatements()
	if err != nil {
		return core.NewStoreUnavailableError(err)
	}
	for _, stmt := range stmts {
		if _, err = s.db.ExecContext(ctx, stmt); err != nil {
			return core.NewStoreUnavailableError(errors.Wrap(classifyError(err), "creating schema"))
		}
	}
	if err = s.seed(ctx); err != nil {
		return core.NewStoreUnavailableError(errors.Wrap(err, "seeding database"))
	}
	return nil
}

// seed inserts the default branch and users when the user table is empty.
// Each statement guards itself, so concurrent seeding inserts every row once.
func (s *Store) seed(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO branch (branch_name)
		SELECT ? WHERE NOT EXISTS (SELECT 1 FROM user)`, defaultBranch)
	if err != nil {
		return errors.Wrap(classifyError(err), "inserting default branch")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO user (name, email, password, role, branch_id)
		SELECT v.column1, v.column2, ?, v.column3,
		       CASE WHEN v.column3 = 'superadmin' THEN NULL
		            ELSE (SELECT branch_id FROM branch WHERE branch_name = ?) END
		FROM (VALUES ('Super Admin', 'super@example.com', 'superadmin'),
		             ('Branch Admin', 'branch@example.com', 'branchadmin'),
		             ('Teacher', 'teacher@example.com', 'teacher')) v
		WHERE NOT EXISTS (SELECT 1 FROM user)`, defaultSeedPwd, defaultBranch)
	return errors.Wrap(classifyError(err), "inserting default users")
}

// schemaStatements returns the statements of the Up section of the embedded schema migration.
func schemaStatements() ([]string, error) {
	data, err := appfs.FS.ReadFile(schemaFile)
	if err != nil {
		return nil, errors.Wrap(err, "reading schema")
	}
	up := string(data)
	if i := strings.Index(up, "-- +goose Down"); i >= 0 {
		up = up[:i]
	}

	var lines []string
	for _, line := range strings.Split(up, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}

	var stmts []string
	for _, stmt := range strings.Split(strings.Join(lines, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, nil
}

// Migrate runs a goose command (up, down, status, version, redo, ...) over the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	if err := goose.RunContext(ctx, command, db, migrationsDir, args...); err != nil {
		return errors.Wrap(classifyError(err), "migrating database")
	}
	return nil
}
