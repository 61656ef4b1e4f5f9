package database_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/storage/database"
	"github.com/trezcool/schooldash/testutil"
)

func countRows(t *testing.T, db core.DB, query string, args ...interface{}) int {
	t.Helper()
	var n int
	err := db.Conn(context.Background(), func(exec core.DBExecutor) error {
		return exec.GetContext(context.Background(), &n, query, args...)
	})
	require.NoError(t, err)
	return n
}

func TestInit(t *testing.T) {
	conf := testutil.NewConfig(t)
	db := testutil.PrepareDBWithConfig(t, conf)
	ctx := context.Background()

	assert.Equal(t, 3, countRows(t, db, `SELECT COUNT(*) FROM user`))
	assert.Equal(t, 1, countRows(t, db, `SELECT COUNT(*) FROM user WHERE role = 'superadmin' AND branch_id IS NULL`))
	assert.Equal(t, 2, countRows(t, db, `SELECT COUNT(*) FROM user u JOIN branch b ON b.branch_id = u.branch_id`))

	t.Run("idempotent", func(t *testing.T) {
		_, err := db.SQL().Exec(`INSERT INTO branch (branch_name) VALUES ('Kept')`)
		require.NoError(t, err)

		require.NoError(t, db.Init(ctx))
		require.NoError(t, db.Init(ctx))
		assert.Equal(t, 3, countRows(t, db, `SELECT COUNT(*) FROM user`))
		assert.Equal(t, 1, countRows(t, db, `SELECT COUNT(*) FROM branch WHERE branch_name = 'Kept'`))
	})

	t.Run("does not re-seed", func(t *testing.T) {
		_, err := db.SQL().Exec(`DELETE FROM user WHERE email = 'teacher@example.com'`)
		require.NoError(t, err)
		require.NoError(t, db.Init(ctx))
		assert.Equal(t, 2, countRows(t, db, `SELECT COUNT(*) FROM user`))
	})

	t.Run("concurrent processes", func(t *testing.T) {
		conf := testutil.NewConfig(t)
		var wg sync.WaitGroup
		errs := make([]error, 4)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				store, err := database.Open(conf)
				if err != nil {
					errs[i] = err
					return
				}
				defer func() { _ = store.Close() }()
				errs[i] = store.Init(ctx)
			}(i)
		}
		wg.Wait()
		for _, err := range errs {
			assert.NoError(t, err)
		}
		store := testutil.PrepareDBWithConfig(t, conf)
		assert.Equal(t, 3, countRows(t, store, `SELECT COUNT(*) FROM user`))
		assert.Equal(t, 1, countRows(t, store, `SELECT COUNT(*) FROM branch`))
	})
}

func TestOpen_Unavailable(t *testing.T) {
	conf := testutil.NewConfig(t)
	conf.Database.Path = filepath.Join(t.TempDir(), "missing", "dir", "test.db")
	_, err := database.Open(conf)
	require.Error(t, err)
	assert.True(t, core.IsStoreUnavailable(err))
}

func TestTx(t *testing.T) {
	db := testutil.PrepareDB(t)
	ctx := context.Background()

	t.Run("rollback on error", func(t *testing.T) {
		err := db.Tx(ctx, func(tx core.DBExecutor) error {
			if _, err := tx.ExecContext(ctx, `INSERT INTO branch (branch_name) VALUES ('Rolled')`); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO branch (branch_name) VALUES ('Rolled')`)
			return err
		})
		cErr, ok := core.IsConstraintViolation(err)
		require.True(t, ok, "expected a constraint violation, got %v", err)
		assert.Equal(t, core.ConstraintUnique, cErr.Kind)
		assert.Equal(t, "branch", cErr.Table)
		assert.Equal(t, "branch_name", cErr.Field)
		assert.Equal(t, 0, countRows(t, db, `SELECT COUNT(*) FROM branch WHERE branch_name = 'Rolled'`))
	})

	t.Run("commit", func(t *testing.T) {
		err := db.Tx(ctx, func(tx core.DBExecutor) error {
			_, err := tx.ExecContext(ctx, `INSERT INTO branch (branch_name) VALUES ('Committed')`)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 1, countRows(t, db, `SELECT COUNT(*) FROM branch WHERE branch_name = 'Committed'`))
	})
}

func TestConstraintClassification(t *testing.T) {
	db := testutil.PrepareDB(t)
	ctx := context.Background()
	exec := func(query string, args ...interface{}) error {
		return db.Conn(ctx, func(exec core.DBExecutor) error {
			_, err := exec.ExecContext(ctx, query, args...)
			return err
		})
	}

	tests := []struct {
		name  string
		query string
		args  []interface{}
		kind  string
		field string
	}{
		{"unique email", `INSERT INTO user (name, email, password, role) VALUES ('x', 'super@example.com', 'x', 'superadmin')`, nil, core.ConstraintUnique, "email"},
		{"foreign key", `INSERT INTO section (class_id, section_name) VALUES (?, 'A')`, []interface{}{9999}, core.ConstraintForeignKey, ""},
		{"not null", `INSERT INTO branch (branch_name) VALUES (NULL)`, nil, core.ConstraintNotNull, "branch_name"},
		{"check", `INSERT INTO user (name, email, password, role) VALUES ('x', 'x@example.com', 'x', 'janitor')`, nil, core.ConstraintCheck, "role"},
		{"branch required", `INSERT INTO user (name, email, password, role) VALUES ('x', 'y@example.com', 'x', 'teacher')`, nil, core.ConstraintCheck, "role"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := exec(tc.query, tc.args...)
			cErr, ok := core.IsConstraintViolation(err)
			require.True(t, ok, "expected a constraint violation, got %v", err)
			assert.Equal(t, tc.kind, cErr.Kind)
			assert.Equal(t, tc.field, cErr.Field)
		})
	}
}

func TestMigrate(t *testing.T) {
	conf := testutil.NewConfig(t)
	store, err := database.Open(conf)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	require.NoError(t, database.Migrate(ctx, store.SQL(), "up"))
	assert.Equal(t, 0, countRows(t, store, `SELECT COUNT(*) FROM branch`))

	// Init on a migrated store only seeds
	require.NoError(t, store.Init(ctx))
	assert.Equal(t, 3, countRows(t, store, `SELECT COUNT(*) FROM user`))

	require.NoError(t, database.Migrate(ctx, store.SQL(), "down"))
	var n int
	require.NoError(t, store.SQL().QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'branch'`).Scan(&n))
	assert.Equal(t, 0, n)
}
