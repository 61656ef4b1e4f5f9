package sqlxrepos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/class"
	"github.com/trezcool/schooldash/testutil"
)

func TestClassRepository(t *testing.T) {
	db := testutil.PrepareDB(t)
	ctx := context.Background()
	svc := class.NewService(NewClassRepository(db))
	b := testutil.CreateBranch(t, NewBranchRepository(db), "Central")

	c5, err := svc.CreateClass(ctx, class.NewClass{Grade: 5, Name: " 5 ", BranchID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, "5", c5.Name)
	_, err = svc.CreateClass(ctx, class.NewClass{Grade: 6, Name: "6", BranchID: b.ID})
	require.NoError(t, err)

	t.Run("duplicate", func(t *testing.T) {
		_, err := svc.CreateClass(ctx, class.NewClass{Grade: 5, Name: "5", BranchID: b.ID})
		_, ok := core.IsConstraintViolation(err)
		assert.True(t, ok, "expected a constraint violation, got %v", err)
	})

	t.Run("query", func(t *testing.T) {
		classes, err := svc.QueryClasses(ctx, class.QueryFilter{BranchID: null.Int64From(b.ID)}, core.DBOrdering{Field: "grade", Ascending: false})
		require.NoError(t, err)
		require.Len(t, classes, 2)
		assert.Equal(t, 6, classes[0].Grade)

		classes, err = svc.QueryClasses(ctx, class.QueryFilter{Grade: null.IntFrom(5)})
		require.NoError(t, err)
		assert.Equal(t, []class.Class{c5}, classes)
	})

	t.Run("update", func(t *testing.T) {
		got, err := svc.UpdateClass(ctx, c5.ID, class.UpdateClass{Name: "5 Blue"})
		require.NoError(t, err)
		assert.Equal(t, 5, got.Grade)
		assert.Equal(t, "5 Blue", got.Name)

		_, err = svc.UpdateClass(ctx, c5.ID, class.UpdateClass{Grade: null.IntFrom(13)})
		assert.Error(t, err)
	})

	t.Run("sections", func(t *testing.T) {
		a, err := svc.CreateSection(ctx, class.NewSection{ClassID: c5.ID, Name: "A"})
		require.NoError(t, err)
		_, err = svc.CreateSection(ctx, class.NewSection{ClassID: c5.ID, Name: "B"})
		require.NoError(t, err)

		_, err = svc.CreateSection(ctx, class.NewSection{ClassID: c5.ID, Name: "A"})
		_, ok := core.IsConstraintViolation(err)
		assert.True(t, ok, "expected a constraint violation, got %v", err)

		renamed, err := svc.UpdateSection(ctx, a.ID, class.UpdateSection{Name: "Alpha"})
		require.NoError(t, err)
		assert.Equal(t, "Alpha", renamed.Name)

		sections, err := svc.QuerySections(ctx, c5.ID, core.DBOrdering{Field: "name", Ascending: true})
		require.NoError(t, err)
		require.Len(t, sections, 2)
		assert.Equal(t, "Alpha", sections[0].Name)

		require.NoError(t, svc.DeleteClass(ctx, c5.ID))
		_, found, err := svc.FindSection(ctx, a.ID)
		require.NoError(t, err)
		assert.False(t, found)
	})
}
