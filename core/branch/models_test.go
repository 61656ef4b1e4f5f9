package branch

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooldash/core"
)

func TestNewBranch_Validate(t *testing.T) {
	t.Run("cleans fields and subjects", func(t *testing.T) {
		nb := NewBranch{
			Name:     "  Central ",
			Location: " Town ",
			Subjects: []string{" Mathematics", "", "Mathematics", "Science "},
		}
		require.NoError(t, nb.Validate())
		assert.Equal(t, "Central", nb.Name)
		assert.Equal(t, "Town", nb.Location)
		assert.Equal(t, []string{"Mathematics", "Science"}, nb.Subjects)
	})

	t.Run("name is required", func(t *testing.T) {
		nb := NewBranch{Name: "   "}
		err := nb.Validate()
		var vErrs validator.ValidationErrors
		require.ErrorAs(t, err, &vErrs)
		assert.Equal(t, map[string]string{"name": "this field is required"}, core.TranslateValidationErrors(vErrs))
	})

	t.Run("contact number too long", func(t *testing.T) {
		nb := NewBranch{Name: "North", ContactNumber: "0123456789012345"}
		var vErrs validator.ValidationErrors
		require.ErrorAs(t, nb.Validate(), &vErrs)
		assert.Contains(t, core.TranslateValidationErrors(vErrs), "contact_number")
	})
}

func TestUpdateBranch_Validate(t *testing.T) {
	orig := Branch{ID: 1, Name: "Central", Location: "Town", ContactNumber: "555"}
	ub := UpdateBranch{Location: " Village "}
	require.NoError(t, ub.Validate(orig))
	assert.Equal(t, UpdateBranch{Name: "Central", Location: "Village", ContactNumber: "555"}, ub)
}
