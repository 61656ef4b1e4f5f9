package student

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
)

func TestNewStudent_Validate(t *testing.T) {
	valid := func() NewStudent {
		return NewStudent{SectionID: 1, Name: " Amina ", RollNumber: " R001", Gender: "female", DateOfBirth: "2012-05-01"}
	}

	t.Run("cleans and normalizes", func(t *testing.T) {
		ns := valid()
		ns.Email = null.StringFrom(" Amina@Example.com ")
		require.NoError(t, ns.Validate())
		assert.Equal(t, "Amina", ns.Name)
		assert.Equal(t, "R001", ns.RollNumber)
		assert.Equal(t, GenderFemale, ns.Gender)
		assert.Equal(t, null.StringFrom("amina@example.com"), ns.Email)
	})

	t.Run("blank email is null", func(t *testing.T) {
		ns := valid()
		ns.Email = null.StringFrom("  ")
		require.NoError(t, ns.Validate())
		assert.False(t, ns.Email.Valid)
	})

	tests := []struct {
		name  string
		edit  func(ns *NewStudent)
		field string
	}{
		{"no name", func(ns *NewStudent) { ns.Name = "" }, "name"},
		{"no roll number", func(ns *NewStudent) { ns.RollNumber = " " }, "roll_number"},
		{"unknown gender", func(ns *NewStudent) { ns.Gender = "robot" }, "gender"},
		{"bad date", func(ns *NewStudent) { ns.DateOfBirth = "01/05/2012" }, "dob"},
		{"no section", func(ns *NewStudent) { ns.SectionID = 0 }, "section_id"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ns := valid()
			tc.edit(&ns)
			var vErrs validator.ValidationErrors
			require.ErrorAs(t, ns.Validate(), &vErrs)
			assert.Contains(t, core.TranslateValidationErrors(vErrs), tc.field)
		})
	}

	t.Run("bad email", func(t *testing.T) {
		ns := valid()
		ns.Email = null.StringFrom("not-an-email")
		var vErr *core.ValidationError
		require.ErrorAs(t, ns.Validate(), &vErr)
		assert.Equal(t, "email", vErr.Fields[0].Field)
	})
}
