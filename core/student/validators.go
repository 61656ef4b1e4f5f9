package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/schooldash/core"
)

var (
	genderTag  = "gender"
	genderText = "gender must be one of Male, Female or Other"
)

func init() {
	_ = core.Validate.RegisterValidation(genderTag, genderValidation)
	core.RegisterCustomTranslation(genderTag, genderText)
}

func genderValidation(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}
