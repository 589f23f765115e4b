package grading

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/organizer/core"
)

var (
	gpaPresetTag  = "gpapreset"
	gpaPresetText = "must be one of " + strings.Join(Presets, ", ")

	gpaModeTag  = "gpamode"
	gpaModeText = "must be one of " + strings.Join(Modes, ", ")
)

func init() {
	_ = core.Validate.RegisterValidation(gpaPresetTag, oneOfValidation(Presets))
	core.RegisterCustomTranslation(gpaPresetTag, gpaPresetText)

	_ = core.Validate.RegisterValidation(gpaModeTag, oneOfValidation(Modes))
	core.RegisterCustomTranslation(gpaModeTag, gpaModeText)
}

func oneOfValidation(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return contains(allowed, fl.Field().String())
	}
}
