package course

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/organizer/core"
)

var (
	priorityTag  = "priority"
	priorityText = "must be one of Low, Medium or High"

	earnedNeedsTotalTag  = "earnedtotal"
	earnedNeedsTotalText = "points earned require points total"
)

func init() {
	_ = core.Validate.RegisterValidation(priorityTag, priorityValidation)
	core.RegisterCustomTranslation(priorityTag, priorityText)

	core.Validate.RegisterStructValidation(assignmentStructValidation, Assignment{})
	core.RegisterCustomTranslation(earnedNeedsTotalTag, earnedNeedsTotalText)
}

// priorityValidation checks that the field is one of Priorities
func priorityValidation(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	for _, prio := range Priorities {
		if p == prio {
			return true
		}
	}
	return false
}

// assignmentStructValidation rejects a score that has nothing to be measured against.
func assignmentStructValidation(sl validator.StructLevel) {
	a, ok := sl.Current().Interface().(Assignment)
	if !ok {
		return
	}
	if a.PointsEarned.Valid && !a.PointsTotal.Valid {
		sl.ReportError(a.PointsEarned, "points_earned", "PointsEarned", earnedNeedsTotalTag, "")
	}
}
