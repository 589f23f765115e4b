package settings

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/course"
	"github.com/trezcool/organizer/core/grading"
	"github.com/trezcool/organizer/core/scale"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantSystem grading.System
		wantScale  []scale.Band
		wantNotify Notifications
	}{
		{
			name:       "empty",
			data:       `{}`,
			wantSystem: grading.DefaultSystem(grading.Preset40),
			wantScale:  []scale.Band{},
			wantNotify: Notifications{Enabled: true, Toast: true, Banner: true},
		},
		{
			name:       "not an object",
			data:       `"dark mode"`,
			wantSystem: grading.DefaultSystem(grading.Preset40),
			wantScale:  []scale.Band{},
			wantNotify: Notifications{Enabled: true, Toast: true, Banner: true},
		},
		{
			name: "stored values",
			data: `{
				"version": 0,
				"gpa_system": {"preset": "4.3", "mode": "percent"},
				"letter_scale": [{"letter": "p", "min": 50, "max": 100}, {"letter": "f", "min": 0, "max": 49.9}],
				"notify_enabled": "false", "notify_toast": 0, "notify_banner": null
			}`,
			wantSystem: func() grading.System {
				sys := grading.DefaultSystem(grading.Preset43)
				sys.Mode = grading.ModePercent
				sys.MaxGPA = 4.0
				return sys
			}(),
			wantScale:  []scale.Band{{Letter: "P", Min: 50, Max: 100}, {Letter: "F", Min: 0, Max: 49.9}},
			wantNotify: Notifications{Enabled: false, Toast: false, Banner: true},
		},
		{
			name:       "4.3 preset with its max GPA",
			data:       `{"gpa_system": {"preset": "4.3", "max_gpa": "4.3"}}`,
			wantSystem: grading.DefaultSystem(grading.Preset43),
			wantScale:  []scale.Band{},
			wantNotify: Notifications{Enabled: true, Toast: true, Banner: true},
		},
		{
			name:       "mistyped values",
			data:       `{"gpa_system": "4.3", "letter_scale": "A: 90-100", "notify_enabled": "maybe"}`,
			wantSystem: grading.DefaultSystem(grading.Preset40),
			wantScale:  []scale.Band{},
			wantNotify: Notifications{Enabled: true, Toast: true, Banner: true},
		},
		{
			name: "mistyped table rows",
			data: `{
				"gpa_system": {"preset": "4.0", "letter_points": ["A", {"letter": "a", "points": 4}], "percent_points": {"min": 0}},
				"letter_scale": [{"letter": "p", "min": 50, "max": 100}, "F: 0-49"]
			}`,
			wantSystem: func() grading.System {
				sys := grading.DefaultSystem(grading.Preset40)
				sys.LetterPoints = []grading.LetterPoints{{Letter: "A", Points: 4}}
				return sys
			}(),
			wantScale:  []scale.Band{{Letter: "P", Min: 50, Max: 100}},
			wantNotify: Notifications{Enabled: true, Toast: true, Banner: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw Raw
			if err := json.Unmarshal([]byte(tt.data), &raw); err != nil {
				t.Fatal(err)
			}
			got := Resolve(&raw)
			assert.Equal(t, CurrentVersion, got.Version)
			assert.Equal(t, tt.wantSystem, got.GPASystem)
			assert.Equal(t, tt.wantScale, got.LetterScale)
			assert.Equal(t, tt.wantNotify, got.Notifications)
			assert.NoError(t, got.Validate())
		})
	}
}

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, grading.DefaultSystem(grading.Preset40), s.GPASystem)
	assert.Equal(t, scale.Default, s.EffectiveScale())
	assert.True(t, s.Notifications.Enabled)
}

func TestSettings_Converter(t *testing.T) {
	s, err := Default().WithLetterScaleText("P: 60-100\nF: 0-59.9")
	assert.NoError(t, err)

	cv := s.Converter()
	c := course.Course{ID: "c1"}
	assert.Equal(t, null.StringFrom("P"), cv.Letter(null.Float64From(75), c))
	// "P" has no grade points: percent table fallback
	assert.Equal(t, null.Float64From(2.0), cv.PercentToGradePoints(null.Float64From(75), c))
}

func TestSettings_WithLetterScaleText(t *testing.T) {
	base := Default()

	_, err := base.WithLetterScaleText("A: 90-100\nB 80 to 89")
	assert.Error(t, err)
	perr, ok := errors.Cause(err).(*scale.ParseError)
	if !ok {
		t.Fatalf("WithLetterScaleText() error = %v, want *scale.ParseError cause", err)
	}
	assert.Equal(t, "B 80 to 89", perr.Line)
	assert.Equal(t, "parsing letter scale: invalid line: B 80 to 89", err.Error())

	reset, err := base.WithLetterScaleText("  ")
	assert.NoError(t, err)
	assert.Empty(t, reset.LetterScale)
	assert.Equal(t, scale.Default, reset.EffectiveScale())
}

func TestSettings_WithGPASystem(t *testing.T) {
	base := Default()

	custom := base.GPASystem.WithPercentPoints(grading.PercentPoints{Min: 0, Max: 100, Points: 4})
	got, err := base.WithGPASystem(custom)
	assert.NoError(t, err)
	assert.Equal(t, grading.PresetCustom, got.GPASystem.Preset)
	assert.Equal(t, grading.Preset40, base.GPASystem.Preset)

	_, err = base.WithGPASystem(grading.System{Preset: grading.Preset40, Mode: grading.ModeLetter})
	assert.True(t, core.IsValidationError(err))

	assert.Equal(t, grading.DefaultSystem(grading.Preset43), got.ResetGPASystem(grading.Preset43).GPASystem)
}

func TestResolveProfile(t *testing.T) {
	assert.Equal(t, Profile{Username: "sam", TargetGPA: DefaultTargetGPA}, ResolveProfile(nil, "sam"))

	raw := &RawProfile{Username: " alex ", Major: "Physics", School: 42, TargetGPA: "3.8"}
	assert.Equal(t, Profile{Username: "alex", Major: "Physics", TargetGPA: 3.8}, ResolveProfile(raw, "sam"))

	var stored RawProfile
	if err := json.Unmarshal([]byte(`["alex"]`), &stored); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, Profile{Username: "sam", TargetGPA: DefaultTargetGPA}, ResolveProfile(&stored, "sam"))
}
