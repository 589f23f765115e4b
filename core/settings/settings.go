// Package settings resolves the stored, loosely typed user settings into one explicit, versioned value.
package settings

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/course"
	"github.com/trezcool/organizer/core/grading"
	"github.com/trezcool/organizer/core/scale"
)

// CurrentVersion is the settings version Resolve produces, whatever version was stored.
const CurrentVersion = 1

// DefaultTargetGPA is the target a profile gets when none is stored.
const DefaultTargetGPA = 3.5

// Raw is the stored shape of the settings.
type Raw struct {
	Version       interface{}        `json:"version"`
	GPASystem     *grading.RawSystem `json:"gpa_system"`
	LetterScale   course.RawBands    `json:"letter_scale"`
	NotifyEnabled interface{}        `json:"notify_enabled"`
	NotifyToast   interface{}        `json:"notify_toast"`
	NotifyBanner  interface{}        `json:"notify_banner"`
}

// UnmarshalJSON never fails: stored settings that are not an object resolve like missing ones.
func (raw *Raw) UnmarshalJSON(data []byte) error {
	type stored Raw
	var s stored
	if err := json.Unmarshal(data, &s); err != nil {
		s = stored{}
	}
	*raw = Raw(s)
	return nil
}

type Notifications struct {
	Enabled bool `json:"notify_enabled"`
	Toast   bool `json:"notify_toast"`
	Banner  bool `json:"notify_banner"`
}

type Settings struct {
	Version   int            `json:"version"`
	GPASystem grading.System `json:"gpa_system"`
	// LetterScale is the user's scale; empty means scale.Default.
	LetterScale   []scale.Band  `json:"letter_scale" validate:"dive"`
	Notifications Notifications `json:"notifications"`
}

// Default returns the settings of a new user.
func Default() Settings {
	return Resolve(nil)
}

// Resolve applies every settings fallback; nothing downstream needs to check for missing values.
func Resolve(raw *Raw) Settings {
	if raw == nil {
		raw = new(Raw)
	}
	return Settings{
		Version:     CurrentVersion,
		GPASystem:   grading.ResolveSystem(raw.GPASystem),
		LetterScale: course.NormalizeBands(raw.LetterScale),
		Notifications: Notifications{
			Enabled: core.BoolOr(raw.NotifyEnabled, true),
			Toast:   core.BoolOr(raw.NotifyToast, true),
			Banner:  core.BoolOr(raw.NotifyBanner, true),
		},
	}
}

func (s Settings) Validate() error { return core.ValidateStruct(s) }

// Converter returns the grade converter these settings describe.
func (s Settings) Converter() grading.Converter {
	return grading.NewConverter(s.GPASystem, s.LetterScale)
}

// EffectiveScale is the settings-level letter scale: the user's, else scale.Default.
func (s Settings) EffectiveScale() []scale.Band {
	if len(s.LetterScale) > 0 {
		return s.LetterScale
	}
	return scale.Default
}

// WithLetterScaleText returns a copy of the settings using the letter scale written in `text`.
// Blank text resets to the built-in scale.
func (s Settings) WithLetterScaleText(text string) (Settings, error) {
	bands, err := scale.Parse(text)
	if err != nil {
		return s, errors.Wrap(err, "parsing letter scale")
	}
	s.LetterScale = bands
	return s, nil
}

// WithGPASystem returns a copy of the settings using `sys`, which must be valid.
func (s Settings) WithGPASystem(sys grading.System) (Settings, error) {
	if err := sys.Validate(); err != nil {
		return s, err
	}
	s.GPASystem = sys
	return s, nil
}

// ResetGPASystem returns a copy of the settings back on the built-in system of `preset`.
func (s Settings) ResetGPASystem(preset string) Settings {
	s.GPASystem = grading.DefaultSystem(preset)
	return s
}

// RawProfile is the stored shape of the profile.
type RawProfile struct {
	Username  interface{} `json:"username"`
	Major     interface{} `json:"major"`
	School    interface{} `json:"school"`
	TargetGPA interface{} `json:"target_gpa"`
}

// UnmarshalJSON never fails: a stored profile that is not an object resolves like a missing one.
func (raw *RawProfile) UnmarshalJSON(data []byte) error {
	type stored RawProfile
	var s stored
	if err := json.Unmarshal(data, &s); err != nil {
		s = stored{}
	}
	*raw = RawProfile(s)
	return nil
}

type Profile struct {
	Username  string  `json:"username"`
	Major     string  `json:"major"`
	School    string  `json:"school"`
	TargetGPA float64 `json:"target_gpa"`
}

// ResolveProfile fills in the profile defaults; `username` is used when none is stored.
func ResolveProfile(raw *RawProfile, username string) Profile {
	if raw == nil {
		raw = new(RawProfile)
	}
	p := Profile{
		Username:  core.CleanString(stringOf(raw.Username)),
		Major:     core.CleanString(stringOf(raw.Major)),
		School:    core.CleanString(stringOf(raw.School)),
		TargetGPA: core.FloatOr(raw.TargetGPA, DefaultTargetGPA),
	}
	if p.Username == "" {
		p.Username = username
	}
	return p
}

func stringOf(v interface{}) string {
	s, _ := v.(string)
	return s
}
