package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the application configuration, resolved once at startup and passed around explicitly.
type Config struct {
	AppName            string
	Env                string
	Debug              bool
	TestMode           bool
	Build              string
	WorkDir            string
	DataFile           string
	CalendarName       string
	DefaultTaskMinutes int
	ReminderAt         string // HH:MM, see services/reminder
	Timezone           string
	RollbarToken       string
	ServerHost         string // reported to Rollbar, the machine's hostname by default
}

// Location returns the configured time zone, UTC when unset or unknown.
func (conf *Config) Location() *time.Location {
	if conf.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func newViper() *viper.Viper {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Organizer")
	v.SetDefault("build", "dev")
	v.SetDefault("dataFile", "organizer_data.json")
	v.SetDefault("calendarName", "College Organizer")
	v.SetDefault("defaultTaskMinutes", 30)
	v.SetDefault("reminderAt", "07:00")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("serverHost", "")
	return v
}

// NewConfig loads the configuration from defaults, the optional `config/.env.<env>` file and the environment.
// ENV selects the environment: DEV (local; default), TEST, QA, PROD.
func NewConfig() (*Config, error) {
	v := newViper()

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	case "QA", "PROD":
		v.SetDefault("debug", false)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		AppName:            v.GetString("appName"),
		Env:                env,
		Debug:              v.GetBool("debug"),
		TestMode:           v.GetBool("testMode"),
		Build:              v.GetString("build"),
		WorkDir:            wd,
		DataFile:           v.GetString("dataFile"),
		CalendarName:       v.GetString("calendarName"),
		DefaultTaskMinutes: v.GetInt("defaultTaskMinutes"),
		ReminderAt:         v.GetString("reminderAt"),
		Timezone:           v.GetString("timezone"),
		RollbarToken:       v.GetString("rollbarToken"),
		ServerHost:         v.GetString("serverHost"),
	}
	if conf.ServerHost == "" {
		conf.ServerHost = hostname()
	}
	if conf.DefaultTaskMinutes <= 0 {
		conf.DefaultTaskMinutes = 30
	}
	if conf.DataFile != "" && !filepath.IsAbs(conf.DataFile) {
		conf.DataFile = filepath.Join(wd, conf.DataFile)
	}
	return conf, nil
}

func hostname() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return "localhost"
}

// Getwd tries to find the project root, i.e. the closest parent directory holding a go.mod file.
// go-test changes the working directory to the package being tested, so the cwd cannot be trusted.
// Falls back to the cwd outside of a source checkout.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}
