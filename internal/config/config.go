package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// LogLevelEnv overrides the default log level
const LogLevelEnv = "DUALSCOPE_LOG_LEVEL"

// NoDevice leaves a slot without a device; it stays silent.
const NoDevice = -1

// Values offered by the control panel.
var (
	ChannelOptions    = []int{1, 2}
	SampleRateOptions = []int{8000, 16000, 44100, 48000}
)

// Settings holds everything the program runs with. Nothing is persisted;
// every start begins from Default.
type Settings struct {
	FrameSize       int           `validate:"gt=0"`
	HistoryLength   int           `validate:"gt=0"`
	RefreshInterval time.Duration `validate:"gt=0"`
	LogLevel        string
	Selection       Selection
}

// Selection is what the control panel applies: a device per slot plus the
// channel count and sample rate shared by both slots.
type Selection struct {
	Devices    [2]int `validate:"dive,gte=-1"`
	Channels   int    `validate:"oneof=1 2"`
	SampleRate int    `validate:"oneof=8000 16000 44100 48000"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the startup settings
func Default() Settings {
	level := "info"
	if env := os.Getenv(LogLevelEnv); env != "" {
		level = strings.ToLower(env)
	}

	return Settings{
		FrameSize:       1024,
		HistoryLength:   1024,
		RefreshInterval: 50 * time.Millisecond,
		LogLevel:        level,
		Selection: Selection{
			Devices:    [2]int{0, 1},
			Channels:   1,
			SampleRate: 44100,
		},
	}
}

// Validate checks the settings and their selection.
func (s Settings) Validate() error {
	return check(s)
}

// Validate checks a selection before it is applied.
func (s Selection) Validate() error {
	return check(s)
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	ve := &ValidationError{}
	for _, e := range verrs {
		ve.Fields = append(ve.Fields, FieldError{
			Field:   e.Namespace(),
			Message: formatValidationMessage(e),
			Value:   e.Value(),
		})
	}
	return ve
}

// FieldError describes one invalid field.
type FieldError struct {
	Field   string
	Message string
	Value   any
}

// ValidationError collects every invalid field of a Settings or Selection.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s (got %v)", f.Field, f.Message, f.Value))
	}
	return "invalid settings: " + strings.Join(parts, "; ")
}

func formatValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
