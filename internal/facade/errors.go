package facade

import (
	"errors"
	"fmt"

	"github.com/valpere/opustran/internal/language"
)

var (
	// ErrSameLanguage is an expected input state, shown as a warning.
	ErrSameLanguage = errors.New("source and target languages must be different")
	ErrEmptyInput   = errors.New("input text is empty")
	// ErrLanguageNotDetected is returned when automatic source detection is
	// requested but yields no registered language.
	ErrLanguageNotDetected = errors.New("source language could not be detected")
)

// ModelLoadError reports that no engine could be built for a model
// identifier. It is never cached; the next request loads again.
type ModelLoadError struct {
	ModelID string
	Err     error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("failed to load model %s: %v", e.ModelID, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// TranslationError reports that a loaded engine failed to produce output.
// Message is human-readable; Err is the runtime cause when there is one.
type TranslationError struct {
	ModelID string
	Message string
	Err     error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation with %s failed: %s", e.ModelID, e.Message)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Message is a failure rendered for the end user.
type Message struct {
	Severity Severity
	Text     string
}

// Describe converts any error returned by the facade into a user-visible
// message. A nil error yields an empty info message.
func Describe(err error) Message {
	var (
		loadErr  *ModelLoadError
		transErr *TranslationError
	)

	switch {
	case err == nil:
		return Message{Severity: SeverityInfo}
	case errors.Is(err, ErrSameLanguage):
		return Message{Severity: SeverityWarning, Text: "Source and target languages must be different."}
	case errors.Is(err, ErrLanguageNotDetected):
		return Message{Severity: SeverityWarning, Text: "Could not detect the source language. Please select it explicitly."}
	case errors.Is(err, ErrEmptyInput):
		return Message{Severity: SeverityError, Text: "Please enter some text."}
	case errors.Is(err, language.ErrUnknownLanguage):
		return Message{Severity: SeverityError, Text: fmt.Sprintf("Unsupported language selection: %v", err)}
	case errors.As(err, &loadErr):
		return Message{Severity: SeverityError, Text: fmt.Sprintf("Could not load translation model %s: %v", loadErr.ModelID, loadErr.Err)}
	case errors.As(err, &transErr):
		return Message{Severity: SeverityError, Text: fmt.Sprintf("Error during translation: %s", transErr.Message)}
	default:
		return Message{Severity: SeverityError, Text: fmt.Sprintf("Error during translation: %v", err)}
	}
}
