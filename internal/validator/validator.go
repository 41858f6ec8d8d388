// Package validator checks that a translation came out in the target language.
package validator

import (
	"fmt"
	"strings"
)

// minValidationLength is the rune count below which detection is too
// unreliable to judge.
const minValidationLength = 20

type Detector interface {
	DetectISO(text string) (string, bool)
}

type Validator struct {
	det Detector
}

func New(det Detector) *Validator {
	return &Validator{det: det}
}

// Check returns an error when text is detected as a language other than
// targetCode. Short text and text in no recognisable language pass.
func (v *Validator) Check(text, targetCode string) error {
	if targetCode == "" {
		return nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("translation is empty")
	}
	if len([]rune(text)) < minValidationLength {
		return nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		return nil
	}
	if !strings.EqualFold(detected, targetCode) {
		return fmt.Errorf("expected %s but detected %s", targetCode, detected)
	}
	return nil
}
