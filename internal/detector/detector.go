// Package detector guesses the language of input text among the codes the
// registry offers, for requests that ask for automatic source detection.
package detector

import (
	"fmt"
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector restricted to the given ISO 639-1 codes. lingua needs
// at least two candidate languages.
func New(codes []string) (*Detector, error) {
	isoCodes := make([]lingua.IsoCode639_1, 0, len(codes))
	for _, c := range codes {
		iso := lingua.GetIsoCode639_1FromValue(c)
		if iso == lingua.UnknownIsoCode639_1 {
			return nil, fmt.Errorf("detector: unsupported language code %q", c)
		}
		isoCodes = append(isoCodes, iso)
	}
	if len(isoCodes) < 2 {
		return nil, fmt.Errorf("detector: need at least two languages, got %d", len(isoCodes))
	}

	detector := lingua.NewLanguageDetectorBuilder().
		FromIsoCodes639_1(isoCodes...).
		Build()

	return &Detector{detector: detector}, nil
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lower-case ISO 639-1 code of the detected language.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
