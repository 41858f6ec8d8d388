package detector

import (
	"testing"
)

var registryCodes = []string{"en", "es", "fr", "de", "it", "pt", "nl", "zh", "ja", "ko"}

func newDetector(t *testing.T) *Detector {
	t.Helper()
	d, err := New(registryCodes)
	if err != nil {
		t.Fatalf("failed to create detector: %v", err)
	}
	return d
}

func TestDetector_DetectISO(t *testing.T) {
	d := newDetector(t)

	tests := []struct {
		name     string
		text     string
		wantCode string
		wantOK   bool
	}{
		{
			name:   "empty text",
			text:   "",
			wantOK: false,
		},
		{
			name:   "whitespace only",
			text:   "   \n\t",
			wantOK: false,
		},
		{
			name:     "english text",
			text:     "Hello, this is a test in English.",
			wantCode: "en",
			wantOK:   true,
		},
		{
			name:     "german text",
			text:     "Hallo, das ist ein Test auf Deutsch.",
			wantCode: "de",
			wantOK:   true,
		},
		{
			name:     "french text",
			text:     "Bonjour, ceci est un test en français.",
			wantCode: "fr",
			wantOK:   true,
		},
		{
			name:     "spanish text",
			text:     "Hola, esto es una prueba en español.",
			wantCode: "es",
			wantOK:   true,
		},
		{
			name:     "japanese text",
			text:     "これは日本語のテストです。",
			wantCode: "ja",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := d.DetectISO(tt.text)
			if ok != tt.wantOK {
				t.Errorf("DetectISO(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
				return
			}
			if tt.wantOK && code != tt.wantCode {
				t.Errorf("DetectISO(%q) = %q, want %q", tt.text, code, tt.wantCode)
			}
		})
	}
}

func TestNew_UnsupportedCode(t *testing.T) {
	if _, err := New([]string{"en", "zz"}); err == nil {
		t.Error("expected error for unsupported code")
	}
}

func TestNew_TooFewLanguages(t *testing.T) {
	if _, err := New([]string{"en"}); err == nil {
		t.Error("expected error for a single language")
	}
}

func TestDetector_ShortText(t *testing.T) {
	d := newDetector(t)

	code, ok := d.DetectISO("Hi")
	// Short text may or may not be detected, just check it doesn't panic
	_ = code
	_ = ok
}
