package language

import (
	"errors"
	"testing"
)

func TestDefault_Table(t *testing.T) {
	r := Default()

	names := r.Names()
	if len(names) != 10 {
		t.Fatalf("expected 10 languages, got %d", len(names))
	}
	if names[0] != "English" || names[9] != "Korean" {
		t.Errorf("unexpected order: %v", names)
	}

	want := map[string]string{
		"English": "en", "Spanish": "es", "French": "fr", "German": "de",
		"Italian": "it", "Portuguese": "pt", "Dutch": "nl", "Chinese": "zh",
		"Japanese": "ja", "Korean": "ko",
	}
	for name, code := range want {
		got, err := r.CodeFor(name)
		if err != nil {
			t.Errorf("CodeFor(%q): unexpected error: %v", name, err)
			continue
		}
		if got != code {
			t.Errorf("CodeFor(%q) = %q, want %q", name, got, code)
		}
	}
}

func TestRegistry_CodeFor_Unknown(t *testing.T) {
	r := Default()

	_, err := r.CodeFor("Klingon")
	if err == nil {
		t.Fatal("expected error for unknown language")
	}
	if !errors.Is(err, ErrUnknownLanguage) {
		t.Errorf("expected ErrUnknownLanguage, got %v", err)
	}
}

func TestRegistry_NameFor(t *testing.T) {
	r := Default()

	name, err := r.NameFor("fr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "French" {
		t.Errorf("expected 'French', got %q", name)
	}

	if _, err := r.NameFor("xx"); !errors.Is(err, ErrUnknownLanguage) {
		t.Errorf("expected ErrUnknownLanguage, got %v", err)
	}
}

func TestRegistry_NamesIsCopy(t *testing.T) {
	r := Default()

	names := r.Names()
	names[0] = "Changed"

	if r.Names()[0] != "English" {
		t.Error("mutating Names() result must not affect the registry")
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{"duplicate name", []Entry{{"English", "en"}, {"English", "fr"}}},
		{"duplicate code", []Entry{{"English", "en"}, {"Anglais", "en"}}},
		{"empty code", []Entry{{"English", ""}}},
		{"empty name", []Entry{{"", "en"}}},
		{"invalid code", []Entry{{"Broken", "not a code"}}},
		{"reserved name", []Entry{{AutoDetect, "en"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.entries...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNew_Custom(t *testing.T) {
	r, err := New(Entry{"English", "en"}, Entry{"French", "fr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	codes := r.Codes()
	if len(codes) != 2 || codes[0] != "en" || codes[1] != "fr" {
		t.Errorf("unexpected codes: %v", codes)
	}
}

func TestEntry_NativeName(t *testing.T) {
	e := Entry{Name: "French", Code: "fr"}
	if got := e.NativeName(); got != "français" {
		t.Errorf("expected 'français', got %q", got)
	}
}
