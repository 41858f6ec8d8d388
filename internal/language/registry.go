// Package language holds the fixed table of languages offered for translation
// and maps display names to the short codes used in model identifiers.
package language

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// AutoDetect is the pseudo source language that asks for detection of the
// input text's language instead of an explicit choice.
const AutoDetect = "Detect language"

var ErrUnknownLanguage = errors.New("unknown language")

// Entry pairs a display name with its model-naming code.
type Entry struct {
	Name string
	Code string
}

func (e Entry) Tag() language.Tag {
	return language.Make(e.Code)
}

// NativeName returns the language's name in itself, e.g. "français" for fr.
func (e Entry) NativeName() string {
	return display.Self.Name(e.Tag())
}

var defaultEntries = []Entry{
	{Name: "English", Code: "en"},
	{Name: "Spanish", Code: "es"},
	{Name: "French", Code: "fr"},
	{Name: "German", Code: "de"},
	{Name: "Italian", Code: "it"},
	{Name: "Portuguese", Code: "pt"},
	{Name: "Dutch", Code: "nl"},
	{Name: "Chinese", Code: "zh"},
	{Name: "Japanese", Code: "ja"},
	{Name: "Korean", Code: "ko"},
}

// Registry is immutable after construction and safe for concurrent use.
type Registry struct {
	entries []Entry
	byName  map[string]Entry
	byCode  map[string]Entry
}

func New(entries ...Entry) (*Registry, error) {
	r := &Registry{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]Entry, len(entries)),
		byCode:  make(map[string]Entry, len(entries)),
	}

	for _, e := range entries {
		if e.Name == "" || e.Code == "" {
			return nil, fmt.Errorf("language entry %+v: name and code are required", e)
		}
		if e.Name == AutoDetect {
			return nil, fmt.Errorf("language name %q is reserved", e.Name)
		}
		if _, err := language.Parse(e.Code); err != nil {
			return nil, fmt.Errorf("language %q: invalid code %q: %w", e.Name, e.Code, err)
		}
		if _, dup := r.byName[e.Name]; dup {
			return nil, fmt.Errorf("duplicate language name %q", e.Name)
		}
		if _, dup := r.byCode[e.Code]; dup {
			return nil, fmt.Errorf("duplicate language code %q", e.Code)
		}
		r.entries = append(r.entries, e)
		r.byName[e.Name] = e
		r.byCode[e.Code] = e
	}

	return r, nil
}

// Default returns the built-in table of ten common languages.
func Default() *Registry {
	r, err := New(defaultEntries...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) CodeFor(name string) (string, error) {
	e, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
	}
	return e.Code, nil
}

func (r *Registry) NameFor(code string) (string, error) {
	e, ok := r.byCode[code]
	if !ok {
		return "", fmt.Errorf("%w: code %q", ErrUnknownLanguage, code)
	}
	return e.Name, nil
}

// Names returns the display names in table order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Codes returns the language codes in table order.
func (r *Registry) Codes() []string {
	codes := make([]string, len(r.entries))
	for i, e := range r.entries {
		codes[i] = e.Code
	}
	return codes
}

func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
