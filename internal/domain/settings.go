package domain

import "fmt"

// Unit selects which stored temperature is displayed.
type Unit string

const (
	Celsius    Unit = "C"
	Fahrenheit Unit = "F"
)

// Toggle returns the other unit.
func (u Unit) Toggle() Unit {
	if u == Fahrenheit {
		return Celsius
	}
	return Fahrenheit
}

// ParseUnit accepts "C"/"F" in either case.
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "C", "c":
		return Celsius, nil
	case "F", "f":
		return Fahrenheit, nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// Theme is the light/dark display flag.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Language is a provider language code.
type Language string

const DefaultLanguage Language = "en"

// LanguageOption pairs a supported code with its selector label.
type LanguageOption struct {
	Code  Language
	Label string
}

// Languages is the fixed, ordered set offered by the language selector.
var Languages = []LanguageOption{
	{Code: "en", Label: "🇬🇧 EN"},
	{Code: "hi", Label: "🇮🇳 HI"},
	{Code: "bn", Label: "🇮🇳 বাংলা"},
	{Code: "es", Label: "🇪🇸 ES"},
	{Code: "ja", Label: "🇯🇵 JA"},
	{Code: "fr", Label: "🇫🇷 FR"},
}

// Supported reports whether the code is in Languages.
func (l Language) Supported() bool {
	for _, opt := range Languages {
		if opt.Code == l {
			return true
		}
	}
	return false
}
