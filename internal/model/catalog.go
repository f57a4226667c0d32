// Package model defines the core data types for the quote service.
// Struct tags (the `json:"..."` and `db:"..."` annotations) tell serialization
// libraries how to map fields.
package model

// Theme pairs the short label shown to users with the longer description
// that frames the generation prompt.
type Theme struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Themes is the fixed theme catalog, in display order.
var Themes = []Theme{
	{"Inspiration & Motivation", "inspirational and motivational quotes that encourage personal growth"},
	{"Love & Relationships", "quotes about love, relationships, and human connection"},
	{"Philosophy & Wisdom", "philosophical quotes about life's deeper meanings"},
	{"Science & Innovation", "quotes about scientific discovery and innovation"},
	{"Art & Creativity", "quotes about artistic expression and creativity"},
}

// Eras is the fixed era catalog, oldest first.
var Eras = []string{
	"Pre-1900s",
	"1900-1950",
	"1950-1980",
	"1980-2000",
	"2000-Present",
}

var themesByLabel = func() map[string]Theme {
	m := make(map[string]Theme, len(Themes))
	for _, t := range Themes {
		m[t.Label] = t
	}
	return m
}()

// LookupTheme returns the catalog theme with the given label.
func LookupTheme(label string) (Theme, bool) {
	t, ok := themesByLabel[label]
	return t, ok
}

// ValidEra reports whether label is one of the catalog eras.
func ValidEra(label string) bool {
	for _, e := range Eras {
		if e == label {
			return true
		}
	}
	return false
}
