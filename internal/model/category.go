package model

import "strings"

// Category is one of the four developmental talk categories every
// transcript is scored against. The set is closed: all four are always
// scored together.
type Category string

const (
	CategoryScience    Category = "science"
	CategorySocial     Category = "social"
	CategoryLiterature Category = "literature"
	CategoryLanguage   Category = "language"
)

// Categories returns the four categories in canonical order.
func Categories() []Category {
	return []Category{CategoryScience, CategorySocial, CategoryLiterature, CategoryLanguage}
}

// DisplayName returns the dashboard-facing name of the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryScience:
		return "Science Talk"
	case CategorySocial:
		return "Social Talk"
	case CategoryLiterature:
		return "Literature Talk"
	case CategoryLanguage:
		return "Language Development"
	}
	return string(c)
}

// ParseCategory maps a category spelling to its canonical value. Both the
// short names ("science") and the dashboard field names ("scienceTalk",
// "languageDevelopment") are accepted, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "science", "sciencetalk":
		return CategoryScience, true
	case "social", "socialtalk":
		return CategorySocial, true
	case "literature", "literaturetalk":
		return CategoryLiterature, true
	case "language", "languagedevelopment":
		return CategoryLanguage, true
	}
	return "", false
}
