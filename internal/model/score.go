package model

import "math"

// ScoreVector holds one 0-100 integer score per category. The JSON field
// names match the assessment records the dashboard stores.
type ScoreVector struct {
	Science    int `json:"scienceTalk" yaml:"scienceTalk"`
	Social     int `json:"socialTalk" yaml:"socialTalk"`
	Literature int `json:"literatureTalk" yaml:"literatureTalk"`
	Language   int `json:"languageDevelopment" yaml:"languageDevelopment"`
}

// Get returns the score for a category.
func (v ScoreVector) Get(c Category) int {
	switch c {
	case CategoryScience:
		return v.Science
	case CategorySocial:
		return v.Social
	case CategoryLiterature:
		return v.Literature
	case CategoryLanguage:
		return v.Language
	}
	return 0
}

// Set assigns the score for a category.
func (v *ScoreVector) Set(c Category, score int) {
	switch c {
	case CategoryScience:
		v.Science = score
	case CategorySocial:
		v.Social = score
	case CategoryLiterature:
		v.Literature = score
	case CategoryLanguage:
		v.Language = score
	}
}

// IsZero reports whether every category scored zero.
func (v ScoreVector) IsZero() bool {
	return v.Science == 0 && v.Social == 0 && v.Literature == 0 && v.Language == 0
}

// NormalizeScore coerces a raw score into a valid integer score:
// clamped to [0,100] and rounded. NaN and infinities become 0.
func NormalizeScore(x float64) int {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return int(math.Round(x))
}

// NormalizeVector applies NormalizeScore to every field of a raw
// per-category score map. Missing categories coerce to 0.
func NormalizeVector(raw map[Category]float64) ScoreVector {
	var v ScoreVector
	for _, c := range Categories() {
		v.Set(c, NormalizeScore(raw[c]))
	}
	return v
}
