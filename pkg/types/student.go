// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// StudentRecord is one validated roster row. Records are built by the
// record source and are not mutated afterwards.
type StudentRecord struct {
	// ID is the opaque, stable student identifier.
	ID string `json:"id" yaml:"id"`

	// Name is the display name ("Student" when absent).
	Name string `json:"name" yaml:"name"`

	// ContactEmail is the delivery address. May be empty or malformed;
	// the delivery channel guards against both.
	ContactEmail string `json:"contact_email" yaml:"contact_email"`

	// LangPref is the report language code (en, hi, es, fr, ar).
	LangPref string `json:"lang_pref" yaml:"lang_pref"`

	// AccPref is the accessibility preference tag (standard, adhd,
	// low-vision, dyslexic).
	AccPref string `json:"acc_pref" yaml:"acc_pref"`

	// Scores maps raw score fields to values, e.g. "Math_C": 85. Field
	// names are Subject_Period where the period is C (current), P1 or P2
	// (prior grading periods).
	Scores map[string]float64 `json:"scores" yaml:"scores"`

	// VARK holds up to four learning-style survey answers (letters A-D).
	VARK []string `json:"vark" yaml:"vark"`
}

// StyleLabel is a VARK learning-style classification.
type StyleLabel string

const (
	StyleVisual      StyleLabel = "Visual"
	StyleAural       StyleLabel = "Aural"
	StyleReadWrite   StyleLabel = "Read/Write"
	StyleKinesthetic StyleLabel = "Kinesthetic"
)

// StrengthEntry names a subject the student is strong in, with evidence.
type StrengthEntry struct {
	Subject  string `json:"subject" yaml:"subject"`
	Evidence string `json:"evidence" yaml:"evidence"`
}

// TrendEntry records the score trend of one subject as a percentage.
type TrendEntry struct {
	Subject string  `json:"subject" yaml:"subject"`
	Trend   float64 `json:"trend" yaml:"trend"`
}

// RiskEntry flags a subject whose score dropped past the risk threshold.
type RiskEntry struct {
	Subject string  `json:"subject" yaml:"subject"`
	Drop    float64 `json:"drop" yaml:"drop"`
}

// AnalysisResult is the per-record outcome of score analysis.
type AnalysisResult struct {
	Strengths    []StrengthEntry `json:"strengths" yaml:"strengths"`
	Improvements []TrendEntry    `json:"improvements" yaml:"improvements"`
	Risks        []RiskEntry     `json:"risks" yaml:"risks"`
}

// Empty reports whether the analysis produced no entries at all.
func (a AnalysisResult) Empty() bool {
	return len(a.Strengths) == 0 && len(a.Improvements) == 0 && len(a.Risks) == 0
}

// DisplayName returns the student's name, or "Student" when none is set.
func (r StudentRecord) DisplayName() string {
	if strings.TrimSpace(r.Name) == "" {
		return "Student"
	}
	return r.Name
}
