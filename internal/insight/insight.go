// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package insight derives analytical signals from a student record: per-
// subject score trends, a VARK learning-style label, and a generated
// narrative report body. Narrative prose comes from a generative text
// backend; every backend failure degrades to a deterministic local fallback
// so one student's report never stops the batch.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/scoreazy/report-engine/internal/logging"
	"github.com/scoreazy/report-engine/internal/retry"
	"github.com/scoreazy/report-engine/pkg/types"
)

// scorePeriods is the fixed collection order: current first, oldest last.
var scorePeriods = []string{"C", "P1", "P2"}

// riskDropPct is the score-drop percentage past which a subject is flagged.
const riskDropPct = 15.0

// TextBackend abstracts the generative text service so tests can supply a
// mock. GenerateJSON requests strictly-structured output; GenerateText
// requests plain prose.
type TextBackend interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Engine computes analysis signals for one record at a time.
type Engine struct {
	backend TextBackend
	policy  retry.Policy
	log     *logging.Logger
}

// NewEngine builds an Engine around a text backend. The retry policy
// applies uniformly to both backend calls.
func NewEngine(backend TextBackend, policy retry.Policy, log *logging.Logger) *Engine {
	return &Engine{backend: backend, policy: policy, log: log.With("component", "insight")}
}

// ExtractSubjectScores collects each subject's available period scores in
// current/prior-1/prior-2 order. Subjects with fewer than two values are
// excluded: a single point has no trend.
func ExtractSubjectScores(rec types.StudentRecord) map[string][]float64 {
	subjects := make(map[string][]float64)
	names := make([]string, 0, len(rec.Scores))
	for field := range rec.Scores {
		if strings.HasSuffix(field, "_C") {
			names = append(names, strings.SplitN(field, "_", 2)[0])
		}
	}
	sort.Strings(names)

	for _, subject := range names {
		var scores []float64
		for _, period := range scorePeriods {
			if v, ok := rec.Scores[subject+"_"+period]; ok {
				scores = append(scores, v)
			}
		}
		if len(scores) >= 2 {
			subjects[subject] = scores
		}
	}
	return subjects
}

// Trend returns the improvement percentage for a score series ordered
// current-first: (current − oldest) / oldest × 100.
func Trend(scores []float64) float64 {
	current, oldest := scores[0], scores[len(scores)-1]
	return (current - oldest) / oldest * 100
}

// ClassifyVARK maps the record's survey answers to a learning-style label.
// The most frequent answer wins; ties resolve to the answer encountered
// first, and missing or unmapped answers default to Visual.
func ClassifyVARK(rec types.StudentRecord) types.StyleLabel {
	if len(rec.VARK) == 0 {
		return types.StyleVisual
	}

	counts := make(map[string]int)
	var order []string
	for _, raw := range rec.VARK {
		answer := strings.ToUpper(strings.TrimSpace(raw))
		if counts[answer] == 0 {
			order = append(order, answer)
		}
		counts[answer]++
	}

	best, bestCount := "", 0
	for _, answer := range order {
		if counts[answer] > bestCount {
			best, bestCount = answer, counts[answer]
		}
	}

	switch best {
	case "A":
		return types.StyleVisual
	case "B":
		return types.StyleAural
	case "C":
		return types.StyleReadWrite
	case "D":
		return types.StyleKinesthetic
	default:
		return types.StyleVisual
	}
}

// Analyze asks the backend to turn the record's score series into the three
// analysis lists. No qualifying subjects yields an empty result; a backend
// that stays down through the retry budget yields the generic fallback.
func (e *Engine) Analyze(ctx context.Context, rec types.StudentRecord) types.AnalysisResult {
	subjects := ExtractSubjectScores(rec)
	if len(subjects) == 0 {
		return types.AnalysisResult{}
	}

	prompt, err := analysisPrompt(subjects)
	if err != nil {
		e.log.Error("building analysis prompt", "error", err)
		return fallbackAnalysis()
	}

	result, err := retry.Do(ctx, e.policy, func(ctx context.Context) (types.AnalysisResult, error) {
		raw, err := e.backend.GenerateJSON(ctx, prompt)
		if err != nil {
			return types.AnalysisResult{}, err
		}
		var parsed types.AnalysisResult
		if err := json.Unmarshal([]byte(stripJSONFences(raw)), &parsed); err != nil {
			return types.AnalysisResult{}, fmt.Errorf("parsing analysis response: %w", err)
		}
		return parsed, nil
	})
	if err != nil {
		e.log.Error("score analysis failed, using fallback", "error", err)
		return fallbackAnalysis()
	}
	return result
}

// fallbackAnalysis is the documented degrade shape: one generic strength,
// nothing else.
func fallbackAnalysis() types.AnalysisResult {
	return types.AnalysisResult{
		Strengths: []types.StrengthEntry{
			{Subject: "General", Evidence: "Good overall performance"},
		},
	}
}

// GenerateNarrative asks the backend for the single-page report body. When
// the backend stays down it assembles the fixed local template instead, so
// the teacher quote and study tips still reach the student.
func (e *Engine) GenerateNarrative(ctx context.Context, rec types.StudentRecord, analysis types.AnalysisResult, style types.StyleLabel, teacherQuote string) string {
	prompt, err := narrativePrompt(rec, analysis, style, teacherQuote)
	if err != nil {
		e.log.Error("building narrative prompt", "error", err)
		return fallbackNarrative(style, teacherQuote)
	}

	text, err := retry.Do(ctx, e.policy, func(ctx context.Context) (string, error) {
		out, err := e.backend.GenerateText(ctx, prompt)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(out) == "" {
			return "", fmt.Errorf("empty narrative response")
		}
		return out, nil
	})
	if err != nil {
		e.log.Error("narrative generation failed, using fallback", "error", err)
		return fallbackNarrative(style, teacherQuote)
	}
	return text
}

// fallbackNarrative is the fixed-template report body used when generation
// is unavailable. The teacher quote is carried verbatim.
func fallbackNarrative(style types.StyleLabel, teacherQuote string) string {
	return fmt.Sprintf(`★ Top Strength: General Academic Performance
Learning Style: %s

STRENGTHS:
- Good overall engagement

IMPROVEMENT AREAS:
- Focus on consistent practice

TEACHER FEEDBACK:
%s

STUDY SUGGESTIONS:
1. Try visual diagrams for complex concepts
2. Review material regularly`, style, teacherQuote)
}

// stripJSONFences removes markdown code fences some models wrap JSON in.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
