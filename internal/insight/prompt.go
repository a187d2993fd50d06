// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package insight

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/scoreazy/report-engine/pkg/types"
)

// analysisPromptTmpl instructs the model to turn raw score series into the
// three analysis lists as strict JSON.
var analysisPromptTmpl = template.Must(template.New("analysis").Parse(`ROLE: Educational Data Scientist
TASK: Analyze academic performance data

RAW SCORES (per subject, ordered current, prior-1, prior-2):
{{.Scores}}

PRECOMPUTED TRENDS (current vs oldest, cross-check your arithmetic):
{{.Trends}}

INSTRUCTIONS:
1. Calculate improvement percentage for each subject:
   improvement = ((current - oldest)/oldest * 100)
2. Identify top strength (subject with highest consistent scores)
3. Flag subjects with >15% score drop as URGENT
4. Format output as VALID JSON with these keys:
   - strengths: list of objects with "subject" and "evidence"
   - improvements: list of objects with "subject" and "trend" (percentage)
   - risks: list of objects with "subject" and "drop" (percentage)

OUTPUT ONLY JSON. No additional text or markdown.
`))

// narrativePromptTmpl instructs the model to write the one-page report body.
var narrativePromptTmpl = template.Must(template.New("narrative").Parse(`**ROLE**: Educational Psychologist
**LANGUAGE**: {{.Lang}} (B1 Level)
**STUDENT PROFILE**:
- Name: {{.Name}}
- Learning Style: {{.Style}}
- Accessibility Needs: {{.AccPref}}
- Teacher Feedback: "{{.TeacherQuote}}"

**PERFORMANCE ANALYSIS**:
{{.Analysis}}

**REQUIREMENTS**:
1. Generate a 1-page student report in plain text format
2. Structure with these sections:
[Top Strength Highlight]
[Learning Style Identification]
[Strengths List]
[Improvement Areas]
[Teacher Quote]
[Personalized Study Hacks]
3. Start with the ★ character for top strength
4. Include teacher quote verbatim
5. Suggest 2 {{.Style}}-specific study hacks
6. Use growth mindset language
7. Format for accessibility needs: {{.AccPref}}
8. Write at B1 language level

**OUTPUT INSTRUCTIONS**:
- Use plain text with line breaks only
- Never use markdown, HTML, or special formatting
- Keep entire report under 1000 characters
- Use emojis sparingly for emphasis
- Include all sections from requirements
`))

// analysisPrompt renders the structured-analysis request for a score map.
// The locally computed trend figures ride along so the model's arithmetic
// has a reference.
func analysisPrompt(subjects map[string][]float64) (string, error) {
	scores, err := json.MarshalIndent(subjects, "", "  ")
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = analysisPromptTmpl.Execute(&buf, struct{ Scores, Trends string }{string(scores), trendLines(subjects)})
	return buf.String(), err
}

// trendLines formats each subject's local trend percentage, flagging drops
// past the risk threshold.
func trendLines(subjects map[string][]float64) string {
	names := make([]string, 0, len(subjects))
	for s := range subjects {
		names = append(names, s)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, subject := range names {
		pct := Trend(subjects[subject])
		line := fmt.Sprintf("- %s: %+.1f%%", subject, pct)
		if -pct > riskDropPct {
			line += " (URGENT: drop exceeds 15%)"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// narrativePrompt renders the report-body request for a record and its
// analysis.
func narrativePrompt(rec types.StudentRecord, analysis types.AnalysisResult, style types.StyleLabel, teacherQuote string) (string, error) {
	aj, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = narrativePromptTmpl.Execute(&buf, struct {
		Name, Lang, AccPref, TeacherQuote, Analysis string
		Style                                       types.StyleLabel
	}{
		Name:         rec.DisplayName(),
		Lang:         rec.LangPref,
		AccPref:      rec.AccPref,
		TeacherQuote: teacherQuote,
		Analysis:     string(aj),
		Style:        style,
	})
	return buf.String(), err
}
