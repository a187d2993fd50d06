// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scoreazy/report-engine/internal/logging"
	"github.com/scoreazy/report-engine/pkg/types"
)

func testRenderer(t *testing.T, tempDir string) *Renderer {
	t.Helper()
	r, err := NewRenderer(types.RenderConfig{
		TempDir:         tempDir,
		FeedbackBaseURL: "https://feedback.scoreazy.com",
	}, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestPresetFor(t *testing.T) {
	tests := []struct {
		pref string
		want string
	}{
		{"adhd", "adhd"},
		{"ADHD", "adhd"},
		{"low-vision", "low-vision"},
		{"standard", "base"},
		{"dyslexic", "base"}, // accepted input, no dedicated styling yet
		{"", "base"},
		{"something-else", "base"},
	}
	for _, tt := range tests {
		if got := PresetFor(tt.pref); got.Name != tt.want {
			t.Errorf("PresetFor(%q) = %s, want %s", tt.pref, got.Name, tt.want)
		}
	}
}

func TestPresetFor_DistinctStyles(t *testing.T) {
	base, adhd, low := PresetFor("standard"), PresetFor("adhd"), PresetFor("low-vision")

	if adhd.Name == base.Name || low.Name == base.Name {
		t.Error("adhd and low-vision must select presets distinct from base")
	}
	if adhd.Highlight == "" {
		t.Error("adhd preset should carry a highlight background")
	}
	if low.FontSize <= base.FontSize || low.Leading <= base.Leading {
		t.Error("low-vision preset should use a larger font and leading than base")
	}
}

func TestRender_WritesDocumentWithMetadata(t *testing.T) {
	dir := t.TempDir()
	r := testRenderer(t, filepath.Join(dir, "temp"))
	dest := filepath.Join(dir, "reports", "101_report.png")

	narrative := "★ Top Strength: Science\n\nLearning Style: Visual\n\nKeep practicing daily."
	doc, err := r.Render(narrative, "adhd", dest)
	if err != nil {
		t.Fatal(err)
	}

	if doc.Preset != "adhd" {
		t.Errorf("preset = %s, want adhd", doc.Preset)
	}
	if doc.Path != dest {
		t.Errorf("path = %s, want %s", doc.Path, dest)
	}
	if len(doc.Pages) == 0 {
		t.Fatal("no pages recorded")
	}
	for _, p := range doc.Pages {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("page %s not written: %v", p, err)
		}
	}
	if _, err := os.Stat(doc.QRPath); err != nil {
		t.Errorf("feedback code %s not written: %v", doc.QRPath, err)
	}
	if !strings.HasPrefix(filepath.Base(doc.QRPath), "101_") {
		t.Errorf("feedback code %s not keyed by report id", doc.QRPath)
	}
}

func TestRender_LongNarrativePaginates(t *testing.T) {
	dir := t.TempDir()
	r := testRenderer(t, filepath.Join(dir, "temp"))
	dest := filepath.Join(dir, "reports", "7_report.png")

	para := strings.Repeat("Growth mindset practice builds mastery over time. ", 20)
	long := strings.Repeat(para+"\n\n", 30)

	doc, err := r.Render(long, "standard", dest)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Pages) < 2 {
		t.Errorf("expected overflow onto a second page, got %d page(s)", len(doc.Pages))
	}
	if doc.Pages[0] != dest {
		t.Errorf("first page = %s, want destination %s", doc.Pages[0], dest)
	}
	if !strings.Contains(doc.Pages[1], "-p2") {
		t.Errorf("second page name = %s, want -p2 suffix", doc.Pages[1])
	}
}

func TestRender_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	r := testRenderer(t, filepath.Join(dir, "temp"))

	// A destination under an existing file cannot be created.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := r.Render("text", "standard", filepath.Join(blocker, "1_report.png"))
	if !errors.Is(err, ErrWrite) {
		t.Errorf("err = %v, want ErrWrite", err)
	}
}

func TestDocumentID(t *testing.T) {
	tests := []struct{ path, want string }{
		{"reports/101_report.png", "101"},
		{"101_report.png", "101"},
		{"reports/plain.png", "plain.png"},
	}
	for _, tt := range tests {
		if got := documentID(tt.path); got != tt.want {
			t.Errorf("documentID(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestSplitParagraphs(t *testing.T) {
	got := splitParagraphs("one\n\n\n\ntwo\n\n   \n\nthree")
	if len(got) != 3 {
		t.Fatalf("got %d paragraphs: %q", len(got), got)
	}
}
