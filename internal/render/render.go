// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns a narrative report body into a paginated document.
// Pages are US-Letter PNG images drawn with one of three accessibility
// style presets; the final block is a scannable feedback code tied to the
// document's identifier.
package render

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/scoreazy/report-engine/internal/logging"
	"github.com/scoreazy/report-engine/pkg/types"
)

// ErrWrite marks a document write failure. Fatal for the affected record
// only; the pipeline skips delivery and moves on.
var ErrWrite = errors.New("writing report document")

// Page geometry: US Letter at 96 dpi.
const (
	pageWidth  = 816
	pageHeight = 1056
	pageMargin = 72

	blockSpacing = 12
	highlightPad = 5

	qrSize = 100
)

// Preset is a named block style.
type Preset struct {
	Name      string
	FontSize  float64
	Leading   float64
	Highlight string // background hex for highlighted blocks, empty for none
}

var (
	presetBase      = Preset{Name: "base", FontSize: 10, Leading: 15}
	presetADHD      = Preset{Name: "adhd", FontSize: 10, Leading: 15, Highlight: "#E6F2FF"}
	presetLowVision = Preset{Name: "low-vision", FontSize: 14, Leading: 20}
)

// PresetFor maps an accessibility preference to a style preset. The
// "dyslexic" preference currently falls through to base: a dedicated
// dyslexia-friendly preset (font and spacing) has not been designed yet,
// so the fallback is deliberate rather than a silent typo.
func PresetFor(pref string) Preset {
	switch strings.ToLower(strings.TrimSpace(pref)) {
	case "adhd":
		return presetADHD
	case "low-vision":
		return presetLowVision
	default:
		return presetBase
	}
}

// Document is the rendered artifact for one record.
type Document struct {
	// Path is the primary destination (the first page).
	Path string
	// Pages lists every page file in order, Path included.
	Pages []string
	// Preset names the style preset the document was rendered with.
	Preset string
	// QRPath is the staged feedback code image.
	QRPath string
}

// Renderer draws report documents. Safe to reuse across records.
type Renderer struct {
	log         *logging.Logger
	cfg         types.RenderConfig
	fnt         *truetype.Font
	qrGenerator func(url string, size int) (image.Image, error)
}

// NewRenderer parses the embedded typeface and prepares a renderer.
func NewRenderer(cfg types.RenderConfig, log *logging.Logger) (*Renderer, error) {
	fnt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing typeface: %w", err)
	}
	return &Renderer{
		log:         log.With("component", "render"),
		cfg:         cfg,
		fnt:         fnt,
		qrGenerator: qrImage,
	}, nil
}

// face builds a typeface face at the preset's size.
func (r *Renderer) face(p Preset) font.Face {
	return truetype.NewFace(r.fnt, &truetype.Options{Size: p.FontSize, DPI: 96, Hinting: font.HintingFull})
}

// Render writes the narrative to destination as one or more PNG pages
// styled for the accessibility preference, appending the feedback code as
// the final block. Intermediate directories are created. A write failure
// returns an error wrapping ErrWrite.
func (r *Renderer) Render(narrative, accPref, destination string) (*Document, error) {
	preset := PresetFor(accPref)
	doc := &Document{Path: destination, Preset: preset.Name}

	pb := newPageBuilder(r.face(preset), preset)
	for _, para := range splitParagraphs(narrative) {
		pb.addTextBlock(para)
	}

	reportID := documentID(destination)
	qrPath, err := r.stageFeedbackCode(reportID)
	if err != nil {
		return nil, err
	}
	doc.QRPath = qrPath
	if err := pb.addImageBlock(qrPath, qrSize); err != nil {
		return nil, fmt.Errorf("%w: placing feedback code: %v", ErrWrite, err)
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrWrite, filepath.Dir(destination), err)
	}

	for i, page := range pb.pages {
		path := pagePath(destination, i)
		if err := page.SavePNG(path); err != nil {
			return nil, fmt.Errorf("%w: saving %s: %v", ErrWrite, path, err)
		}
		doc.Pages = append(doc.Pages, path)
	}

	r.log.Info("document rendered", "path", destination, "pages", len(doc.Pages), "preset", preset.Name)
	return doc, nil
}

// stageFeedbackCode writes the QR image for a report into the temp
// directory and returns its path.
func (r *Renderer) stageFeedbackCode(reportID string) (string, error) {
	if err := os.MkdirAll(r.cfg.TempDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating %s: %v", ErrWrite, r.cfg.TempDir, err)
	}

	url := fmt.Sprintf("%s?report=%s", r.cfg.FeedbackBaseURL, reportID)
	img, err := r.qrGenerator(url, qrSize)
	if err != nil {
		return "", fmt.Errorf("%w: encoding feedback code: %v", ErrWrite, err)
	}

	path := filepath.Join(r.cfg.TempDir, reportID+"_feedback.png")
	if err := gg.SavePNG(path, img); err != nil {
		return "", fmt.Errorf("%w: saving %s: %v", ErrWrite, path, err)
	}
	return path, nil
}

// documentID derives the short report identifier from a destination path:
// the basename up to the first underscore.
func documentID(destination string) string {
	base := filepath.Base(destination)
	return strings.SplitN(base, "_", 2)[0]
}

// pagePath names page i of a document: the destination itself for page 0,
// a -pN suffix before the extension for overflow pages.
func pagePath(destination string, i int) string {
	if i == 0 {
		return destination
	}
	ext := filepath.Ext(destination)
	return fmt.Sprintf("%s-p%d%s", strings.TrimSuffix(destination, ext), i+1, ext)
}

// splitParagraphs breaks a narrative on blank-line boundaries, dropping
// empty blocks.
func splitParagraphs(narrative string) []string {
	var out []string
	for _, p := range strings.Split(narrative, "\n\n") {
		if strings.TrimSpace(p) != "" {
			out = append(out, strings.TrimSpace(p))
		}
	}
	return out
}
