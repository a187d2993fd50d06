// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

const contentWidth = pageWidth - 2*pageMargin

// pageBuilder lays styled blocks onto pages, starting a fresh page whenever
// a block would overflow the bottom margin.
type pageBuilder struct {
	face   font.Face
	preset Preset
	pages  []*gg.Context
	y      float64
}

func newPageBuilder(face font.Face, preset Preset) *pageBuilder {
	b := &pageBuilder{face: face, preset: preset}
	b.newPage()
	return b
}

func (b *pageBuilder) newPage() {
	dc := gg.NewContext(pageWidth, pageHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(b.face)
	dc.SetRGB(0, 0, 0)
	b.pages = append(b.pages, dc)
	b.y = pageMargin
}

func (b *pageBuilder) current() *gg.Context {
	return b.pages[len(b.pages)-1]
}

// ensureRoom starts a new page when height does not fit below the cursor.
// Blocks taller than a whole page are placed at the top and clipped.
func (b *pageBuilder) ensureRoom(height float64) {
	if b.y+height > pageHeight-pageMargin && b.y > pageMargin {
		b.newPage()
	}
}

// addTextBlock renders one paragraph as a wrapped, optionally highlighted
// block. Hard line breaks inside the paragraph are preserved.
func (b *pageBuilder) addTextBlock(text string) {
	dc := b.current()

	var lines []string
	for _, hard := range splitLines(text) {
		lines = append(lines, dc.WordWrap(hard, contentWidth)...)
	}
	if len(lines) == 0 {
		return
	}

	height := float64(len(lines)) * b.preset.Leading
	pad := 0.0
	if b.preset.Highlight != "" {
		pad = highlightPad
	}
	b.ensureRoom(height + 2*pad)
	dc = b.current()

	if b.preset.Highlight != "" {
		dc.SetHexColor(b.preset.Highlight)
		dc.DrawRectangle(pageMargin-pad, b.y, contentWidth+2*pad, height+2*pad)
		dc.Fill()
		dc.SetRGB(0, 0, 0)
	}

	ty := b.y + pad + b.preset.FontSize
	for _, line := range lines {
		dc.DrawString(line, pageMargin, ty)
		ty += b.preset.Leading
	}

	b.y += height + 2*pad + blockSpacing
}

// addImageBlock places a PNG at the cursor, scaled 1:1.
func (b *pageBuilder) addImageBlock(path string, size int) error {
	img, err := gg.LoadPNG(path)
	if err != nil {
		return err
	}

	b.ensureRoom(float64(size))
	b.current().DrawImage(img, pageMargin, int(b.y))
	b.y += float64(size) + blockSpacing
	return nil
}

// splitLines breaks a paragraph on single newlines.
func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
