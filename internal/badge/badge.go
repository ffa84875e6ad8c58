package badge

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"text/template"

	"github.com/nao1215/coverflat/internal/coverage"
)

// Label is the text of the left badge segment.
const Label = "Coverage"

// Layout constants, in badge units. Text coordinates are scaled by
// textScale because the text group is drawn with transform="scale(.1)".
const (
	labelWidth    = 61
	charWidth     = 8.5
	valuePadding  = 10
	textScale     = 10
	textLengthPad = 100
)

// Badge colors.
const (
	ColorBrightGreen = "#4c1"
	ColorGreen       = "#97ca00"
	ColorYellow      = "#dfb317"
	ColorOrange      = "#fe7d37"
	ColorRed         = "#e05d44"
)

// colorBands maps minimum percentages to colors, highest first.
var colorBands = []struct {
	min   float64
	color string
}{
	{95, ColorBrightGreen},
	{90, ColorGreen},
	{75, ColorYellow},
	{50, ColorOrange},
}

//go:embed badge.svg.tmpl
var svgTemplate string

var tmpl = template.Must(template.New("badge").Parse(svgTemplate))

// Spec holds the text, color and geometry of one badge.
type Spec struct {
	Label string
	Value string
	Color string

	LabelWidth int
	ValueWidth int
	TotalWidth int

	// LabelX and ValueX are the segment midpoints in scaled text coordinates.
	LabelX int
	ValueX int

	LabelTextLength int
	ValueTextLength int
}

// ColorFor returns the badge color for a coverage percentage.
func ColorFor(percent float64) string {
	for _, band := range colorBands {
		if percent >= band.min {
			return band.color
		}
	}
	return ColorRed
}

// NewSpec computes the badge for a line-rate string such as "0.87".
// An unparsable rate renders as 0%.
func NewSpec(rate string) Spec {
	percent := coverage.Percent(rate)
	value := fmt.Sprintf("%d%%", int(percent))
	valueWidth := int(math.Round(float64(len(value))*charWidth)) + valuePadding

	return Spec{
		Label:           Label,
		Value:           value,
		Color:           ColorFor(percent),
		LabelWidth:      labelWidth,
		ValueWidth:      valueWidth,
		TotalWidth:      labelWidth + valueWidth,
		LabelX:          int(float64(labelWidth) / 2 * textScale),
		ValueX:          int((float64(labelWidth) + float64(valueWidth)/2) * textScale),
		LabelTextLength: labelWidth*textScale - textLengthPad,
		ValueTextLength: valueWidth*textScale - textLengthPad,
	}
}

// Render writes the badge SVG to w.
func Render(w io.Writer, spec Spec) error {
	return tmpl.Execute(w, spec)
}

// WriteFile renders the badge to path, creating parent directories and
// overwriting any existing file.
func WriteFile(path string, spec Spec) error {
	var buf bytes.Buffer
	if err := Render(&buf, spec); err != nil {
		return fmt.Errorf("failed to render badge: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // badge is a published asset
		return fmt.Errorf("failed to write badge: %w", err)
	}
	return nil
}
