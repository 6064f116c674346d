package pdf

import "github.com/deppfellow/medical-prescription/internal/model"

// Points per inch.
const inch = 72.0

// layout holds page geometry in points. Y values of the decorations are
// measured from the bottom edge of the page.
type layout struct {
	width, height float64

	leftMargin, rightMargin float64
	topMargin, bottomMargin float64

	// footerRuleY is the 0.5pt rule spanning the page 66pt in from each side.
	footerRuleY float64

	// headerRuleY and headerRuleX2 describe the 0.3pt rule under the logo,
	// which starts at x=30.
	headerRuleY  float64
	headerRuleX2 float64

	// logoY is the bottom edge of the logo, drawn at x=30.
	logoY float64
}

const (
	decorationX   = 30.0
	footerRuleX   = 66.0
	logoSize      = 0.75 * inch
	counterHeight = 10.0
)

var layouts = map[model.PageSize]layout{
	model.PageSizeA4: {
		width: 595.2756, height: 841.8898,
		leftMargin: 100, rightMargin: 100, topMargin: 50, bottomMargin: 50,
		footerRuleY: 78,
		headerRuleY: 750, headerRuleX2: 580,
		logoY: 730,
	},
	model.PageSizeA5: {
		width: 419.5276, height: 595.2756,
		leftMargin: 50, rightMargin: 50, topMargin: 50, bottomMargin: 50,
		footerRuleY: 78,
		headerRuleY: 500, headerRuleX2: 390,
		logoY: 510,
	},
	model.PageSizeLetter: {
		width: 612, height: 792,
		leftMargin: 100, rightMargin: 100, topMargin: 50, bottomMargin: 50,
		footerRuleY: 78,
		headerRuleY: 700, headerRuleX2: 580,
		logoY: 730,
	},
}

// layoutFor falls back to A4 for unknown sizes.
func layoutFor(size model.PageSize) layout {
	if l, ok := layouts[size]; ok {
		return l
	}
	return layouts[model.PageSizeA4]
}

func (l layout) contentWidth() float64 {
	return l.width - l.leftMargin - l.rightMargin
}

// top converts a bottom-origin y coordinate into gofpdf's top-origin space.
func (l layout) top(y float64) float64 {
	return l.height - y
}

// footerBand returns the top of the footer paragraph and of the page counter
// for a footer footerHeight points tall. The counter sits below the footer so
// the two never overlap.
func (l layout) footerBand(footerHeight float64) (footerTop, counterTop float64) {
	if footerHeight <= 0 {
		return l.height, l.height - l.bottomMargin/2
	}
	footerTop = l.height - 2*footerHeight
	return footerTop, footerTop + footerHeight + 2
}
