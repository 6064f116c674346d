// Package pdf renders prescriptions into printable documents following the
// page size, fonts, header, footer and logo of a Pattern.
package pdf

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/deppfellow/medical-prescription/internal/model"
)

const (
	ContentType = "application/pdf"

	logoImageName = "pattern-logo"

	headingFontSize = 18.0
	headingLeading  = 22.0
	headingSpace    = 6.0

	minLeading = 12.0
)

var fontFamilies = map[string]string{
	model.FontHelvetica: "Helvetica",
	model.FontTimes:     "Times",
	model.FontCourier:   "Courier",
}

var imageTypes = map[string]string{
	"image/png":  "PNG",
	"image/jpeg": "JPG",
	"image/gif":  "GIF",
}

// Printer renders prescriptions. The zero value is ready to use.
type Printer struct {
	// Author is written into the document metadata when set.
	Author string
}

func NewPrinter() *Printer {
	return &Printer{}
}

// Render draws the prescription with the given pattern and returns the PDF.
func (pr *Printer) Render(p *model.Prescription, pattern *model.Pattern) ([]byte, error) {
	if p == nil || pattern == nil {
		return nil, fmt.Errorf("pdf: prescription and pattern are required")
	}

	lay := layoutFor(pattern.PageSize)
	family, ok := fontFamilies[pattern.Font]
	if !ok {
		family = fontFamilies[model.FontHelvetica]
	}
	fontSize := float64(clamp(pattern.FontSize, model.MinFontSize, model.MaxFontSize))
	leading := math.Max(minLeading, fontSize*1.2)

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: lay.width, Ht: lay.height},
	})
	doc.SetMargins(lay.leftMargin, lay.topMargin, lay.rightMargin)
	doc.SetAutoPageBreak(true, lay.bottomMargin)
	doc.AliasNbPages("")

	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetTitle(tr("Receituário - "+p.PatientName), false)
	if pr.Author != "" {
		doc.SetAuthor(tr(pr.Author), false)
	}

	var logoType string
	if pattern.HasLogo() {
		var known bool
		logoType, known = imageTypes[*pattern.LogoType]
		if !known {
			return nil, fmt.Errorf("pdf: unsupported logo type %q", *pattern.LogoType)
		}
		doc.RegisterImageOptionsReader(logoImageName, gofpdf.ImageOptions{ImageType: logoType}, bytes.NewReader(pattern.Logo))
	}

	doc.SetHeaderFuncMode(func() {
		doc.SetFont(family, "", fontSize)
		doc.SetXY(lay.leftMargin, lay.topMargin)
		doc.MultiCell(lay.contentWidth(), leading, tr(pattern.Header), "", "R", false)

		doc.SetLineWidth(0.5)
		doc.Line(footerRuleX, lay.top(lay.footerRuleY), lay.width-footerRuleX, lay.top(lay.footerRuleY))
		doc.SetLineWidth(0.3)
		doc.Line(decorationX, lay.top(lay.headerRuleY), lay.headerRuleX2, lay.top(lay.headerRuleY))

		if logoType != "" {
			doc.ImageOptions(logoImageName, decorationX, lay.top(lay.logoY)-logoSize, logoSize, logoSize,
				false, gofpdf.ImageOptions{ImageType: logoType}, 0, "")
		}
	}, true)

	doc.SetFooterFunc(func() {
		doc.SetFont(family, "", fontSize)
		footer := strings.TrimSpace(pattern.Footer)
		var h float64
		if footer != "" {
			h = float64(len(doc.SplitLines([]byte(tr(footer)), lay.contentWidth()))) * leading
		}
		footerTop, counterTop := lay.footerBand(h)
		if footer != "" {
			doc.SetXY(lay.leftMargin, footerTop)
			doc.MultiCell(lay.contentWidth(), leading, tr(footer), "", "C", false)
		}

		doc.SetFont(family, "", 8)
		doc.SetXY(lay.leftMargin, counterTop)
		doc.CellFormat(lay.contentWidth(), counterHeight, tr(fmt.Sprintf("Página %d de {nb}", doc.PageNo())), "", 0, "R", false, 0, "")
	})

	doc.AddPage()

	for _, el := range Elements(p) {
		switch el.Kind {
		case KindSpacer:
			doc.Ln(el.Height)
		case KindHeading:
			doc.SetFont(family, "B", headingFontSize)
			doc.MultiCell(0, headingLeading, tr(el.Text), "", "L", false)
			doc.Ln(headingSpace)
		case KindParagraph:
			doc.SetFont(family, "", fontSize)
			doc.MultiCell(0, leading, tr(el.Text), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: rendering prescription %s: %w", p.ID, err)
	}

	return buf.Bytes(), nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
