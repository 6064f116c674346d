package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/uuid"

	"github.com/deppfellow/medical-prescription/internal/model"
)

func samplePrescription() *model.Prescription {
	return &model.Prescription{
		ID:          uuid.New(),
		PatientName: "João da Silva",
		Medicines: []model.PrescribedMedicine{
			{Name: "Dipirona 500mg", Via: "Via Oral", Posology: "1 comprimido a cada 6 horas", Quantity: 2},
		},
		ManipulatedMedicines: []model.PrescribedManipulatedMedicine{
			{RecipeName: "Creme hidratante", Via: "Via Tópica", Posology: "Aplicar à noite", Quantity: 1},
		},
		Recommendations: []model.Recommendation{{Text: "Beber bastante água"}},
		DefaultExams:    []model.DefaultExam{{Description: "Hemograma completo"}},
		CustomExams:     []model.CustomExam{{Description: "Dosagem de vitamina D"}},
	}
}

func texts(elements []Element, kind ElementKind) []string {
	var out []string
	for _, el := range elements {
		if el.Kind == kind {
			out = append(out, el.Text)
		}
	}
	return out
}

func TestElementsOrder(t *testing.T) {
	elements := Elements(samplePrescription())

	if elements[0].Kind != KindSpacer || elements[0].Height != topSpacer {
		t.Fatalf("first element = %+v, want top spacer", elements[0])
	}

	headings := texts(elements, KindHeading)
	want := []string{HeadingMedicines, HeadingRecommendations, HeadingExams}
	if len(headings) != len(want) {
		t.Fatalf("headings = %v", headings)
	}
	for i := range want {
		if headings[i] != want[i] {
			t.Errorf("heading %d = %q, want %q", i, headings[i], want[i])
		}
	}

	paragraphs := texts(elements, KindParagraph)
	wantParagraphs := []string{
		"Dipirona 500mg", "Via Oral", "1 comprimido a cada 6 horas", "2 unidades",
		"Creme hidratante", "Via Tópica", "Aplicar à noite", "1 unidade",
		"Beber bastante água",
		"Hemograma completo", "Dosagem de vitamina D",
	}
	if len(paragraphs) != len(wantParagraphs) {
		t.Fatalf("paragraphs = %v", paragraphs)
	}
	for i := range wantParagraphs {
		if paragraphs[i] != wantParagraphs[i] {
			t.Errorf("paragraph %d = %q, want %q", i, paragraphs[i], wantParagraphs[i])
		}
	}
}

func TestElementsSkipsEmptySections(t *testing.T) {
	p := &model.Prescription{
		Recommendations: []model.Recommendation{{Text: "Repouso"}},
	}

	headings := texts(Elements(p), KindHeading)
	if len(headings) != 1 || headings[0] != HeadingRecommendations {
		t.Errorf("headings = %v, want only %q", headings, HeadingRecommendations)
	}
}

func TestLayouts(t *testing.T) {
	tests := []struct {
		size                     model.PageSize
		left, top, headerRule, x float64
	}{
		{model.PageSizeA4, 100, 50, 750, 580},
		{model.PageSizeA5, 50, 50, 500, 390},
		{model.PageSizeLetter, 100, 50, 700, 580},
	}

	for _, tt := range tests {
		l := layoutFor(tt.size)
		if l.leftMargin != tt.left || l.topMargin != tt.top || l.headerRuleY != tt.headerRule || l.headerRuleX2 != tt.x {
			t.Errorf("%s layout = %+v", tt.size, l)
		}
	}

	if layoutFor("B5") != layouts[model.PageSizeA4] {
		t.Error("unknown page sizes should fall back to A4")
	}
}

func TestFooterBandKeepsCounterClear(t *testing.T) {
	for _, size := range []model.PageSize{model.PageSizeA4, model.PageSizeA5, model.PageSizeLetter} {
		l := layoutFor(size)

		for _, h := range []float64{14.4, 28.8, 43.2} {
			footerTop, counterTop := l.footerBand(h)
			if counterTop < footerTop+h {
				t.Errorf("%s footer %.1f: counter at %.1f overlaps footer ending at %.1f", size, h, counterTop, footerTop+h)
			}
			if counterTop+counterHeight > l.height {
				t.Errorf("%s footer %.1f: counter ends at %.1f, past the page", size, h, counterTop+counterHeight)
			}
		}

		if _, counterTop := l.footerBand(0); counterTop+counterHeight > l.height {
			t.Errorf("%s without footer: counter ends at %.1f", size, counterTop+counterHeight)
		}
	}
}

func TestRenderAllPageSizes(t *testing.T) {
	printer := NewPrinter()

	for _, size := range model.PageSizes {
		t.Run(string(size), func(t *testing.T) {
			pattern := &model.Pattern{
				Header:   "Dra. Ana Souza - CRM 12345/DF",
				Footer:   "Rua das Flores, 100 - Brasília",
				Font:     model.FontTimes,
				FontSize: 11,
				PageSize: size,
			}

			out, err := printer.Render(samplePrescription(), pattern)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if !bytes.HasPrefix(out, []byte("%PDF-")) {
				t.Errorf("output does not look like a PDF: %q", out[:8])
			}
		})
	}
}

func TestRenderWithLogo(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var logo bytes.Buffer
	if err := png.Encode(&logo, img); err != nil {
		t.Fatal(err)
	}
	logoType := "image/png"

	pattern := &model.Pattern{
		Font:     model.FontCourier,
		FontSize: 12,
		PageSize: model.PageSizeA5,
		Logo:     logo.Bytes(),
		LogoType: &logoType,
	}

	if _, err := NewPrinter().Render(samplePrescription(), pattern); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
}

func TestRenderRejectsUnknownLogoType(t *testing.T) {
	logoType := "image/svg+xml"
	pattern := &model.Pattern{PageSize: model.PageSizeA4, Logo: []byte("<svg/>"), LogoType: &logoType}

	if _, err := NewPrinter().Render(samplePrescription(), pattern); err == nil {
		t.Fatal("expected an error for svg logos")
	}
}

func TestRenderLongPrescriptionPaginates(t *testing.T) {
	p := samplePrescription()
	for i := 0; i < 60; i++ {
		p.Recommendations = append(p.Recommendations, model.Recommendation{Text: "Retornar em 30 dias para reavaliação"})
	}

	out, err := NewPrinter().Render(p, &model.Pattern{PageSize: model.PageSizeA5, FontSize: 12})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if bytes.Count(out, []byte("/Type /Page\n")) < 2 {
		t.Error("expected more than one page")
	}
}
