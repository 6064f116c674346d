package pdf

import "github.com/deppfellow/medical-prescription/internal/model"

type ElementKind int

const (
	KindSpacer ElementKind = iota
	KindHeading
	KindParagraph
)

// Element is one block of the prescription body, in reading order.
type Element struct {
	Kind   ElementKind
	Text   string
	Height float64
}

const (
	HeadingMedicines       = "Medicamentos"
	HeadingRecommendations = "Recomendações"
	HeadingExams           = "Exames"

	topSpacer  = 50.0
	itemSpacer = 12.0
)

func spacer(h float64) Element   { return Element{Kind: KindSpacer, Height: h} }
func heading(t string) Element   { return Element{Kind: KindHeading, Text: t} }
func paragraph(t string) Element { return Element{Kind: KindParagraph, Text: t} }

// Elements lays out the prescription body. A section heading is emitted
// only when the section has content.
func Elements(p *model.Prescription) []Element {
	elements := []Element{spacer(topSpacer)}

	if p.HasMedicines() {
		elements = append(elements, heading(HeadingMedicines))
		for _, m := range p.Medicines {
			elements = append(elements,
				paragraph(m.Name),
				paragraph(m.Via),
				paragraph(m.Posology),
				paragraph(model.QuantityLabel(m.Quantity)),
				spacer(itemSpacer),
			)
		}
		for _, m := range p.ManipulatedMedicines {
			elements = append(elements,
				paragraph(m.RecipeName),
				paragraph(m.Via),
				paragraph(m.Posology),
				paragraph(model.QuantityLabel(m.Quantity)),
				spacer(itemSpacer),
			)
		}
	}

	elements = append(elements, spacer(itemSpacer))
	if len(p.Recommendations) > 0 {
		elements = append(elements, heading(HeadingRecommendations))
		for _, r := range p.Recommendations {
			elements = append(elements, paragraph(r.Text), spacer(itemSpacer))
		}
	}

	elements = append(elements, spacer(itemSpacer))
	if p.HasExams() {
		elements = append(elements, heading(HeadingExams))
		for _, e := range p.DefaultExams {
			elements = append(elements, paragraph(e.Description), spacer(itemSpacer))
		}
		for _, e := range p.CustomExams {
			elements = append(elements, paragraph(e.Description), spacer(itemSpacer))
		}
	}

	return elements
}
