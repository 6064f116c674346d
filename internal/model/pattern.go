package model

import (
	"time"

	"github.com/google/uuid"
)

type PageSize string

const (
	PageSizeA4     PageSize = "A4"
	PageSizeA5     PageSize = "A5"
	PageSizeLetter PageSize = "letter"
)

var PageSizes = []PageSize{PageSizeA4, PageSizeA5, PageSizeLetter}

const (
	FontHelvetica = "Helvetica"
	FontTimes     = "Times-Roman"
	FontCourier   = "Courier"

	MinFontSize = 8
	MaxFontSize = 24
)

var Fonts = []string{FontHelvetica, FontTimes, FontCourier}

// Pattern is a document template used to print prescriptions.
type Pattern struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	HealthProfessionalID uuid.UUID `json:"health_professional_id" db:"health_professional_id"`
	Name                 string    `json:"name" db:"name"`
	Header               string    `json:"header" db:"header"`
	Footer               string    `json:"footer" db:"footer"`
	Font                 string    `json:"font" db:"font"`
	FontSize             int       `json:"font_size" db:"font_size"`
	PageSize             PageSize  `json:"page_size" db:"page_size"`
	Logo                 []byte    `json:"-" db:"logo"`
	LogoType             *string   `json:"logo_type,omitempty" db:"logo_type"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

func (p *Pattern) HasLogo() bool {
	return len(p.Logo) > 0 && p.LogoType != nil
}

// DefaultPattern is used when a prescription is printed without choosing
// a pattern.
func DefaultPattern(hp *HealthProfessional) *Pattern {
	header := hp.Name
	if hp.CRM != "" {
		header += " - CRM " + hp.CRM + "/" + hp.CRMState
	}

	return &Pattern{
		HealthProfessionalID: hp.ID,
		Name:                 "default",
		Header:               header,
		Font:                 FontHelvetica,
		FontSize:             12,
		PageSize:             PageSizeA4,
	}
}
