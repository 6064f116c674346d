package model

import (
	"time"

	"github.com/google/uuid"
)

// Disease is a CID-10 entry.
type Disease struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Description string    `json:"description" db:"description"`
}

type Medicine struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	ActiveIngredient   string    `json:"active_ingredient" db:"active_ingredient"`
	Concentration      string    `json:"concentration" db:"concentration"`
	PharmaceuticalForm string    `json:"pharmaceutical_form" db:"pharmaceutical_form"`
}

// ManipulatedMedicine is a compounded recipe owned by one professional.
type ManipulatedMedicine struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	HealthProfessionalID uuid.UUID `json:"health_professional_id" db:"health_professional_id"`
	RecipeName           string    `json:"recipe_name" db:"recipe_name"`
	PhysicalForm         string    `json:"physical_form" db:"physical_form"`
	Quantity             int       `json:"quantity" db:"quantity"`
	Measurement          string    `json:"measurement" db:"measurement"`
	Composition          string    `json:"composition" db:"composition"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
}

type DefaultExam struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Description string    `json:"description" db:"description"`
}

// CustomExam is an exam request a professional wrote themselves.
type CustomExam struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	HealthProfessionalID uuid.UUID `json:"health_professional_id" db:"health_professional_id"`
	Name                 string    `json:"name" db:"name"`
	Description          string    `json:"description" db:"description"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
}
