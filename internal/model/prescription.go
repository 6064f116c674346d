package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type MedicineType string

const (
	MedicineTypeIndustrialized MedicineType = "medicine"
	MedicineTypeManipulated    MedicineType = "manipulated_medicine"
)

const (
	MinQuantity = 1
	MaxQuantity = 100

	MaxPatientNameLength = 50
)

// Vias are the administration routes a prescribed item may use.
var Vias = []string{
	"Via Oral",
	"Via Sublingual",
	"Via Retal",
	"Via Nasal",
	"Via Oftálmica",
	"Via Auricular",
	"Via Tópica",
	"Via Inalatória",
	"Via Vaginal",
	"Via Intramuscular",
	"Via Intravenosa",
	"Via Subcutânea",
}

func ValidVia(via string) bool {
	for _, v := range Vias {
		if v == via {
			return true
		}
	}
	return false
}

// QuantityLabel renders a quantity the way it is printed, e.g. "2 unidades".
func QuantityLabel(n int) string {
	if n == 1 {
		return "1 unidade"
	}
	return fmt.Sprintf("%d unidades", n)
}

type PrescribedMedicine struct {
	ID         uuid.UUID `json:"id" db:"id"`
	MedicineID uuid.UUID `json:"medicine_id" db:"medicine_id"`
	Name       string    `json:"name" db:"name"`
	Quantity   int       `json:"quantity" db:"quantity"`
	Posology   string    `json:"posology" db:"posology"`
	Via        string    `json:"via" db:"via"`
}

type PrescribedManipulatedMedicine struct {
	ID                    uuid.UUID `json:"id" db:"id"`
	ManipulatedMedicineID uuid.UUID `json:"manipulated_medicine_id" db:"manipulated_medicine_id"`
	RecipeName            string    `json:"recipe_name" db:"recipe_name"`
	Quantity              int       `json:"quantity" db:"quantity"`
	Posology              string    `json:"posology" db:"posology"`
	Via                   string    `json:"via" db:"via"`
}

type Recommendation struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Text string    `json:"recommendation" db:"recommendation"`
}

// Prescription is written by a health professional for a patient, who may
// be a registered account (PatientID) or just a name.
type Prescription struct {
	ID                   uuid.UUID  `json:"id" db:"id"`
	HealthProfessionalID uuid.UUID  `json:"health_professional_id" db:"health_professional_id"`
	PatientID            *uuid.UUID `json:"patient_id,omitempty" db:"patient_id"`
	PatientName          string     `json:"patient_name" db:"patient_name"`
	DiseaseID            *uuid.UUID `json:"disease_id,omitempty" db:"disease_id"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`

	Disease              *Disease                        `json:"disease,omitempty" db:"-"`
	Medicines            []PrescribedMedicine            `json:"medicines" db:"-"`
	ManipulatedMedicines []PrescribedManipulatedMedicine `json:"manipulated_medicines" db:"-"`
	Recommendations      []Recommendation                `json:"recommendations" db:"-"`
	DefaultExams         []DefaultExam                   `json:"default_exams" db:"-"`
	CustomExams          []CustomExam                    `json:"custom_exams" db:"-"`
}

func (p *Prescription) HasMedicines() bool {
	return len(p.Medicines) > 0 || len(p.ManipulatedMedicines) > 0
}

func (p *Prescription) HasExams() bool {
	return len(p.DefaultExams) > 0 || len(p.CustomExams) > 0
}

// IsEmpty reports whether nothing at all was prescribed.
func (p *Prescription) IsEmpty() bool {
	return !p.HasMedicines() && !p.HasExams() && len(p.Recommendations) == 0
}
