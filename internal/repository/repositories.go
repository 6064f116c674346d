// Package repository implements the service stores on PostgreSQL with pgx.
package repository

import (
	"strings"

	"github.com/deppfellow/medical-prescription/internal/database"
)

type Repositories struct {
	Accounts             *AccountRepository
	Patients             *PatientRepository
	Catalog              *CatalogRepository
	ManipulatedMedicines *ManipulatedMedicineRepository
	CustomExams          *CustomExamRepository
	Patterns             *PatternRepository
	Prescriptions        *PrescriptionRepository
	Messages             *MessageRepository
}

func NewRepositories(db *database.Database) *Repositories {
	pool := db.Pool

	return &Repositories{
		Accounts:             &AccountRepository{pool: pool},
		Patients:             &PatientRepository{pool: pool},
		Catalog:              &CatalogRepository{pool: pool},
		ManipulatedMedicines: &ManipulatedMedicineRepository{pool: pool},
		CustomExams:          &CustomExamRepository{pool: pool},
		Patterns:             &PatternRepository{pool: pool},
		Prescriptions:        &PrescriptionRepository{pool: pool},
		Messages:             &MessageRepository{pool: pool},
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// prefixPattern and containsPattern build ILIKE arguments from user input.
func prefixPattern(s string) string {
	return likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}
