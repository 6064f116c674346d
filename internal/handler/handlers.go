package handler

import (
	"github.com/deppfellow/medical-prescription/internal/server"
	"github.com/deppfellow/medical-prescription/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health               *HealthHandler
	OpenAPI              *OpenAPIHandler
	Account              *AccountHandler
	Catalog              *CatalogHandler
	Patients             *PatientHandler
	ManipulatedMedicines *ManipulatedMedicineHandler
	CustomExams          *CustomExamHandler
	Patterns             *PatternHandler
	Prescriptions        *PrescriptionHandler
	Messages             *MessageHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:               NewHealthHandler(s),
		OpenAPI:              NewOpenAPIHandler(s),
		Account:              NewAccountHandler(s),
		Catalog:              NewCatalogHandler(s, services.Catalog),
		Patients:             NewPatientHandler(s, services.Patients),
		ManipulatedMedicines: NewManipulatedMedicineHandler(s, services.ManipulatedMedicines),
		CustomExams:          NewCustomExamHandler(s, services.CustomExams),
		Patterns:             NewPatternHandler(s, services.Patterns),
		Prescriptions:        NewPrescriptionHandler(s, services.Prescriptions),
		Messages:             NewMessageHandler(s, services.Messages),
	}
}
