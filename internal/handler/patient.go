package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/server"
	"github.com/deppfellow/medical-prescription/internal/service"
)

type PatientHandler struct {
	Handler
	patients *service.PatientService
}

func NewPatientHandler(s *server.Server, patients *service.PatientService) *PatientHandler {
	return &PatientHandler{Handler: NewHandler(s), patients: patients}
}

func (h *PatientHandler) Create(c echo.Context, req *service.CreatePatientInput) (*model.Patient, error) {
	hp, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	return h.patients.Create(c.Request().Context(), hp, req)
}

func (h *PatientHandler) List(c echo.Context, req *SearchPageRequest) (model.PaginatedResponse[model.Patient], error) {
	return h.patients.List(c.Request().Context(), req.Q, req.Page())
}

func (h *PatientHandler) Get(c echo.Context, req *IDRequest) (*model.Patient, error) {
	return h.patients.Get(c.Request().Context(), req.UUID())
}

// Files lists the attachments exchanged between the caller and the patient.
func (h *PatientHandler) Files(c echo.Context, req *IDRequest) ([]model.SharedFile, error) {
	hp, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	return h.patients.SharedFiles(c.Request().Context(), hp, req.UUID())
}
