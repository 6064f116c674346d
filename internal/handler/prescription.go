package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/server"
	"github.com/deppfellow/medical-prescription/internal/service"
	"github.com/deppfellow/medical-prescription/internal/validation"
)

type PrescriptionHandler struct {
	Handler
	prescriptions *service.PrescriptionService
}

func NewPrescriptionHandler(s *server.Server, prescriptions *service.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{Handler: NewHandler(s), prescriptions: prescriptions}
}

// Filename is the fixed attachment name of generated PDFs.
func (h *PrescriptionHandler) Filename() string {
	return h.prescriptions.Filename()
}

// RenderRequest picks the pattern used for the document. It is read from the
// query string on GET and from the body on POST.
type RenderRequest struct {
	IDRequest
	PatternID string `query:"pattern_id" json:"pattern_id" form:"pattern_id" validate:"omitempty,uuid"`
}

func (r *RenderRequest) Validate() error {
	return validation.Struct(r)
}

type EmailResponse struct {
	Status string `json:"status"`
}

// New returns what the prescription form needs to render its selects.
func (h *PrescriptionHandler) New(c echo.Context, _ *EmptyRequest) (*service.FormOptions, error) {
	hp, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	return h.prescriptions.FormOptions(c.Request().Context(), hp)
}

func (h *PrescriptionHandler) Create(c echo.Context, req *service.CreatePrescriptionInput) (*model.Prescription, error) {
	hp, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	return h.prescriptions.Create(c.Request().Context(), hp, req)
}

func (h *PrescriptionHandler) List(c echo.Context, req *PageRequest) (model.PaginatedResponse[model.Prescription], error) {
	hp, err := currentAccount(c)
	if err != nil {
		return model.PaginatedResponse[model.Prescription]{}, err
	}
	return h.prescriptions.List(c.Request().Context(), hp, req.Page())
}

func (h *PrescriptionHandler) Get(c echo.Context, req *IDRequest) (*model.Prescription, error) {
	hp, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	return h.prescriptions.Get(c.Request().Context(), hp, req.UUID())
}

func (h *PrescriptionHandler) Delete(c echo.Context, req *IDRequest) error {
	hp, err := currentAccount(c)
	if err != nil {
		return err
	}
	return h.prescriptions.Delete(c.Request().Context(), hp, req.UUID())
}

func (h *PrescriptionHandler) PDF(c echo.Context, req *RenderRequest) ([]byte, error) {
	hp, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	return h.prescriptions.RenderPDF(c.Request().Context(), hp, req.UUID(), optionalUUID(req.PatternID))
}

// Email queues the PDF for delivery to the linked patient.
func (h *PrescriptionHandler) Email(c echo.Context, req *RenderRequest) (*EmailResponse, error) {
	hp, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	if err := h.prescriptions.EmailToPatient(c.Request().Context(), hp, req.UUID(), optionalUUID(req.PatternID)); err != nil {
		return nil, err
	}
	return &EmailResponse{Status: "queued"}, nil
}
