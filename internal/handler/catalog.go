package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/server"
	"github.com/deppfellow/medical-prescription/internal/service"
)

// CatalogHandler serves the autocomplete lookups of the prescription form.
type CatalogHandler struct {
	Handler
	catalog *service.CatalogService
}

func NewCatalogHandler(s *server.Server, catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{Handler: NewHandler(s), catalog: catalog}
}

func (h *CatalogHandler) SearchDiseases(c echo.Context, req *SearchRequest) ([]model.Disease, error) {
	return h.catalog.SearchDiseases(c.Request().Context(), req.Q)
}

func (h *CatalogHandler) SearchMedicines(c echo.Context, req *SearchRequest) ([]model.Medicine, error) {
	return h.catalog.SearchMedicines(c.Request().Context(), req.Q)
}

func (h *CatalogHandler) SearchDefaultExams(c echo.Context, req *SearchRequest) ([]model.DefaultExam, error) {
	return h.catalog.SearchDefaultExams(c.Request().Context(), req.Q)
}
