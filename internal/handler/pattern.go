package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/server"
	"github.com/deppfellow/medical-prescription/internal/service"
)

type PatternHandler struct {
	Handler
	patterns *service.PatternService
}

func NewPatternHandler(s *server.Server, patterns *service.PatternService) *PatternHandler {
	return &PatternHandler{Handler: NewHandler(s), patterns: patterns}
}

type UpdatePatternRequest struct {
	IDRequest
	service.PatternInput
}

func (r *UpdatePatternRequest) Validate() error {
	if err := r.IDRequest.Validate(); err != nil {
		return err
	}
	return r.PatternInput.Validate()
}

func (h *PatternHandler) Create(c echo.Context, req *service.PatternInput) (*model.Pattern, error) {
	hp, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	return h.patterns.Create(c.Request().Context(), hp, req)
}

func (h *PatternHandler) List(c echo.Context, req *PageRequest) (model.PaginatedResponse[model.Pattern], error) {
	hp, err := currentAccount(c)
	if err != nil {
		return model.PaginatedResponse[model.Pattern]{}, err
	}
	return h.patterns.List(c.Request().Context(), hp, req.Page())
}

func (h *PatternHandler) Get(c echo.Context, req *IDRequest) (*model.Pattern, error) {
	hp, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	return h.patterns.Get(c.Request().Context(), hp, req.UUID())
}

func (h *PatternHandler) Update(c echo.Context, req *UpdatePatternRequest) (*model.Pattern, error) {
	hp, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	return h.patterns.Update(c.Request().Context(), hp, req.UUID(), &req.PatternInput)
}

func (h *PatternHandler) Delete(c echo.Context, req *IDRequest) error {
	hp, err := currentAccount(c)
	if err != nil {
		return err
	}
	return h.patterns.Delete(c.Request().Context(), hp, req.UUID())
}

// SetLogo takes the image from the multipart field "logo".
func (h *PatternHandler) SetLogo(c echo.Context, req *IDRequest) (*model.Pattern, error) {
	hp, err := currentAccount(c)
	if err != nil {
		return nil, err
	}

	logo, err := formFile(c, "logo", service.MaxLogoSize)
	if err != nil {
		return nil, err
	}
	var content []byte
	if logo != nil {
		content = logo.Content
	}

	return h.patterns.SetLogo(c.Request().Context(), hp, req.UUID(), content)
}
