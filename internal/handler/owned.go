package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/server"
	"github.com/deppfellow/medical-prescription/internal/service"
)

type ManipulatedMedicineHandler struct {
	Handler
	medicines *service.ManipulatedMedicineService
}

func NewManipulatedMedicineHandler(s *server.Server, medicines *service.ManipulatedMedicineService) *ManipulatedMedicineHandler {
	return &ManipulatedMedicineHandler{Handler: NewHandler(s), medicines: medicines}
}

type UpdateManipulatedMedicineRequest struct {
	IDRequest
	service.ManipulatedMedicineInput
}

func (r *UpdateManipulatedMedicineRequest) Validate() error {
	if err := r.IDRequest.Validate(); err != nil {
		return err
	}
	return r.ManipulatedMedicineInput.Validate()
}

func (h *ManipulatedMedicineHandler) Create(c echo.Context, req *service.ManipulatedMedicineInput) (*model.ManipulatedMedicine, error) {
	hp, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	return h.medicines.Create(c.Request().Context(), hp, req)
}

func (h *ManipulatedMedicineHandler) List(c echo.Context, req *PageRequest) (model.PaginatedResponse[model.ManipulatedMedicine], error) {
	hp, err := currentAccount(c)
	if err != nil {
		return model.PaginatedResponse[model.ManipulatedMedicine]{}, err
	}
	return h.medicines.List(c.Request().Context(), hp, req.Page())
}

func (h *ManipulatedMedicineHandler) Get(c echo.Context, req *IDRequest) (*model.ManipulatedMedicine, error) {
	hp, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	return h.medicines.Get(c.Request().Context(), hp, req.UUID())
}

func (h *ManipulatedMedicineHandler) Update(c echo.Context, req *UpdateManipulatedMedicineRequest) (*model.ManipulatedMedicine, error) {
	hp, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	return h.medicines.Update(c.Request().Context(), hp, req.UUID(), &req.ManipulatedMedicineInput)
}

func (h *ManipulatedMedicineHandler) Delete(c echo.Context, req *IDRequest) error {
	hp, err := currentAccount(c)
	if err != nil {
		return err
	}
	return h.medicines.Delete(c.Request().Context(), hp, req.UUID())
}

type CustomExamHandler struct {
	Handler
	exams *service.CustomExamService
}

func NewCustomExamHandler(s *server.Server, exams *service.CustomExamService) *CustomExamHandler {
	return &CustomExamHandler{Handler: NewHandler(s), exams: exams}
}

type UpdateCustomExamRequest struct {
	IDRequest
	service.CustomExamInput
}

func (r *UpdateCustomExamRequest) Validate() error {
	if err := r.IDRequest.Validate(); err != nil {
		return err
	}
	return r.CustomExamInput.Validate()
}

func (h *CustomExamHandler) Create(c echo.Context, req *service.CustomExamInput) (*model.CustomExam, error) {
	hp, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	return h.exams.Create(c.Request().Context(), hp, req)
}

func (h *CustomExamHandler) List(c echo.Context, req *PageRequest) (model.PaginatedResponse[model.CustomExam], error) {
	hp, err := currentAccount(c)
	if err != nil {
		return model.PaginatedResponse[model.CustomExam]{}, err
	}
	return h.exams.List(c.Request().Context(), hp, req.Page())
}

func (h *CustomExamHandler) Get(c echo.Context, req *IDRequest) (*model.CustomExam, error) {
	hp, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	return h.exams.Get(c.Request().Context(), hp, req.UUID())
}

func (h *CustomExamHandler) Update(c echo.Context, req *UpdateCustomExamRequest) (*model.CustomExam, error) {
	hp, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	return h.exams.Update(c.Request().Context(), hp, req.UUID(), &req.CustomExamInput)
}

func (h *CustomExamHandler) Delete(c echo.Context, req *IDRequest) error {
	hp, err := currentAccount(c)
	if err != nil {
		return err
	}
	return h.exams.Delete(c.Request().Context(), hp, req.UUID())
}
