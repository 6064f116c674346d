package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/validation"
)

func listPage[T any](ctx context.Context, store OwnedStore[T], ownerID uuid.UUID, page model.Page) (model.PaginatedResponse[T], error) {
	page = page.Normalize()
	items, total, err := store.List(ctx, ownerID, page)
	if err != nil {
		return model.PaginatedResponse[T]{}, err
	}
	return model.NewPaginatedResponse(items, total, page), nil
}

type ManipulatedMedicineInput struct {
	RecipeName   string `json:"recipe_name" form:"recipe_name" validate:"required,max=120"`
	PhysicalForm string `json:"physical_form" form:"physical_form" validate:"required,max=60"`
	Quantity     int    `json:"quantity" form:"quantity" validate:"required,min=1"`
	Measurement  string `json:"measurement" form:"measurement" validate:"required,max=20"`
	Composition  string `json:"composition" form:"composition" validate:"required"`
}

func (in *ManipulatedMedicineInput) Validate() error {
	return validation.Struct(in)
}

func (in *ManipulatedMedicineInput) apply(m *model.ManipulatedMedicine) {
	m.RecipeName = strings.TrimSpace(in.RecipeName)
	m.PhysicalForm = strings.TrimSpace(in.PhysicalForm)
	m.Quantity = in.Quantity
	m.Measurement = strings.TrimSpace(in.Measurement)
	m.Composition = strings.TrimSpace(in.Composition)
}

type ManipulatedMedicineService struct {
	store ManipulatedMedicineStore
}

func NewManipulatedMedicineService(store ManipulatedMedicineStore) *ManipulatedMedicineService {
	return &ManipulatedMedicineService{store: store}
}

func (s *ManipulatedMedicineService) Create(ctx context.Context, hp *model.Account, in *ManipulatedMedicineInput) (*model.ManipulatedMedicine, error) {
	m := &model.ManipulatedMedicine{HealthProfessionalID: hp.ID}
	in.apply(m)
	if err := s.store.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ManipulatedMedicineService) Get(ctx context.Context, hp *model.Account, id uuid.UUID) (*model.ManipulatedMedicine, error) {
	return s.store.Get(ctx, hp.ID, id)
}

func (s *ManipulatedMedicineService) List(ctx context.Context, hp *model.Account, page model.Page) (model.PaginatedResponse[model.ManipulatedMedicine], error) {
	return listPage(ctx, s.store, hp.ID, page)
}

func (s *ManipulatedMedicineService) Update(ctx context.Context, hp *model.Account, id uuid.UUID, in *ManipulatedMedicineInput) (*model.ManipulatedMedicine, error) {
	m, err := s.store.Get(ctx, hp.ID, id)
	if err != nil {
		return nil, err
	}
	in.apply(m)
	if err := s.store.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ManipulatedMedicineService) Delete(ctx context.Context, hp *model.Account, id uuid.UUID) error {
	return s.store.Delete(ctx, hp.ID, id)
}

type CustomExamInput struct {
	Name        string `json:"name" form:"name" validate:"required,max=120"`
	Description string `json:"description" form:"description" validate:"required,max=500"`
}

func (in *CustomExamInput) Validate() error {
	return validation.Struct(in)
}

type CustomExamService struct {
	store CustomExamStore
}

func NewCustomExamService(store CustomExamStore) *CustomExamService {
	return &CustomExamService{store: store}
}

func (s *CustomExamService) Create(ctx context.Context, hp *model.Account, in *CustomExamInput) (*model.CustomExam, error) {
	e := &model.CustomExam{
		HealthProfessionalID: hp.ID,
		Name:                 strings.TrimSpace(in.Name),
		Description:          strings.TrimSpace(in.Description),
	}
	if err := s.store.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *CustomExamService) Get(ctx context.Context, hp *model.Account, id uuid.UUID) (*model.CustomExam, error) {
	return s.store.Get(ctx, hp.ID, id)
}

func (s *CustomExamService) List(ctx context.Context, hp *model.Account, page model.Page) (model.PaginatedResponse[model.CustomExam], error) {
	return listPage(ctx, s.store, hp.ID, page)
}

func (s *CustomExamService) Update(ctx context.Context, hp *model.Account, id uuid.UUID, in *CustomExamInput) (*model.CustomExam, error) {
	e, err := s.store.Get(ctx, hp.ID, id)
	if err != nil {
		return nil, err
	}
	e.Name = strings.TrimSpace(in.Name)
	e.Description = strings.TrimSpace(in.Description)
	if err := s.store.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *CustomExamService) Delete(ctx context.Context, hp *model.Account, id uuid.UUID) error {
	return s.store.Delete(ctx, hp.ID, id)
}
