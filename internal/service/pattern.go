package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/deppfellow/medical-prescription/internal/errs"
	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/validation"
)

const MaxLogoSize = 1 << 20

var logoTypes = []string{"image/png", "image/jpeg"}

type PatternInput struct {
	Name     string `json:"name" form:"name" validate:"required,max=80"`
	Header   string `json:"header" form:"header" validate:"max=500"`
	Footer   string `json:"footer" form:"footer" validate:"max=500"`
	Font     string `json:"font" form:"font" validate:"omitempty,oneof=Helvetica Times-Roman Courier"`
	FontSize int    `json:"font_size" form:"font_size" validate:"omitempty,min=8,max=24"`
	PageSize string `json:"page_size" form:"page_size" validate:"omitempty,oneof=A4 A5 letter"`
}

func (in *PatternInput) Validate() error {
	return validation.Struct(in)
}

func (in *PatternInput) apply(p *model.Pattern) {
	p.Name = strings.TrimSpace(in.Name)
	p.Header = in.Header
	p.Footer = in.Footer

	p.Font = in.Font
	if p.Font == "" {
		p.Font = model.FontHelvetica
	}
	p.FontSize = in.FontSize
	if p.FontSize == 0 {
		p.FontSize = 12
	}
	p.PageSize = model.PageSize(in.PageSize)
	if p.PageSize == "" {
		p.PageSize = model.PageSizeA4
	}
}

type PatternService struct {
	store PatternStore
}

func NewPatternService(store PatternStore) *PatternService {
	return &PatternService{store: store}
}

func (s *PatternService) Create(ctx context.Context, hp *model.Account, in *PatternInput) (*model.Pattern, error) {
	p := &model.Pattern{HealthProfessionalID: hp.ID}
	in.apply(p)
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PatternService) Get(ctx context.Context, hp *model.Account, id uuid.UUID) (*model.Pattern, error) {
	return s.store.Get(ctx, hp.ID, id)
}

func (s *PatternService) List(ctx context.Context, hp *model.Account, page model.Page) (model.PaginatedResponse[model.Pattern], error) {
	return listPage[model.Pattern](ctx, s.store, hp.ID, page)
}

func (s *PatternService) Update(ctx context.Context, hp *model.Account, id uuid.UUID, in *PatternInput) (*model.Pattern, error) {
	p, err := s.store.Get(ctx, hp.ID, id)
	if err != nil {
		return nil, err
	}
	in.apply(p)
	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PatternService) Delete(ctx context.Context, hp *model.Account, id uuid.UUID) error {
	return s.store.Delete(ctx, hp.ID, id)
}

// SetLogo stores a PNG or JPEG logo. The type is sniffed from the content,
// not taken from the upload headers.
func (s *PatternService) SetLogo(ctx context.Context, hp *model.Account, id uuid.UUID, logo []byte) (*model.Pattern, error) {
	if len(logo) == 0 {
		return nil, errs.NewFormError(errs.FieldError{Field: "logo", Error: "is required"})
	}
	if len(logo) > MaxLogoSize {
		return nil, errs.NewFormError(errs.FieldError{Field: "logo", Error: fmt.Sprintf("must not exceed %d bytes", MaxLogoSize)})
	}

	mt := mimetype.Detect(logo)
	if !mimetype.EqualsAny(mt.String(), logoTypes...) {
		return nil, errs.NewFormError(errs.FieldError{Field: "logo", Error: "must be a PNG or JPEG image"})
	}

	if err := s.store.SetLogo(ctx, hp.ID, id, logo, mt.String()); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, hp.ID, id)
}
