package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deppfellow/medical-prescription/internal/errs"
	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/server"
	"github.com/deppfellow/medical-prescription/internal/validation"
)

type PatientService struct {
	server   *server.Server
	patients PatientStore
	messages MessageStore
}

func NewPatientService(s *server.Server, patients PatientStore, messages MessageStore) *PatientService {
	return &PatientService{server: s, patients: patients, messages: messages}
}

type CreatePatientInput struct {
	Name         string `json:"name" form:"name" validate:"required,max=120"`
	Email        string `json:"email" form:"email" validate:"required,email"`
	DateOfBirth  string `json:"date_of_birth" form:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Phone        string `json:"phone" form:"phone" validate:"max=30"`
	Sex          string `json:"sex" form:"sex" validate:"omitempty,oneof=F M O"`
	IDDocument   string `json:"id_document" form:"id_document" validate:"max=30"`
	CEP          string `json:"cep" form:"cep" validate:"max=9"`
	UF           string `json:"uf" form:"uf" validate:"omitempty,len=2"`
	City         string `json:"city" form:"city" validate:"max=120"`
	Neighborhood string `json:"neighborhood" form:"neighborhood" validate:"max=120"`
	Complement   string `json:"complement" form:"complement" validate:"max=255"`
}

func (in *CreatePatientInput) Validate() error {
	return validation.Struct(in)
}

func (p *PatientService) Create(ctx context.Context, hp *model.Account, in *CreatePatientInput) (*model.Patient, error) {
	patient := &model.Patient{
		Account: model.Account{
			Name:  strings.TrimSpace(in.Name),
			Email: strings.ToLower(strings.TrimSpace(in.Email)),
		},
		Phone:        in.Phone,
		Sex:          in.Sex,
		IDDocument:   in.IDDocument,
		CEP:          in.CEP,
		UF:           strings.ToUpper(in.UF),
		City:         in.City,
		Neighborhood: in.Neighborhood,
		Complement:   in.Complement,
		CreatedBy:    &hp.ID,
	}

	if in.DateOfBirth != "" {
		dob, err := time.Parse(time.DateOnly, in.DateOfBirth)
		if err != nil {
			return nil, errs.NewFormError(errs.FieldError{Field: "date_of_birth", Error: "must be a date (YYYY-MM-DD)"})
		}
		patient.DateOfBirth = &dob
	}

	if err := p.patients.Create(ctx, patient); err != nil {
		return nil, err
	}

	p.server.Logger.Info().
		Str("patient_id", patient.ID.String()).
		Str("created_by", hp.ID.String()).
		Msg("patient registered")

	return patient, nil
}

func (p *PatientService) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return p.patients.Get(ctx, id)
}

func (p *PatientService) List(ctx context.Context, query string, page model.Page) (model.PaginatedResponse[model.Patient], error) {
	page = page.Normalize()
	patients, total, err := p.patients.List(ctx, query, page)
	if err != nil {
		return model.PaginatedResponse[model.Patient]{}, err
	}
	return model.NewPaginatedResponse(patients, total, page), nil
}

// SharedFiles lists attachments exchanged between the professional and the
// patient.
func (p *PatientService) SharedFiles(ctx context.Context, hp *model.Account, patientID uuid.UUID) ([]model.SharedFile, error) {
	if _, err := p.patients.Get(ctx, patientID); err != nil {
		return nil, err
	}
	return p.messages.ListSharedFiles(ctx, hp.ID, patientID)
}
