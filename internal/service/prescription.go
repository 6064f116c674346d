package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/deppfellow/medical-prescription/internal/errs"
	"github.com/deppfellow/medical-prescription/internal/lib/job"
	"github.com/deppfellow/medical-prescription/internal/lib/pdf"
	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/server"
	"github.com/deppfellow/medical-prescription/internal/sqlerr"
	"github.com/deppfellow/medical-prescription/internal/validation"
)

// PrescriptionItemInput is one prescribed medicine. MedicineType selects
// whether MedicineID points at the public catalog or at one of the
// professional's manipulated medicines.
type PrescriptionItemInput struct {
	MedicineType model.MedicineType `json:"medicine_type" validate:"required,oneof=medicine manipulated_medicine"`
	MedicineID   string             `json:"medicine_id" validate:"required,uuid"`
	Quantity     int                `json:"quantity" validate:"required,min=1,max=100"`
	Posology     string             `json:"posology" validate:"max=500"`
	Via          string             `json:"via" validate:"required"`
}

// CreatePrescriptionInput accepts both the JSON body and the classic form
// post, where a single medicine and recommendation travel as flat fields.
type CreatePrescriptionInput struct {
	Patient   string `json:"patient" form:"patient" validate:"max=50"`
	PatientID string `json:"patient_id" form:"patient_id" validate:"omitempty,uuid"`
	CID       string `json:"cid" form:"cid" validate:"omitempty,cid"`
	CIDID     string `json:"cid_id" form:"cid_id" validate:"omitempty,uuid"`

	MedicineType   string `json:"medicine_type" form:"medicine_type" validate:"omitempty,oneof=medicine manipulated_medicine"`
	MedicineID     string `json:"medicine_id" form:"medicine_id" validate:"omitempty,uuid"`
	Quantity       int    `json:"quantity" form:"quantity"`
	Posology       string `json:"posology" form:"posology" validate:"max=500"`
	Via            string `json:"via" form:"via"`
	Recommendation string `json:"recommendation" form:"recommendation" validate:"max=1000"`

	Medicines       []PrescriptionItemInput `json:"medicines" form:"-" validate:"dive"`
	Recommendations []string                `json:"recommendations" form:"recommendations" validate:"dive,max=1000"`
	DefaultExams    []string                `json:"default_exams" form:"default_exams" validate:"dive,uuid"`
	CustomExams     []string                `json:"custom_exams" form:"custom_exams" validate:"dive,uuid"`
}

func (in *CreatePrescriptionInput) Validate() error {
	if err := validation.Struct(in); err != nil {
		return err
	}

	var problems validation.CustomValidationErrors

	if strings.TrimSpace(in.Patient) == "" && in.PatientID == "" {
		problems.Add("patient", "is required")
	}
	if strings.TrimSpace(in.CID) == "" && in.CIDID == "" {
		problems.Add("cid", "is required")
	}

	if in.MedicineID != "" {
		if in.Quantity < model.MinQuantity || in.Quantity > model.MaxQuantity {
			problems.Add("quantity", fmt.Sprintf("must be between %d and %d", model.MinQuantity, model.MaxQuantity))
		}
		if !model.ValidVia(in.Via) {
			problems.Add("via", "is not a known route")
		}
	}
	for i, item := range in.Medicines {
		if !model.ValidVia(item.Via) {
			problems.Add(fmt.Sprintf("medicines[%d].via", i), "is not a known route")
		}
	}

	if len(in.Items()) == 0 && len(in.AllRecommendations()) == 0 && len(in.DefaultExams) == 0 && len(in.CustomExams) == 0 {
		problems.Add("medicines", "at least one medicine, recommendation or exam is required")
	}

	return problems.Err()
}

// Items merges the flat form medicine with the medicines list.
func (in *CreatePrescriptionInput) Items() []PrescriptionItemInput {
	items := in.Medicines
	if in.MedicineID != "" {
		medicineType := model.MedicineType(in.MedicineType)
		if medicineType == "" {
			medicineType = model.MedicineTypeIndustrialized
		}
		items = append([]PrescriptionItemInput{{
			MedicineType: medicineType,
			MedicineID:   in.MedicineID,
			Quantity:     in.Quantity,
			Posology:     in.Posology,
			Via:          in.Via,
		}}, items...)
	}
	return items
}

func (in *CreatePrescriptionInput) AllRecommendations() []string {
	var out []string
	for _, r := range append([]string{in.Recommendation}, in.Recommendations...) {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// FormOptions lists the choices a client needs to build the prescription
// form.
type FormOptions struct {
	Vias          []string             `json:"vias"`
	MinQuantity   int                  `json:"min_quantity"`
	MaxQuantity   int                  `json:"max_quantity"`
	MedicineTypes []model.MedicineType `json:"medicine_types"`
	PageSizes     []model.PageSize     `json:"page_sizes"`
	Patterns      []model.Pattern      `json:"patterns"`
}

type PrescriptionService struct {
	server  *server.Server
	stores  Stores
	tasks   TaskEnqueuer
	printer *pdf.Printer
}

// NewPrescriptionService builds the service. tasks may be nil, in which case
// e-mailing prescriptions is unavailable.
func NewPrescriptionService(s *server.Server, stores Stores, tasks TaskEnqueuer) *PrescriptionService {
	return &PrescriptionService{server: s, stores: stores, tasks: tasks, printer: pdf.NewPrinter()}
}

// Filename is the attachment name used for every generated PDF.
func (s *PrescriptionService) Filename() string {
	return s.server.Config.PDF.Filename
}

func (s *PrescriptionService) FormOptions(ctx context.Context, hp *model.Account) (*FormOptions, error) {
	patterns, _, err := s.stores.Patterns.List(ctx, hp.ID, model.Page{Limit: model.MaxPageLimit})
	if err != nil {
		return nil, err
	}
	if patterns == nil {
		patterns = []model.Pattern{}
	}

	return &FormOptions{
		Vias:          model.Vias,
		MinQuantity:   model.MinQuantity,
		MaxQuantity:   model.MaxQuantity,
		MedicineTypes: []model.MedicineType{model.MedicineTypeIndustrialized, model.MedicineTypeManipulated},
		PageSizes:     model.PageSizes,
		Patterns:      patterns,
	}, nil
}

// Create resolves every reference in the input and stores the prescription.
// Unknown references come back as field errors, the same way malformed
// input does.
func (s *PrescriptionService) Create(ctx context.Context, hp *model.Account, in *CreatePrescriptionInput) (*model.Prescription, error) {
	var problems validation.CustomValidationErrors
	p := &model.Prescription{HealthProfessionalID: hp.ID}

	// found turns a not-found lookup into a field error and passes other
	// errors through.
	found := func(err error, field, message string) (bool, error) {
		if sqlerr.IsNotFound(err) {
			problems.Add(field, message)
			return false, nil
		}
		return err == nil, err
	}

	p.PatientName = truncate(strings.TrimSpace(in.Patient), model.MaxPatientNameLength)
	if in.PatientID != "" {
		patient, err := s.stores.Patients.Get(ctx, uuid.MustParse(in.PatientID))
		if ok, err := found(err, "patient_id", "patient not found"); err != nil {
			return nil, err
		} else if ok {
			p.PatientID = &patient.ID
			if p.PatientName == "" {
				p.PatientName = truncate(patient.Name, model.MaxPatientNameLength)
			}
		}
	}

	var (
		disease *model.Disease
		err     error
	)
	if in.CIDID != "" {
		disease, err = s.stores.Catalog.GetDisease(ctx, uuid.MustParse(in.CIDID))
	} else {
		disease, err = s.stores.Catalog.GetDiseaseByCode(ctx, in.CID)
	}
	if ok, err := found(err, "cid", "unknown CID code"); err != nil {
		return nil, err
	} else if ok {
		p.DiseaseID = &disease.ID
		p.Disease = disease
	}

	for i, item := range in.Items() {
		field := fmt.Sprintf("medicines[%d].medicine_id", i)
		id := uuid.MustParse(item.MedicineID)

		switch item.MedicineType {
		case model.MedicineTypeManipulated:
			m, err := s.stores.ManipulatedMedicines.Get(ctx, hp.ID, id)
			if ok, err := found(err, field, "manipulated medicine not found"); err != nil {
				return nil, err
			} else if ok {
				p.ManipulatedMedicines = append(p.ManipulatedMedicines, model.PrescribedManipulatedMedicine{
					ManipulatedMedicineID: m.ID,
					RecipeName:            m.RecipeName,
					Quantity:              item.Quantity,
					Posology:              strings.TrimSpace(item.Posology),
					Via:                   item.Via,
				})
			}
		default:
			m, err := s.stores.Catalog.GetMedicine(ctx, id)
			if ok, err := found(err, field, "medicine not found"); err != nil {
				return nil, err
			} else if ok {
				p.Medicines = append(p.Medicines, model.PrescribedMedicine{
					MedicineID: m.ID,
					Name:       m.Name,
					Quantity:   item.Quantity,
					Posology:   strings.TrimSpace(item.Posology),
					Via:        item.Via,
				})
			}
		}
	}

	for _, text := range in.AllRecommendations() {
		p.Recommendations = append(p.Recommendations, model.Recommendation{Text: text})
	}

	// An exam is requested at most once; repeats are dropped.
	seen := map[uuid.UUID]bool{}
	for i, raw := range in.DefaultExams {
		id := uuid.MustParse(raw)
		if seen[id] {
			continue
		}
		seen[id] = true

		exam, err := s.stores.Catalog.GetDefaultExam(ctx, id)
		if ok, err := found(err, fmt.Sprintf("default_exams[%d]", i), "exam not found"); err != nil {
			return nil, err
		} else if ok {
			p.DefaultExams = append(p.DefaultExams, *exam)
		}
	}

	seen = map[uuid.UUID]bool{}
	for i, raw := range in.CustomExams {
		id := uuid.MustParse(raw)
		if seen[id] {
			continue
		}
		seen[id] = true

		exam, err := s.stores.CustomExams.Get(ctx, hp.ID, id)
		if ok, err := found(err, fmt.Sprintf("custom_exams[%d]", i), "exam not found"); err != nil {
			return nil, err
		} else if ok {
			p.CustomExams = append(p.CustomExams, *exam)
		}
	}

	if err := problems.AsHTTPError(); err != nil {
		return nil, err
	}

	if err := s.stores.Prescriptions.Create(ctx, p); err != nil {
		return nil, err
	}

	s.server.Logger.Info().
		Str("prescription_id", p.ID.String()).
		Str("health_professional_id", hp.ID.String()).
		Int("medicines", len(p.Medicines)+len(p.ManipulatedMedicines)).
		Int("exams", len(p.DefaultExams)+len(p.CustomExams)).
		Msg("prescription created")

	return p, nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func (s *PrescriptionService) Get(ctx context.Context, hp *model.Account, id uuid.UUID) (*model.Prescription, error) {
	return s.stores.Prescriptions.Get(ctx, hp.ID, id)
}

func (s *PrescriptionService) List(ctx context.Context, hp *model.Account, page model.Page) (model.PaginatedResponse[model.Prescription], error) {
	page = page.Normalize()
	items, total, err := s.stores.Prescriptions.List(ctx, hp.ID, page)
	if err != nil {
		return model.PaginatedResponse[model.Prescription]{}, err
	}
	return model.NewPaginatedResponse(items, total, page), nil
}

func (s *PrescriptionService) Delete(ctx context.Context, hp *model.Account, id uuid.UUID) error {
	return s.stores.Prescriptions.Delete(ctx, hp.ID, id)
}

// pattern returns the chosen pattern, or the professional's default one when
// patternID is nil.
func (s *PrescriptionService) pattern(ctx context.Context, hp *model.Account, patternID *uuid.UUID) (*model.Pattern, error) {
	if patternID != nil {
		return s.stores.Patterns.Get(ctx, hp.ID, *patternID)
	}

	professional, err := s.stores.Accounts.GetHealthProfessional(ctx, hp.ID)
	if err != nil {
		return nil, err
	}
	return model.DefaultPattern(professional), nil
}

// RenderPDF prints one of the professional's prescriptions.
func (s *PrescriptionService) RenderPDF(ctx context.Context, hp *model.Account, id uuid.UUID, patternID *uuid.UUID) ([]byte, error) {
	p, err := s.stores.Prescriptions.Get(ctx, hp.ID, id)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, hp, p, patternID)
}

func (s *PrescriptionService) render(ctx context.Context, hp *model.Account, p *model.Prescription, patternID *uuid.UUID) ([]byte, error) {
	pattern, err := s.pattern(ctx, hp, patternID)
	if err != nil {
		return nil, err
	}

	printer := *s.printer
	printer.Author = hp.Name
	return printer.Render(p, pattern)
}

// EmailToPatient renders the prescription and queues it for delivery to the
// linked patient's e-mail address.
func (s *PrescriptionService) EmailToPatient(ctx context.Context, hp *model.Account, id uuid.UUID, patternID *uuid.UUID) error {
	if s.tasks == nil {
		err := errs.NewServiceUnavailableError("E-mail delivery is currently disabled", true)
		err.Code = "EMAIL_DISABLED"
		return err
	}

	p, err := s.stores.Prescriptions.Get(ctx, hp.ID, id)
	if err != nil {
		return err
	}
	if p.PatientID == nil {
		code := "PRESCRIPTION_WITHOUT_PATIENT"
		return errs.NewBadRequestError("Prescription is not linked to a registered patient", true, &code, nil, nil)
	}

	patient, err := s.stores.Patients.Get(ctx, *p.PatientID)
	if err != nil {
		return err
	}

	doc, err := s.render(ctx, hp, p, patternID)
	if err != nil {
		return err
	}

	task, err := job.NewPrescriptionTask(job.PrescriptionPayload{
		To:               patient.Email,
		PatientName:      p.PatientName,
		ProfessionalName: hp.Name,
		Filename:         s.Filename(),
		PDF:              doc,
	})
	if err != nil {
		return err
	}

	info, err := s.tasks.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue prescription e-mail: %w", err)
	}

	s.server.Logger.Info().
		Str("prescription_id", p.ID.String()).
		Str("task_id", info.ID).
		Msg("prescription e-mail queued")

	return nil
}
