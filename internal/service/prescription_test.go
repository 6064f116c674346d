package service

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/deppfellow/medical-prescription/internal/lib/job"
	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/repository/memory"
	"github.com/deppfellow/medical-prescription/internal/sqlerr"
)

type prescriptionFixture struct {
	store    *memory.Store
	svc      *PrescriptionService
	tasks    *fakeEnqueuer
	hp       *model.HealthProfessional
	other    *model.HealthProfessional
	patient  *model.Patient
	disease  model.Disease
	medicine model.Medicine
	exam     model.DefaultExam
}

func newPrescriptionFixture(t *testing.T) *prescriptionFixture {
	t.Helper()

	m := memory.New()
	f := &prescriptionFixture{
		store:    m,
		tasks:    &fakeEnqueuer{},
		hp:       m.AddHealthProfessional("Dra. Ana Souza", "ana@example.com", "12345", "DF"),
		other:    m.AddHealthProfessional("Dr. Beto Lima", "beto@example.com", "54321", "SP"),
		patient:  m.AddPatient("Maria Oliveira", "maria@example.com"),
		disease:  m.AddDisease("J45", "Asma"),
		medicine: m.AddMedicine("Salbutamol 100mcg", "salbutamol"),
		exam:     m.AddDefaultExam("40304361", "Hemograma completo"),
	}
	f.svc = NewPrescriptionService(newTestServer(), memoryStores(m), f.tasks)
	return f
}

func (f *prescriptionFixture) validInput() *CreatePrescriptionInput {
	return &CreatePrescriptionInput{
		Patient:        "Maria Oliveira",
		CID:            "J45",
		MedicineType:   string(model.MedicineTypeIndustrialized),
		MedicineID:     f.medicine.ID.String(),
		Quantity:       2,
		Posology:       "2 jatos a cada 6 horas",
		Via:            "Via Inalatória",
		Recommendation: "Evitar poeira",
	}
}

func TestCreatePrescriptionFromFlatForm(t *testing.T) {
	f := newPrescriptionFixture(t)
	in := f.validInput()
	in.DefaultExams = []string{f.exam.ID.String()}

	if err := in.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	p, err := f.svc.Create(context.Background(), &f.hp.Account, in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if p.Disease == nil || p.Disease.Code != "J45" {
		t.Errorf("Disease = %+v", p.Disease)
	}
	if len(p.Medicines) != 1 || p.Medicines[0].Name != "Salbutamol 100mcg" || p.Medicines[0].Quantity != 2 {
		t.Errorf("Medicines = %+v", p.Medicines)
	}
	if len(p.Recommendations) != 1 || len(p.DefaultExams) != 1 {
		t.Errorf("Recommendations = %+v, DefaultExams = %+v", p.Recommendations, p.DefaultExams)
	}

	got, err := f.svc.Get(context.Background(), &f.hp.Account, p.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.PatientName != "Maria Oliveira" || got.Disease == nil {
		t.Errorf("stored prescription = %+v", got)
	}
}

func TestCreatePrescriptionDropsRepeatedExams(t *testing.T) {
	f := newPrescriptionFixture(t)
	ctx := context.Background()

	custom := &model.CustomExam{HealthProfessionalID: f.hp.ID, Name: "Vitamina D", Description: "Dosagem de vitamina D"}
	if err := f.store.CustomExams().Create(ctx, custom); err != nil {
		t.Fatalf("CustomExams().Create() error = %v", err)
	}

	in := f.validInput()
	in.DefaultExams = []string{f.exam.ID.String(), f.exam.ID.String()}
	in.CustomExams = []string{custom.ID.String(), custom.ID.String()}

	p, err := f.svc.Create(ctx, &f.hp.Account, in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(p.DefaultExams) != 1 || len(p.CustomExams) != 1 {
		t.Fatalf("DefaultExams = %+v, CustomExams = %+v", p.DefaultExams, p.CustomExams)
	}

	got, err := f.svc.Get(ctx, &f.hp.Account, p.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.DefaultExams) != 1 || len(got.CustomExams) != 1 {
		t.Errorf("stored exams = %+v / %+v", got.DefaultExams, got.CustomExams)
	}
}

func TestCreatePrescriptionRequiresPatientAndCID(t *testing.T) {
	in := &CreatePrescriptionInput{Recommendation: "Repouso"}

	got := fieldErrors(t, validationHTTPError(in.Validate()))
	if got["patient"] == "" || got["cid"] == "" {
		t.Errorf("field errors = %v", got)
	}
}

func TestCreatePrescriptionRejectsInvalidCIDFormat(t *testing.T) {
	in := &CreatePrescriptionInput{Patient: "Maria", CID: "not-a-cid", Recommendation: "Repouso"}
	if err := in.Validate(); err == nil {
		t.Fatal("expected a validation error for a malformed CID")
	}
}

func TestCreatePrescriptionRejectsLongPatientName(t *testing.T) {
	in := &CreatePrescriptionInput{Patient: string(bytes.Repeat([]byte("a"), 51)), CID: "J45", Recommendation: "Repouso"}
	if err := in.Validate(); err == nil {
		t.Fatal("expected a validation error for a 51 character name")
	}
}

func TestCreatePrescriptionUnknownCIDIsFieldError(t *testing.T) {
	f := newPrescriptionFixture(t)
	in := f.validInput()
	in.CID = "Z99"

	got := fieldErrors(t, func() error {
		_, err := f.svc.Create(context.Background(), &f.hp.Account, in)
		return err
	}())
	if got["cid"] != "unknown CID code" {
		t.Errorf("field errors = %v", got)
	}
}

func TestCreatePrescriptionValidatesQuantityAndVia(t *testing.T) {
	f := newPrescriptionFixture(t)
	in := f.validInput()
	in.Quantity = 101
	in.Via = "Via Desconhecida"

	got := fieldErrors(t, validationHTTPError(in.Validate()))
	if got["quantity"] == "" || got["via"] == "" {
		t.Errorf("field errors = %v", got)
	}
}

func TestCreatePrescriptionNeedsAnItem(t *testing.T) {
	in := &CreatePrescriptionInput{Patient: "Maria", CID: "J45"}

	got := fieldErrors(t, validationHTTPError(in.Validate()))
	if got["medicines"] == "" {
		t.Errorf("field errors = %v", got)
	}
}

func TestCreatePrescriptionOnlyUsesOwnManipulatedMedicines(t *testing.T) {
	f := newPrescriptionFixture(t)
	ctx := context.Background()

	theirs := &model.ManipulatedMedicine{HealthProfessionalID: f.other.ID, RecipeName: "Pomada", Quantity: 1}
	if err := f.store.ManipulatedMedicines().Create(ctx, theirs); err != nil {
		t.Fatal(err)
	}

	in := f.validInput()
	in.Medicines = []PrescriptionItemInput{{
		MedicineType: model.MedicineTypeManipulated,
		MedicineID:   theirs.ID.String(),
		Quantity:     1,
		Via:          "Via Tópica",
	}}

	got := fieldErrors(t, func() error {
		_, err := f.svc.Create(ctx, &f.hp.Account, in)
		return err
	}())
	if got["medicines[1].medicine_id"] == "" {
		t.Errorf("field errors = %v", got)
	}
}

func TestCreatePrescriptionLinksRegisteredPatient(t *testing.T) {
	f := newPrescriptionFixture(t)
	in := f.validInput()
	in.Patient = ""
	in.PatientID = f.patient.ID.String()

	p, err := f.svc.Create(context.Background(), &f.hp.Account, in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.PatientID == nil || *p.PatientID != f.patient.ID || p.PatientName != "Maria Oliveira" {
		t.Errorf("patient = %v %q", p.PatientID, p.PatientName)
	}
}

func TestPrescriptionsAreScopedToTheirAuthor(t *testing.T) {
	f := newPrescriptionFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, &f.hp.Account, f.validInput())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.Get(ctx, &f.other.Account, p.ID); !sqlerr.IsNotFound(err) {
		t.Errorf("Get() by another professional err = %v", err)
	}
	if err := f.svc.Delete(ctx, &f.other.Account, p.ID); !sqlerr.IsNotFound(err) {
		t.Errorf("Delete() by another professional err = %v", err)
	}

	list, err := f.svc.List(ctx, &f.other.Account, model.Page{})
	if err != nil || list.Total != 0 {
		t.Errorf("List() = %+v, %v", list, err)
	}
}

func TestRenderPDFWithDefaultPattern(t *testing.T) {
	f := newPrescriptionFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, &f.hp.Account, f.validInput())
	if err != nil {
		t.Fatal(err)
	}

	doc, err := f.svc.RenderPDF(ctx, &f.hp.Account, p.ID, nil)
	if err != nil {
		t.Fatalf("RenderPDF() error = %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF-")) {
		t.Error("RenderPDF() did not return a PDF")
	}

	missing := uuid.New()
	if _, err := f.svc.RenderPDF(ctx, &f.hp.Account, p.ID, &missing); !sqlerr.IsNotFound(err) {
		t.Errorf("unknown pattern err = %v", err)
	}
}

func TestEmailToPatientQueuesTask(t *testing.T) {
	f := newPrescriptionFixture(t)
	ctx := context.Background()

	in := f.validInput()
	in.PatientID = f.patient.ID.String()
	p, err := f.svc.Create(ctx, &f.hp.Account, in)
	if err != nil {
		t.Fatal(err)
	}

	if err := f.svc.EmailToPatient(ctx, &f.hp.Account, p.ID, nil); err != nil {
		t.Fatalf("EmailToPatient() error = %v", err)
	}
	if len(f.tasks.tasks) != 1 || f.tasks.tasks[0].Type() != job.TaskPrescription {
		t.Fatalf("tasks = %+v", f.tasks.tasks)
	}

	var payload job.PrescriptionPayload
	if err := json.Unmarshal(f.tasks.tasks[0].Payload(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.To != "maria@example.com" || payload.Filename != "prescription.pdf" || len(payload.PDF) == 0 {
		t.Errorf("payload = %+v", payload)
	}
}

func TestEmailToPatientNeedsLinkedPatient(t *testing.T) {
	f := newPrescriptionFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, &f.hp.Account, f.validInput())
	if err != nil {
		t.Fatal(err)
	}
	if err := f.svc.EmailToPatient(ctx, &f.hp.Account, p.ID, nil); err == nil {
		t.Fatal("expected an error for a prescription without a registered patient")
	}
	if len(f.tasks.tasks) != 0 {
		t.Error("no task should be queued")
	}
}

func TestFormOptions(t *testing.T) {
	f := newPrescriptionFixture(t)

	opts, err := f.svc.FormOptions(context.Background(), &f.hp.Account)
	if err != nil {
		t.Fatal(err)
	}
	if len(opts.Vias) != len(model.Vias) || opts.MaxQuantity != 100 || opts.Patterns == nil {
		t.Errorf("options = %+v", opts)
	}
}
