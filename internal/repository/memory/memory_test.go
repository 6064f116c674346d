package memory_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/deppfellow/medical-prescription/internal/errs"
	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/repository/memory"
	"github.com/deppfellow/medical-prescription/internal/service"
	"github.com/deppfellow/medical-prescription/internal/sqlerr"
)

var (
	_ service.AccountStore             = (*memory.Accounts)(nil)
	_ service.PatientStore             = (*memory.Patients)(nil)
	_ service.CatalogStore             = (*memory.Catalog)(nil)
	_ service.ManipulatedMedicineStore = (*memory.ManipulatedMedicines)(nil)
	_ service.CustomExamStore          = (*memory.CustomExams)(nil)
	_ service.PatternStore             = (*memory.Patterns)(nil)
	_ service.PrescriptionStore        = (*memory.Prescriptions)(nil)
	_ service.MessageStore             = (*memory.Messages)(nil)
)

func TestDuplicateEmailIsConflict(t *testing.T) {
	s := memory.New()
	s.AddPatient("Maria", "maria@example.com")

	err := s.Patients().Create(context.Background(), &model.Patient{Account: model.Account{Name: "Outra", Email: "MARIA@example.com"}})
	if err == nil {
		t.Fatal("expected unique violation")
	}

	httpErr, ok := sqlerr.HandleError(err).(*errs.HTTPError)
	if !ok || httpErr.Status != http.StatusConflict {
		t.Fatalf("HandleError() = %v, want 409", err)
	}
}

func TestOwnedRowsAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	a := s.AddHealthProfessional("Dra. Ana", "ana@example.com", "1", "DF")
	b := s.AddHealthProfessional("Dr. Beto", "beto@example.com", "2", "DF")

	exam := &model.CustomExam{HealthProfessionalID: a.ID, Name: "Vitamina D", Description: "Dosagem de vitamina D"}
	if err := s.CustomExams().Create(ctx, exam); err != nil {
		t.Fatal(err)
	}

	if _, err := s.CustomExams().Get(ctx, b.ID, exam.ID); !sqlerr.IsNotFound(err) {
		t.Errorf("Get() by other owner err = %v, want not found", err)
	}
	if err := s.CustomExams().Delete(ctx, b.ID, exam.ID); !sqlerr.IsNotFound(err) {
		t.Errorf("Delete() by other owner err = %v, want not found", err)
	}

	list, total, err := s.CustomExams().List(ctx, a.ID, model.Page{Limit: 10})
	if err != nil || total != 1 || len(list) != 1 {
		t.Fatalf("List() = %v, %d, %v", list, total, err)
	}
}

func TestPatternUpdateKeepsLogo(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	hp := s.AddHealthProfessional("Dra. Ana", "ana@example.com", "1", "DF")

	p := model.DefaultPattern(hp)
	if err := s.Patterns().Create(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := s.Patterns().SetLogo(ctx, hp.ID, p.ID, []byte{0x89, 'P', 'N', 'G'}, "image/png"); err != nil {
		t.Fatal(err)
	}

	p.Name = "consultório"
	if err := s.Patterns().Update(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := s.Patterns().Get(ctx, hp.ID, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "consultório" || !got.HasLogo() {
		t.Errorf("got %+v", got)
	}
}

func TestMailboxes(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	hp := s.AddHealthProfessional("Dra. Ana", "ana@example.com", "1", "DF")
	patient := s.AddPatient("Maria", "maria@example.com")
	msgs := s.Messages()

	name, ctype := "exame.pdf", "application/pdf"
	m := &model.Message{
		Subject: "Resultado", Text: "Segue", SenderID: patient.ID, RecipientID: hp.ID,
		AttachmentName: &name, AttachmentType: &ctype, Attachment: []byte("%PDF-1.4"),
	}
	if err := msgs.Create(ctx, m); err != nil {
		t.Fatal(err)
	}

	inbox, _, _ := msgs.List(ctx, hp.ID, model.MailboxInbox, model.Page{Limit: 10})
	if len(inbox) != 1 || inbox[0].Attachment != nil || inbox[0].SenderEmail != "maria@example.com" {
		t.Fatalf("inbox = %+v", inbox)
	}

	if n, _ := msgs.CountUnread(ctx, hp.ID); n != 1 {
		t.Errorf("CountUnread() = %d", n)
	}
	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	_ = msgs.MarkRead(ctx, m.ID, first)
	_ = msgs.MarkRead(ctx, m.ID, first.Add(time.Hour))
	got, _ := msgs.Get(ctx, m.ID)
	if got.ReadAt == nil || !got.ReadAt.Equal(first) {
		t.Errorf("ReadAt = %v, want first read", got.ReadAt)
	}

	if err := msgs.SetArchived(ctx, m.ID, hp.ID, true); err != nil {
		t.Fatal(err)
	}
	if _, n, _ := msgs.List(ctx, hp.ID, model.MailboxArchive, model.Page{Limit: 10}); n != 1 {
		t.Errorf("archive total = %d", n)
	}
	if _, n, _ := msgs.List(ctx, patient.ID, model.MailboxOutbox, model.Page{Limit: 10}); n != 1 {
		t.Errorf("sender outbox should be unaffected, total = %d", n)
	}

	files, _ := msgs.ListSharedFiles(ctx, hp.ID, patient.ID)
	if len(files) != 1 || files[0].Size != len("%PDF-1.4") {
		t.Errorf("files = %+v", files)
	}
}

func TestImportSkipsExistingCodes(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	s.AddDisease("J45", "Asma")

	n, err := s.Catalog().ImportDiseases(ctx, []model.Disease{
		{Code: "J45", Description: "Asma"},
		{Code: "A00", Description: "Cólera"},
		{Code: "A00", Description: "Cólera"},
	})
	if err != nil || n != 1 {
		t.Fatalf("ImportDiseases() = %d, %v", n, err)
	}

	found, _ := s.Catalog().SearchDiseases(ctx, "cól", 10)
	if len(found) != 1 || found[0].Code != "A00" {
		t.Errorf("search = %+v", found)
	}
}

func TestPrescriptionExamsAreUnique(t *testing.T) {
	s := memory.New()
	hp := s.AddHealthProfessional("Dra. Ana", "ana@example.com", "12345", "DF")
	exam := s.AddDefaultExam("40304361", "Hemograma completo")

	p := &model.Prescription{
		HealthProfessionalID: hp.ID,
		PatientName:          "Maria",
		DefaultExams:         []model.DefaultExam{exam, exam},
	}
	err := s.Prescriptions().Create(context.Background(), p)
	if err == nil {
		t.Fatal("expected unique violation")
	}

	httpErr, ok := sqlerr.HandleError(err).(*errs.HTTPError)
	if !ok || httpErr.Status != http.StatusConflict {
		t.Fatalf("HandleError() = %v, want 409", err)
	}
}
