package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/medical-prescription/internal/lib/job"
	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/repository/memory"
	"github.com/deppfellow/medical-prescription/internal/sqlerr"
)

type messageFixture struct {
	svc      *MessageService
	tasks    *fakeEnqueuer
	hp       *model.HealthProfessional
	otherHP  *model.HealthProfessional
	patient  *model.Patient
	stranger *model.Patient
}

func newMessageFixture(t *testing.T) *messageFixture {
	t.Helper()

	m := memory.New()
	f := &messageFixture{
		tasks:    &fakeEnqueuer{},
		hp:       m.AddHealthProfessional("Dra. Ana Souza", "ana@example.com", "12345", "DF"),
		otherHP:  m.AddHealthProfessional("Dr. Beto Lima", "beto@example.com", "54321", "SP"),
		patient:  m.AddPatient("Maria Oliveira", "maria@example.com"),
		stranger: m.AddPatient("José Santos", "jose@example.com"),
	}
	f.svc = NewMessageService(newTestServer(), m.Accounts(), m.Messages(), f.tasks)
	f.svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return f
}

func (f *messageFixture) compose(t *testing.T, file *Attachment) *model.Message {
	t.Helper()
	msg, err := f.svc.Compose(context.Background(), &f.patient.Account, &ComposeMessageInput{
		Recipient: "ana@example.com",
		Subject:   "Dúvida sobre a receita",
		Text:      "Posso tomar junto com o café?",
	}, file)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	return msg
}

func TestComposeQueuesNotification(t *testing.T) {
	f := newMessageFixture(t)
	msg := f.compose(t, nil)

	if msg.RecipientID != f.hp.ID || msg.SenderEmail != "maria@example.com" {
		t.Errorf("message = %+v", msg)
	}
	if len(f.tasks.tasks) != 1 || f.tasks.tasks[0].Type() != job.TaskNewMessage {
		t.Errorf("tasks = %+v", f.tasks.tasks)
	}
}

func TestComposeSurvivesQueueFailure(t *testing.T) {
	f := newMessageFixture(t)
	f.tasks.err = errors.New("redis down")

	if msg := f.compose(t, nil); msg.ID.String() == "" {
		t.Fatal("message should be stored even when the notification fails")
	}
}

func TestComposeRequiresOppositeRole(t *testing.T) {
	f := newMessageFixture(t)

	_, err := f.svc.Compose(context.Background(), &f.patient.Account, &ComposeMessageInput{
		Recipient: "jose@example.com", Subject: "Oi", Text: "Oi",
	}, nil)
	if got := fieldErrors(t, err); got["recipient"] == "" {
		t.Errorf("field errors = %v", got)
	}

	_, err = f.svc.Compose(context.Background(), &f.patient.Account, &ComposeMessageInput{
		Recipient: "nobody@example.com", Subject: "Oi", Text: "Oi",
	}, nil)
	if got := fieldErrors(t, err); got["recipient"] == "" {
		t.Errorf("field errors = %v", got)
	}
}

func TestComposeAttachmentLimits(t *testing.T) {
	f := newMessageFixture(t)

	msg := f.compose(t, &Attachment{Name: "exame.pdf", Content: []byte("%PDF-1.4\n%âãÏÓ\n")})
	if !msg.HasAttachment() || *msg.AttachmentType != "application/pdf" {
		t.Errorf("attachment = %v %v", msg.AttachmentName, msg.AttachmentType)
	}

	_, err := f.svc.Compose(context.Background(), &f.patient.Account, &ComposeMessageInput{
		Recipient: "ana@example.com", Subject: "Grande", Text: "Segue",
	}, &Attachment{Name: "big.bin", Content: make([]byte, MaxAttachmentSize+1)})
	if got := fieldErrors(t, err); got["file"] == "" {
		t.Errorf("field errors = %v", got)
	}
}

func TestReplyGoesToOtherParticipant(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	original := f.compose(t, nil)

	reply, err := f.svc.Reply(ctx, &f.hp.Account, original.ID, &ReplyMessageInput{Text: "Pode sim."}, nil)
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if reply.RecipientID != f.patient.ID || reply.Subject != "Re: Dúvida sobre a receita" {
		t.Errorf("reply = %+v", reply)
	}
	if reply.ParentID == nil || *reply.ParentID != original.ID {
		t.Errorf("ParentID = %v", reply.ParentID)
	}

	again, err := f.svc.Reply(ctx, &f.patient.Account, reply.ID, &ReplyMessageInput{Text: "Obrigada"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(again.Subject, "Re: ") != 1 {
		t.Errorf("Subject = %q", again.Subject)
	}

	if _, err := f.svc.Reply(ctx, &f.otherHP.Account, original.ID, &ReplyMessageInput{Text: "?"}, nil); !sqlerr.IsNotFound(err) {
		t.Errorf("non participant reply err = %v", err)
	}
}

func TestViewMarksReadForRecipientOnly(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	msg := f.compose(t, nil)

	seen, err := f.svc.View(ctx, &f.patient.Account, msg.ID)
	if err != nil || seen.ReadAt != nil {
		t.Fatalf("sender view: %+v, %v", seen, err)
	}

	if n, _ := f.svc.CountUnread(ctx, &f.hp.Account); n != 1 {
		t.Errorf("CountUnread() = %d, want 1", n)
	}
	seen, err = f.svc.View(ctx, &f.hp.Account, msg.ID)
	if err != nil || seen.ReadAt == nil {
		t.Fatalf("recipient view: %+v, %v", seen, err)
	}
	if n, _ := f.svc.CountUnread(ctx, &f.hp.Account); n != 0 {
		t.Errorf("CountUnread() = %d, want 0", n)
	}

	if _, err := f.svc.View(ctx, &f.stranger.Account, msg.ID); !sqlerr.IsNotFound(err) {
		t.Errorf("stranger view err = %v", err)
	}
}

func TestArchiveIsPerSide(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	msg := f.compose(t, nil)

	if err := f.svc.Archive(ctx, &f.hp.Account, msg.ID); err != nil {
		t.Fatal(err)
	}

	inbox, _ := f.svc.List(ctx, &f.hp.Account, model.MailboxInbox, model.Page{})
	archive, _ := f.svc.List(ctx, &f.hp.Account, model.MailboxArchive, model.Page{})
	outbox, _ := f.svc.List(ctx, &f.patient.Account, model.MailboxOutbox, model.Page{})
	if inbox.Total != 0 || archive.Total != 1 || outbox.Total != 1 {
		t.Errorf("inbox=%d archive=%d outbox=%d", inbox.Total, archive.Total, outbox.Total)
	}

	if err := f.svc.Unarchive(ctx, &f.hp.Account, msg.ID); err != nil {
		t.Fatal(err)
	}
	inbox, _ = f.svc.List(ctx, &f.hp.Account, model.MailboxInbox, model.Page{})
	if inbox.Total != 1 {
		t.Errorf("inbox after unarchive = %d", inbox.Total)
	}

	if err := f.svc.Archive(ctx, &f.stranger.Account, msg.ID); !sqlerr.IsNotFound(err) {
		t.Errorf("stranger archive err = %v", err)
	}
}

func TestRecipientsOnlyCounterparts(t *testing.T) {
	f := newMessageFixture(t)

	got, err := f.svc.Recipients(context.Background(), &f.patient.Account, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("recipients = %+v", got)
	}
	for _, a := range got {
		if a.Role != model.RoleHealthProfessional {
			t.Errorf("unexpected recipient %+v", a)
		}
	}

	got, _ = f.svc.Recipients(context.Background(), &f.patient.Account, "be")
	if len(got) != 1 || got[0].Email != "beto@example.com" {
		t.Errorf("prefix search = %+v", got)
	}
}

func TestAttachmentDownload(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	plain := f.compose(t, nil)
	if _, _, err := f.svc.Attachment(ctx, &f.hp.Account, plain.ID); err == nil {
		t.Error("expected an error for a message without attachment")
	}

	withFile := f.compose(t, &Attachment{Name: "nota.txt", Content: []byte("olá")})
	file, contentType, err := f.svc.Attachment(ctx, &f.hp.Account, withFile.ID)
	if err != nil {
		t.Fatal(err)
	}
	if file.Name != "nota.txt" || !strings.HasPrefix(contentType, "text/plain") || string(file.Content) != "olá" {
		t.Errorf("file = %+v, type = %q", file, contentType)
	}
}
