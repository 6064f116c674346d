package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/deppfellow/medical-prescription/internal/errs"
	"github.com/deppfellow/medical-prescription/internal/lib/job"
	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/server"
	"github.com/deppfellow/medical-prescription/internal/sqlerr"
	"github.com/deppfellow/medical-prescription/internal/validation"
)

const (
	MaxAttachmentSize = 5 << 20
	replyPrefix       = "Re: "
	recipientLimit    = 10
)

type ComposeMessageInput struct {
	Recipient string `json:"recipient" form:"recipient" validate:"required,email"`
	Subject   string `json:"subject" form:"subject" validate:"required,max=200"`
	Text      string `json:"text" form:"text" validate:"required,max=10000"`
}

func (in *ComposeMessageInput) Validate() error {
	return validation.Struct(in)
}

type ReplyMessageInput struct {
	Text string `json:"text" form:"text" validate:"required,max=10000"`
}

func (in *ReplyMessageInput) Validate() error {
	return validation.Struct(in)
}

// Attachment is an uploaded file. Name is the client supplied file name.
type Attachment struct {
	Name    string
	Content []byte
}

type MessageService struct {
	server   *server.Server
	accounts AccountStore
	messages MessageStore
	tasks    TaskEnqueuer
	now      func() time.Time
}

// NewMessageService builds the service. tasks may be nil, which disables
// e-mail notifications.
func NewMessageService(s *server.Server, accounts AccountStore, messages MessageStore, tasks TaskEnqueuer) *MessageService {
	return &MessageService{server: s, accounts: accounts, messages: messages, tasks: tasks, now: time.Now}
}

func attachmentError(msg string) error {
	return errs.NewFormError(errs.FieldError{Field: "file", Error: msg})
}

func (s *MessageService) attach(m *model.Message, file *Attachment) error {
	if file == nil || len(file.Content) == 0 {
		return nil
	}
	if len(file.Content) > MaxAttachmentSize {
		return attachmentError(fmt.Sprintf("must not exceed %d bytes", MaxAttachmentSize))
	}

	name := strings.TrimSpace(file.Name)
	if name == "" {
		name = "attachment" + mimetype.Detect(file.Content).Extension()
	}
	contentType := mimetype.Detect(file.Content).String()

	m.AttachmentName = &name
	m.AttachmentType = &contentType
	m.Attachment = file.Content
	return nil
}

// Compose sends a new message to an account of the opposite role.
func (s *MessageService) Compose(ctx context.Context, sender *model.Account, in *ComposeMessageInput, file *Attachment) (*model.Message, error) {
	recipient, err := s.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Recipient)))
	if sqlerr.IsNotFound(err) {
		return nil, errs.NewFormError(errs.FieldError{Field: "recipient", Error: "no account with this e-mail"})
	}
	if err != nil {
		return nil, err
	}
	if recipient.Role != sender.Role.Counterpart() {
		return nil, errs.NewFormError(errs.FieldError{Field: "recipient", Error: "cannot receive messages from you"})
	}

	m := &model.Message{
		Subject:     strings.TrimSpace(in.Subject),
		Text:        in.Text,
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
	}
	if err := s.attach(m, file); err != nil {
		return nil, err
	}

	return s.send(ctx, sender, recipient, m)
}

// Reply answers a message the sender takes part in. The reply goes to the
// other participant.
func (s *MessageService) Reply(ctx context.Context, sender *model.Account, parentID uuid.UUID, in *ReplyMessageInput, file *Attachment) (*model.Message, error) {
	parent, err := s.visible(ctx, sender, parentID)
	if err != nil {
		return nil, err
	}

	recipient, err := s.accounts.Get(ctx, parent.Other(sender.ID))
	if err != nil {
		return nil, err
	}

	subject := parent.Subject
	if !strings.HasPrefix(subject, replyPrefix) {
		subject = replyPrefix + subject
	}

	m := &model.Message{
		Subject:     subject,
		Text:        in.Text,
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		ParentID:    &parent.ID,
	}
	if err := s.attach(m, file); err != nil {
		return nil, err
	}

	return s.send(ctx, sender, recipient, m)
}

func (s *MessageService) send(ctx context.Context, sender, recipient *model.Account, m *model.Message) (*model.Message, error) {
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	m.SenderEmail, m.RecipientEmail = sender.Email, recipient.Email

	s.notify(ctx, sender, recipient, m)
	return m, nil
}

// notify queues the new message e-mail. Failures are logged; the message is
// already stored.
func (s *MessageService) notify(ctx context.Context, sender, recipient *model.Account, m *model.Message) {
	if s.tasks == nil {
		return
	}

	task, err := job.NewNewMessageTask(job.NewMessagePayload{
		To:            recipient.Email,
		RecipientName: recipient.Name,
		SenderName:    sender.Name,
		Subject:       m.Subject,
	})
	if err == nil {
		_, err = s.tasks.EnqueueContext(ctx, task)
	}
	if err != nil {
		s.server.Logger.Error().
			Err(err).
			Str("message_id", m.ID.String()).
			Msg("failed to enqueue new message notification")
	}
}

// visible loads a message the account takes part in. Messages of other
// accounts are reported as missing.
func (s *MessageService) visible(ctx context.Context, account *model.Account, id uuid.UUID) (*model.Message, error) {
	m, err := s.messages.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.IsParticipant(account.ID) {
		return nil, sqlerr.NotFound("messages")
	}
	return m, nil
}

func (s *MessageService) List(ctx context.Context, account *model.Account, box model.Mailbox, page model.Page) (model.PaginatedResponse[model.Message], error) {
	page = page.Normalize()
	items, total, err := s.messages.List(ctx, account.ID, box, page)
	if err != nil {
		return model.PaginatedResponse[model.Message]{}, err
	}
	return model.NewPaginatedResponse(items, total, page), nil
}

// View returns the message and marks it read when the viewer is the
// recipient.
func (s *MessageService) View(ctx context.Context, account *model.Account, id uuid.UUID) (*model.Message, error) {
	m, err := s.visible(ctx, account, id)
	if err != nil {
		return nil, err
	}

	if m.RecipientID == account.ID && m.ReadAt == nil {
		now := s.now()
		if err := s.messages.MarkRead(ctx, m.ID, now); err != nil {
			return nil, err
		}
		m.ReadAt = &now
	}
	return m, nil
}

func (s *MessageService) Archive(ctx context.Context, account *model.Account, id uuid.UUID) error {
	return s.setArchived(ctx, account, id, true)
}

func (s *MessageService) Unarchive(ctx context.Context, account *model.Account, id uuid.UUID) error {
	return s.setArchived(ctx, account, id, false)
}

func (s *MessageService) setArchived(ctx context.Context, account *model.Account, id uuid.UUID, archived bool) error {
	if _, err := s.visible(ctx, account, id); err != nil {
		return err
	}
	return s.messages.SetArchived(ctx, id, account.ID, archived)
}

func (s *MessageService) CountUnread(ctx context.Context, account *model.Account) (int, error) {
	return s.messages.CountUnread(ctx, account.ID)
}

// Recipients autocompletes e-mail addresses of accounts the user may write
// to.
func (s *MessageService) Recipients(ctx context.Context, account *model.Account, query string) ([]model.Account, error) {
	accounts, err := s.accounts.Search(ctx, account.Role.Counterpart(), query, recipientLimit)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []model.Account{}
	}
	return accounts, nil
}

// Attachment returns the file of a message the account takes part in.
func (s *MessageService) Attachment(ctx context.Context, account *model.Account, id uuid.UUID) (*Attachment, string, error) {
	m, err := s.visible(ctx, account, id)
	if err != nil {
		return nil, "", err
	}
	if !m.HasAttachment() {
		return nil, "", errs.NewNotFoundError("Message has no attachment", true, nil)
	}

	contentType := "application/octet-stream"
	if m.AttachmentType != nil {
		contentType = *m.AttachmentType
	}
	return &Attachment{Name: *m.AttachmentName, Content: m.Attachment}, contentType, nil
}
