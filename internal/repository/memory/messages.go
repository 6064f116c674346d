package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/sqlerr"
)

type Messages struct{ s *Store }

func (r *Messages) email(id uuid.UUID) string {
	for _, acc := range r.s.accounts {
		if acc.ID == id {
			return acc.Email
		}
	}
	return ""
}

func (r *Messages) Create(_ context.Context, m *model.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if m.SenderID == m.RecipientID {
		return fmt.Errorf("message sender and recipient must differ")
	}

	m.ID = uuid.New()
	m.CreatedAt = r.s.now()

	cp := *m
	cp.Attachment = slices.Clone(m.Attachment)
	r.s.messages = append(r.s.messages, &cp)
	return nil
}

func (r *Messages) find(id uuid.UUID) *model.Message {
	for _, m := range r.s.messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (r *Messages) Get(_ context.Context, id uuid.UUID) (*model.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m := r.find(id)
	if m == nil {
		return nil, sqlerr.NotFound("messages")
	}
	cp := *m
	cp.SenderEmail, cp.RecipientEmail = r.email(m.SenderID), r.email(m.RecipientID)
	return &cp, nil
}

func inMailbox(m *model.Message, accountID uuid.UUID, box model.Mailbox) bool {
	switch box {
	case model.MailboxInbox:
		return m.RecipientID == accountID && !m.RecipientArchived
	case model.MailboxOutbox:
		return m.SenderID == accountID && !m.SenderArchived
	case model.MailboxArchive:
		return (m.RecipientID == accountID && m.RecipientArchived) || (m.SenderID == accountID && m.SenderArchived)
	}
	return false
}

func (r *Messages) List(_ context.Context, accountID uuid.UUID, box model.Mailbox, page model.Page) ([]model.Message, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := newestFirst(r.s.messages, func(m *model.Message) bool { return inMailbox(m, accountID, box) })
	for i := range out {
		out[i].Attachment = nil
		out[i].SenderEmail, out[i].RecipientEmail = r.email(out[i].SenderID), r.email(out[i].RecipientID)
	}
	return paginate(out, page), len(out), nil
}

func (r *Messages) MarkRead(_ context.Context, id uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if m := r.find(id); m != nil && m.ReadAt == nil {
		m.ReadAt = &at
	}
	return nil
}

func (r *Messages) SetArchived(_ context.Context, id, accountID uuid.UUID, archived bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m := r.find(id)
	if m == nil || !m.IsParticipant(accountID) {
		return sqlerr.NotFound("messages")
	}
	if m.SenderID == accountID {
		m.SenderArchived = archived
	}
	if m.RecipientID == accountID {
		m.RecipientArchived = archived
	}
	return nil
}

func (r *Messages) CountUnread(_ context.Context, accountID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, m := range r.s.messages {
		if m.RecipientID == accountID && m.ReadAt == nil && !m.RecipientArchived {
			n++
		}
	}
	return n, nil
}

func (r *Messages) ListSharedFiles(_ context.Context, accountA, accountB uuid.UUID) ([]model.SharedFile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	files := []model.SharedFile{}
	for _, m := range slices.Backward(r.s.messages) {
		between := (m.SenderID == accountA && m.RecipientID == accountB) ||
			(m.SenderID == accountB && m.RecipientID == accountA)
		if !between || !m.HasAttachment() {
			continue
		}

		contentType := "application/octet-stream"
		if m.AttachmentType != nil {
			contentType = *m.AttachmentType
		}
		files = append(files, model.SharedFile{
			MessageID:   m.ID,
			Name:        *m.AttachmentName,
			ContentType: contentType,
			Size:        len(m.Attachment),
			SenderID:    m.SenderID,
			CreatedAt:   m.CreatedAt,
		})
	}
	return files, nil
}
