package model

import (
	"time"

	"github.com/google/uuid"
)

type Mailbox string

const (
	MailboxInbox   Mailbox = "inbox"
	MailboxOutbox  Mailbox = "outbox"
	MailboxArchive Mailbox = "archive"
)

// Message is a private note between a patient and a health professional.
// Each side archives independently.
type Message struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	Subject           string     `json:"subject" db:"subject"`
	Text              string     `json:"text" db:"text"`
	SenderID          uuid.UUID  `json:"sender_id" db:"sender_id"`
	RecipientID       uuid.UUID  `json:"recipient_id" db:"recipient_id"`
	ParentID          *uuid.UUID `json:"parent_id,omitempty" db:"parent_id"`
	ReadAt            *time.Time `json:"read_at,omitempty" db:"read_at"`
	SenderArchived    bool       `json:"sender_archived" db:"sender_archived"`
	RecipientArchived bool       `json:"recipient_archived" db:"recipient_archived"`
	AttachmentName    *string    `json:"attachment_name,omitempty" db:"attachment_name"`
	AttachmentType    *string    `json:"attachment_type,omitempty" db:"attachment_type"`
	Attachment        []byte     `json:"-" db:"attachment"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`

	SenderEmail    string `json:"sender_email" db:"sender_email"`
	RecipientEmail string `json:"recipient_email" db:"recipient_email"`
}

func (m *Message) IsParticipant(accountID uuid.UUID) bool {
	return m.SenderID == accountID || m.RecipientID == accountID
}

// Other returns the participant that is not accountID.
func (m *Message) Other(accountID uuid.UUID) uuid.UUID {
	if m.SenderID == accountID {
		return m.RecipientID
	}
	return m.SenderID
}

func (m *Message) HasAttachment() bool {
	return m.AttachmentName != nil
}

// ArchivedFor reports the archive flag on accountID's side.
func (m *Message) ArchivedFor(accountID uuid.UUID) bool {
	if m.SenderID == accountID {
		return m.SenderArchived
	}
	return m.RecipientArchived
}

// SharedFile is an attachment exchanged between a professional and a patient.
type SharedFile struct {
	MessageID   uuid.UUID `json:"message_id" db:"message_id"`
	Name        string    `json:"name" db:"name"`
	ContentType string    `json:"content_type" db:"content_type"`
	Size        int       `json:"size" db:"size"`
	SenderID    uuid.UUID `json:"sender_id" db:"sender_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
