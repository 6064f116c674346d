package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/medical-prescription/internal/model"
)

// The attachment body is only read by Get.
const messageSelect = `
	SELECT m.id, m.subject, m.text, m.sender_id, m.recipient_id, m.parent_id, m.read_at,
		m.sender_archived, m.recipient_archived, m.attachment_name, m.attachment_type,
		%s AS attachment, m.created_at,
		s.email AS sender_email, r.email AS recipient_email
	FROM messages m
	JOIN accounts s ON s.id = m.sender_id
	JOIN accounts r ON r.id = m.recipient_id`

var (
	messageWithAttachment = fmt.Sprintf(messageSelect, "m.attachment")
	messageHeaders        = fmt.Sprintf(messageSelect, "NULL::bytea")
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func (r *MessageRepository) Create(ctx context.Context, m *model.Message) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO messages (subject, text, sender_id, recipient_id, parent_id, attachment_name, attachment_type, attachment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		m.Subject, m.Text, m.SenderID, m.RecipientID, m.ParentID, m.AttachmentName, m.AttachmentType, m.Attachment,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *MessageRepository) Get(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	return getOne[model.Message](ctx, r.pool, "messages", messageWithAttachment+` WHERE m.id = $1`, id)
}

func mailboxFilter(box model.Mailbox) (string, error) {
	switch box {
	case model.MailboxInbox:
		return `m.recipient_id = $1 AND NOT m.recipient_archived`, nil
	case model.MailboxOutbox:
		return `m.sender_id = $1 AND NOT m.sender_archived`, nil
	case model.MailboxArchive:
		return `((m.recipient_id = $1 AND m.recipient_archived) OR (m.sender_id = $1 AND m.sender_archived))`, nil
	default:
		return "", fmt.Errorf("unknown mailbox %q", box)
	}
}

func (r *MessageRepository) List(ctx context.Context, accountID uuid.UUID, box model.Mailbox, page model.Page) ([]model.Message, int, error) {
	filter, err := mailboxFilter(box)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM messages m WHERE `+filter, accountID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}

	messages, err := getMany[model.Message](ctx, r.pool, "messages",
		messageHeaders+` WHERE `+filter+` ORDER BY m.created_at DESC LIMIT $2 OFFSET $3`,
		accountID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// MarkRead stamps the first read only.
func (r *MessageRepository) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE messages SET read_at = $2 WHERE id = $1 AND read_at IS NULL`, id, at)
	return err
}

// SetArchived flips the flag on accountID's side of the message.
func (r *MessageRepository) SetArchived(ctx context.Context, id, accountID uuid.UUID, archived bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE messages SET
			sender_archived = CASE WHEN sender_id = $2 THEN $3 ELSE sender_archived END,
			recipient_archived = CASE WHEN recipient_id = $2 THEN $3 ELSE recipient_archived END
		WHERE id = $1 AND (sender_id = $2 OR recipient_id = $2)`,
		id, accountID, archived)
	return affectedOne(tag, err, "messages")
}

func (r *MessageRepository) CountUnread(ctx context.Context, accountID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM messages
		WHERE recipient_id = $1 AND read_at IS NULL AND NOT recipient_archived`,
		accountID).Scan(&n)
	return n, err
}

// ListSharedFiles lists attachments exchanged in either direction between
// the two accounts, newest first.
func (r *MessageRepository) ListSharedFiles(ctx context.Context, accountA, accountB uuid.UUID) ([]model.SharedFile, error) {
	rows, _ := r.pool.Query(ctx, `
		SELECT id AS message_id, attachment_name AS name, COALESCE(attachment_type, 'application/octet-stream') AS content_type,
			octet_length(attachment) AS size, sender_id, created_at
		FROM messages
		WHERE attachment_name IS NOT NULL
			AND ((sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1))
		ORDER BY created_at DESC`,
		accountA, accountB)

	files, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.SharedFile])
	if err != nil {
		return nil, fmt.Errorf("list shared files: %w", err)
	}
	return files, nil
}
