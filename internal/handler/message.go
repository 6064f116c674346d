package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/server"
	"github.com/deppfellow/medical-prescription/internal/service"
)

// MessageHandler serves the secure messaging endpoints shared by patients
// and health professionals.
type MessageHandler struct {
	Handler
	messages *service.MessageService
}

func NewMessageHandler(s *server.Server, messages *service.MessageService) *MessageHandler {
	return &MessageHandler{Handler: NewHandler(s), messages: messages}
}

type ReplyRequest struct {
	IDRequest
	service.ReplyMessageInput
}

func (r *ReplyRequest) Validate() error {
	if err := r.IDRequest.Validate(); err != nil {
		return err
	}
	return r.ReplyMessageInput.Validate()
}

type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

// Compose accepts JSON, or multipart with an optional "file" part.
func (h *MessageHandler) Compose(c echo.Context, req *service.ComposeMessageInput) (*model.Message, error) {
	account, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	file, err := formFile(c, "file", service.MaxAttachmentSize)
	if err != nil {
		return nil, err
	}
	return h.messages.Compose(c.Request().Context(), account, req, file)
}

func (h *MessageHandler) Reply(c echo.Context, req *ReplyRequest) (*model.Message, error) {
	account, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	file, err := formFile(c, "file", service.MaxAttachmentSize)
	if err != nil {
		return nil, err
	}
	return h.messages.Reply(c.Request().Context(), account, req.UUID(), &req.ReplyMessageInput, file)
}

func (h *MessageHandler) list(c echo.Context, box model.Mailbox, req *PageRequest) (model.PaginatedResponse[model.Message], error) {
	account, err := currentAccount(c)
	if err != nil {
		return model.PaginatedResponse[model.Message]{}, err
	}
	return h.messages.List(c.Request().Context(), account, box, req.Page())
}

func (h *MessageHandler) Inbox(c echo.Context, req *PageRequest) (model.PaginatedResponse[model.Message], error) {
	return h.list(c, model.MailboxInbox, req)
}

func (h *MessageHandler) Outbox(c echo.Context, req *PageRequest) (model.PaginatedResponse[model.Message], error) {
	return h.list(c, model.MailboxOutbox, req)
}

func (h *MessageHandler) Archived(c echo.Context, req *PageRequest) (model.PaginatedResponse[model.Message], error) {
	return h.list(c, model.MailboxArchive, req)
}

func (h *MessageHandler) View(c echo.Context, req *IDRequest) (*model.Message, error) {
	account, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	return h.messages.View(c.Request().Context(), account, req.UUID())
}

func (h *MessageHandler) Archive(c echo.Context, req *IDRequest) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	return h.messages.Archive(c.Request().Context(), account, req.UUID())
}

func (h *MessageHandler) Unarchive(c echo.Context, req *IDRequest) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	return h.messages.Unarchive(c.Request().Context(), account, req.UUID())
}

func (h *MessageHandler) UnreadCount(c echo.Context, _ *EmptyRequest) (*UnreadCountResponse, error) {
	account, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	n, err := h.messages.CountUnread(c.Request().Context(), account)
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Unread: n}, nil
}

func (h *MessageHandler) Recipients(c echo.Context, req *SearchRequest) ([]model.Account, error) {
	account, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	return h.messages.Recipients(c.Request().Context(), account, req.Q)
}

func (h *MessageHandler) Attachment(c echo.Context, req *IDRequest) (*Download, error) {
	account, err := currentAccount(c)
	if err != nil {
		return nil, err
	}
	file, contentType, err := h.messages.Attachment(c.Request().Context(), account, req.UUID())
	if err != nil {
		return nil, err
	}
	return &Download{Name: file.Name, ContentType: contentType, Content: file.Content}, nil
}
