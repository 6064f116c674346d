package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/server"
)

type AccountHandler struct {
	Handler
}

func NewAccountHandler(s *server.Server) *AccountHandler {
	return &AccountHandler{Handler: NewHandler(s)}
}

// Me returns the authenticated account.
func (h *AccountHandler) Me(c echo.Context, _ *EmptyRequest) (*model.Account, error) {
	return currentAccount(c)
}
