package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/medical-prescription/internal/errs"
	"github.com/deppfellow/medical-prescription/internal/service"
)

// formFile reads an optional multipart file. It returns nil when the request
// is not multipart or carries no such field. At most maxSize+1 bytes are
// read so the service can reject oversized files itself.
func formFile(c echo.Context, field string, maxSize int64) (*service.Attachment, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}

	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewFormError(errs.FieldError{Field: field, Error: "could not be read"})
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, err
	}

	return &service.Attachment{Name: filepath.Base(header.Filename), Content: content}, nil
}
