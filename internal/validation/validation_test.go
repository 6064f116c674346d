package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/medical-prescription/internal/errs"
)

type sampleItem struct {
	Via string `json:"via" validate:"required"`
}

type sampleRequest struct {
	Patient string       `json:"patient" form:"patient" validate:"required,max=50"`
	CID     string       `json:"cid" form:"cid" validate:"omitempty,cid"`
	Items   []sampleItem `json:"items" validate:"dive"`
}

func (r *sampleRequest) Validate() error {
	if err := Struct(r); err != nil {
		return err
	}
	var problems CustomValidationErrors
	if r.CID == "" {
		problems.Add("cid", "is required")
	}
	return problems.Err()
}

func newContext(method, body, contentType string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, contentType)
	return e.NewContext(req, httptest.NewRecorder())
}

func fieldErrors(t *testing.T, err error) []errs.FieldError {
	t.Helper()
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Status != http.StatusBadRequest {
		t.Fatalf("Status = %d", httpErr.Status)
	}
	return httpErr.Errors
}

func TestBindAndValidateJSON(t *testing.T) {
	c := newContext(http.MethodPost, `{"patient":"Maria","cid":"J45.9"}`, echo.MIMEApplicationJSON)

	req := &sampleRequest{}
	if err := BindAndValidate(c, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Patient != "Maria" || req.CID != "J45.9" {
		t.Errorf("bound %+v", req)
	}
}

func TestBindAndValidateForm(t *testing.T) {
	c := newContext(http.MethodPost, "patient=Jo%C3%A3o&cid=A00", echo.MIMEApplicationForm)

	req := &sampleRequest{}
	if err := BindAndValidate(c, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Patient != "João" {
		t.Errorf("Patient = %q", req.Patient)
	}
}

func TestBindAndValidateReportsWireNames(t *testing.T) {
	c := newContext(http.MethodPost, `{"cid":"bogus","items":[{"via":""}]}`, echo.MIMEApplicationJSON)

	got := fieldErrors(t, BindAndValidate(c, &sampleRequest{}))

	want := map[string]string{
		"patient":      "is required",
		"cid":          "must be a valid CID-10 code",
		"items[0].via": "is required",
	}
	if len(got) != len(want) {
		t.Fatalf("errors = %+v", got)
	}
	for _, fe := range got {
		if want[fe.Field] != fe.Error {
			t.Errorf("%s: %q, want %q", fe.Field, fe.Error, want[fe.Field])
		}
	}
}

func TestBindAndValidateCustomErrors(t *testing.T) {
	c := newContext(http.MethodPost, `{"patient":"Ana"}`, echo.MIMEApplicationJSON)

	got := fieldErrors(t, BindAndValidate(c, &sampleRequest{}))
	if len(got) != 1 || got[0].Field != "cid" {
		t.Errorf("errors = %+v", got)
	}
}

func TestBindAndValidateMalformedBody(t *testing.T) {
	c := newContext(http.MethodPost, `{"patient":`, echo.MIMEApplicationJSON)

	err := BindAndValidate(c, &sampleRequest{})
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestIsValidCID(t *testing.T) {
	for code, want := range map[string]bool{
		"J45":    true,
		"j45.9":  true,
		"A00.01": true,
		"45J":    false,
		"":       false,
		"J4":     false,
	} {
		if got := IsValidCID(code); got != want {
			t.Errorf("IsValidCID(%q) = %v, want %v", code, got, want)
		}
	}
}
