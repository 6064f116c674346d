package handler

import (
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/medical-prescription/internal/config"
	"github.com/deppfellow/medical-prescription/internal/errs"
	"github.com/deppfellow/medical-prescription/internal/server"
)

func newTestHandler() Handler {
	logger := zerolog.Nop()
	return NewHandler(&server.Server{
		Config: &config.Config{Primary: config.Primary{Env: "test"}},
		Logger: &logger,
	})
}

func serve(e *echo.Echo, method, target string, body string) (*httptest.ResponseRecorder, error) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	var handlerErr error
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		handlerErr = err
		_ = c.NoContent(http.StatusTeapot)
	}
	e.ServeHTTP(rec, req)
	return rec, handlerErr
}

func TestHandleAllocatesRequestPerCall(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	e.GET("/search", Handle(h, func(c echo.Context, req *SearchRequest) (string, error) {
		return req.Q, nil
	}, http.StatusOK))

	rec, _ := serve(e, http.MethodGet, "/search?q=asma", "")
	if rec.Body.String() != "\"asma\"\n" {
		t.Fatalf("first body = %q", rec.Body.String())
	}

	rec, _ = serve(e, http.MethodGet, "/search", "")
	if rec.Body.String() != "\"\"\n" {
		t.Errorf("second request saw a previous query: %q", rec.Body.String())
	}
}

func TestHandleValidationError(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	called := false
	e.GET("/items/:id", Handle(h, func(c echo.Context, req *IDRequest) (string, error) {
		called = true
		return req.ID, nil
	}, http.StatusOK))

	_, err := serve(e, http.MethodGet, "/items/not-a-uuid", "")

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
	if !httpErr.HasField("id") {
		t.Errorf("errors = %+v", httpErr.Errors)
	}
	if called {
		t.Error("handler ran despite invalid input")
	}
}

func TestHandleBindsPathAndBody(t *testing.T) {
	h := newTestHandler()
	e := echo.New()

	type echoed struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	}
	e.POST("/messages/:id/reply", Handle(h, func(c echo.Context, req *ReplyRequest) (echoed, error) {
		return echoed{ID: req.UUID().String(), Text: req.Text}, nil
	}, http.StatusCreated))

	id := "0b8c6f62-6a4e-4d0e-9d55-1f3a0b2f8c11"
	rec, err := serve(e, http.MethodPost, "/messages/"+id+"/reply", `{"id":"ignored","text":"Pode sim."}`)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if want := `{"id":"` + id + `","text":"Pode sim."}` + "\n"; rec.Body.String() != want {
		t.Errorf("body = %q, want %q", rec.Body.String(), want)
	}
}

func TestHandleNoContent(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	e.DELETE("/items/:id", HandleNoContent(h, func(c echo.Context, req *IDRequest) error {
		return nil
	}, http.StatusNoContent))

	rec, err := serve(e, http.MethodDelete, "/items/0b8c6f62-6a4e-4d0e-9d55-1f3a0b2f8c11", "")
	if err != nil || rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Errorf("status = %d, body = %q, err = %v", rec.Code, rec.Body.String(), err)
	}
}

func TestHandleFile(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	e.GET("/pdf", HandleFile(h, func(c echo.Context, _ *EmptyRequest) ([]byte, error) {
		return []byte("%PDF-1.3"), nil
	}, http.StatusOK, "prescription.pdf", "application/pdf"))

	rec, _ := serve(e, http.MethodGet, "/pdf", "")
	if got := rec.Header().Get(echo.HeaderContentDisposition); got != "attachment; filename=prescription.pdf" {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := rec.Header().Get(echo.HeaderContentType); got != "application/pdf" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestHandleDownloadQuotesFilename(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	e.GET("/file", HandleDownload(h, func(c echo.Context, _ *EmptyRequest) (*Download, error) {
		return &Download{Name: "exame final.pdf", ContentType: "application/pdf", Content: []byte("x")}, nil
	}, http.StatusOK))

	rec, _ := serve(e, http.MethodGet, "/file", "")
	if got := rec.Header().Get(echo.HeaderContentDisposition); got != `attachment; filename="exame final.pdf"` {
		t.Errorf("Content-Disposition = %q", got)
	}
}

func TestHandleFileEncodesConfiguredName(t *testing.T) {
	for _, name := range []string{"receita medica.pdf", "receituário.pdf"} {
		h := newTestHandler()
		e := echo.New()
		e.GET("/pdf", HandleFile(h, func(c echo.Context, _ *EmptyRequest) ([]byte, error) {
			return []byte("%PDF-1.3"), nil
		}, http.StatusOK, name, "application/pdf"))

		rec, _ := serve(e, http.MethodGet, "/pdf", "")
		disposition, params, err := mime.ParseMediaType(rec.Header().Get(echo.HeaderContentDisposition))
		if err != nil {
			t.Fatalf("%q: malformed Content-Disposition %q: %v", name, rec.Header().Get(echo.HeaderContentDisposition), err)
		}
		if disposition != "attachment" || params["filename"] != name {
			t.Errorf("%q: got %s with filename %q", name, disposition, params["filename"])
		}
	}
}

func TestCurrentAccountRequiresAuth(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	var httpErr *errs.HTTPError
	if _, err := currentAccount(c); !errors.As(err, &httpErr) || httpErr.Status != http.StatusUnauthorized {
		t.Errorf("err = %v, want 401", err)
	}
}

func TestFormFileIgnoresNonMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"oi"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := echo.New().NewContext(req, httptest.NewRecorder())

	file, err := formFile(c, "file", 1024)
	if file != nil || err != nil {
		t.Errorf("formFile() = %v, %v", file, err)
	}
}

func TestPageRequestNormalizes(t *testing.T) {
	page := (&PageRequest{Limit: 1000, Offset: 5}).Page()
	if page.Limit != 100 || page.Offset != 5 {
		t.Errorf("page = %+v", page)
	}
}
