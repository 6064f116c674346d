package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/medical-prescription/internal/config"
	"github.com/deppfellow/medical-prescription/internal/errs"
	"github.com/deppfellow/medical-prescription/internal/repository/memory"
	"github.com/deppfellow/medical-prescription/internal/server"
	"github.com/deppfellow/medical-prescription/internal/validation"
)

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Auth: config.AuthConfig{
				Provider:  config.AuthProviderJWT,
				SecretKey: "test-secret",
				TokenTTL:  time.Hour,
			},
			PDF: config.PDFConfig{Filename: "prescription.pdf"},
		},
		Logger: &logger,
	}
}

func memoryStores(m *memory.Store) Stores {
	return Stores{
		Accounts:             m.Accounts(),
		Patients:             m.Patients(),
		Catalog:              m.Catalog(),
		ManipulatedMedicines: m.ManipulatedMedicines(),
		CustomExams:          m.CustomExams(),
		Patterns:             m.Patterns(),
		Prescriptions:        m.Prescriptions(),
		Messages:             m.Messages(),
	}
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

type fakeCache struct {
	values map[string][]byte
	gets   int
	err    error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string][]byte{}}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	f.gets++
	if f.err != nil {
		return false, f.err
	}
	raw, ok := f.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	if f.err != nil {
		return f.err
	}
	raw, err := json.Marshal(value)
	f.values[key] = raw
	return err
}

// fieldErrors asserts err is a 400 and indexes its field errors by field.
func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Status != http.StatusBadRequest {
		t.Fatalf("Status = %d, want 400", httpErr.Status)
	}

	out := map[string]string{}
	for _, fe := range httpErr.Errors {
		out[fe.Field] = fe.Error
	}
	return out
}

// validationHTTPError converts the result of a Validate call the way
// BindAndValidate does for handlers.
func validationHTTPError(err error) error {
	var custom validation.CustomValidationErrors
	if errors.As(err, &custom) {
		return custom.AsHTTPError()
	}
	return err
}
