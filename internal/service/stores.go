package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/deppfellow/medical-prescription/internal/model"
)

// Lookups that find nothing return an error wrapping pgx.ErrNoRows; see
// sqlerr.NotFound and sqlerr.IsNotFound.

type AccountStore interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.Account, error)
	Search(ctx context.Context, role model.Role, emailPrefix string, limit int) ([]model.Account, error)
	GetHealthProfessional(ctx context.Context, id uuid.UUID) (*model.HealthProfessional, error)
	CreateHealthProfessional(ctx context.Context, hp *model.HealthProfessional) error
}

type PatientStore interface {
	Create(ctx context.Context, p *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	List(ctx context.Context, query string, page model.Page) ([]model.Patient, int, error)
}

type CatalogStore interface {
	GetDisease(ctx context.Context, id uuid.UUID) (*model.Disease, error)
	GetDiseaseByCode(ctx context.Context, code string) (*model.Disease, error)
	SearchDiseases(ctx context.Context, query string, limit int) ([]model.Disease, error)
	GetMedicine(ctx context.Context, id uuid.UUID) (*model.Medicine, error)
	SearchMedicines(ctx context.Context, query string, limit int) ([]model.Medicine, error)
	GetDefaultExam(ctx context.Context, id uuid.UUID) (*model.DefaultExam, error)
	SearchDefaultExams(ctx context.Context, query string, limit int) ([]model.DefaultExam, error)
	ImportDiseases(ctx context.Context, rows []model.Disease) (int64, error)
	ImportMedicines(ctx context.Context, rows []model.Medicine) (int64, error)
	ImportDefaultExams(ctx context.Context, rows []model.DefaultExam) (int64, error)
}

// OwnedStore is CRUD over rows that belong to one health professional. Get,
// List and Delete never see rows of another owner.
type OwnedStore[T any] interface {
	Create(ctx context.Context, v *T) error
	Get(ctx context.Context, ownerID, id uuid.UUID) (*T, error)
	List(ctx context.Context, ownerID uuid.UUID, page model.Page) ([]T, int, error)
	Update(ctx context.Context, v *T) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type ManipulatedMedicineStore = OwnedStore[model.ManipulatedMedicine]

type CustomExamStore = OwnedStore[model.CustomExam]

type PatternStore interface {
	OwnedStore[model.Pattern]
	SetLogo(ctx context.Context, ownerID, id uuid.UUID, logo []byte, contentType string) error
}

type PrescriptionStore interface {
	// Create writes the prescription and all of its items atomically.
	Create(ctx context.Context, p *model.Prescription) error
	Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Prescription, error)
	List(ctx context.Context, ownerID uuid.UUID, page model.Page) ([]model.Prescription, int, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type MessageStore interface {
	Create(ctx context.Context, m *model.Message) error
	Get(ctx context.Context, id uuid.UUID) (*model.Message, error)
	List(ctx context.Context, accountID uuid.UUID, box model.Mailbox, page model.Page) ([]model.Message, int, error)
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error
	SetArchived(ctx context.Context, id, accountID uuid.UUID, archived bool) error
	CountUnread(ctx context.Context, accountID uuid.UUID) (int, error)
	ListSharedFiles(ctx context.Context, accountA, accountB uuid.UUID) ([]model.SharedFile, error)
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Cache is satisfied by *cache.RedisCache.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}
