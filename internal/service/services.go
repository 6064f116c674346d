// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls store methods to interact
// with the data.
package service

import (
	"github.com/deppfellow/medical-prescription/internal/lib/cache"
	"github.com/deppfellow/medical-prescription/internal/lib/job"
	"github.com/deppfellow/medical-prescription/internal/repository"
	"github.com/deppfellow/medical-prescription/internal/server"
)

// Stores groups the persistence dependencies. The pgx repositories fill it
// in production; tests use the memory package.
type Stores struct {
	Accounts             AccountStore
	Patients             PatientStore
	Catalog              CatalogStore
	ManipulatedMedicines ManipulatedMedicineStore
	CustomExams          CustomExamStore
	Patterns             PatternStore
	Prescriptions        PrescriptionStore
	Messages             MessageStore
}

func StoresFromRepositories(repos *repository.Repositories) Stores {
	return Stores{
		Accounts:             repos.Accounts,
		Patients:             repos.Patients,
		Catalog:              repos.Catalog,
		ManipulatedMedicines: repos.ManipulatedMedicines,
		CustomExams:          repos.CustomExams,
		Patterns:             repos.Patterns,
		Prescriptions:        repos.Prescriptions,
		Messages:             repos.Messages,
	}
}

type Services struct {
	Auth                 *AuthService
	Patients             *PatientService
	Catalog              *CatalogService
	ManipulatedMedicines *ManipulatedMedicineService
	CustomExams          *CustomExamService
	Patterns             *PatternService
	Prescriptions        *PrescriptionService
	Messages             *MessageService
	Job                  *job.JobService
}

// NewServices builds every service. The disease cache and the e-mail queue
// are only wired when Redis answered at startup.
func NewServices(s *server.Server, stores Stores) (*Services, error) {
	var (
		tasks        TaskEnqueuer
		diseaseCache Cache
	)
	if s.RedisAvailable {
		if s.Job != nil {
			tasks = s.Job.Client
		}
		if s.Redis != nil {
			diseaseCache = cache.NewRedisCache(s.Redis, "medrx:")
		}
	}

	return &Services{
		Auth:                 NewAuthService(s, stores.Accounts),
		Patients:             NewPatientService(s, stores.Patients, stores.Messages),
		Catalog:              NewCatalogService(s, stores.Catalog, diseaseCache),
		ManipulatedMedicines: NewManipulatedMedicineService(stores.ManipulatedMedicines),
		CustomExams:          NewCustomExamService(stores.CustomExams),
		Patterns:             NewPatternService(stores.Patterns),
		Prescriptions:        NewPrescriptionService(s, stores, tasks),
		Messages:             NewMessageService(s, stores.Accounts, stores.Messages, tasks),
		Job:                  s.Job,
	}, nil
}
