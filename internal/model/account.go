package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RolePatient            Role = "patient"
	RoleHealthProfessional Role = "health_professional"
)

func (r Role) Valid() bool {
	return r == RolePatient || r == RoleHealthProfessional
}

// Counterpart is the role an account of r may exchange messages with.
func (r Role) Counterpart() Role {
	if r == RolePatient {
		return RoleHealthProfessional
	}
	return RolePatient
}

// Account is the identity behind both patients and health professionals.
type Account struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ExternalID *string   `json:"-" db:"external_id"`
	Email      string    `json:"email" db:"email"`
	Name       string    `json:"name" db:"name"`
	Role       Role      `json:"role" db:"role"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

func (a *Account) IsHealthProfessional() bool {
	return a.Role == RoleHealthProfessional
}

type Patient struct {
	Account
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Phone        string     `json:"phone" db:"phone"`
	Sex          string     `json:"sex" db:"sex"`
	IDDocument   string     `json:"id_document" db:"id_document"`
	CEP          string     `json:"cep" db:"cep"`
	UF           string     `json:"uf" db:"uf"`
	City         string     `json:"city" db:"city"`
	Neighborhood string     `json:"neighborhood" db:"neighborhood"`
	Complement   string     `json:"complement" db:"complement"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
}

type HealthProfessional struct {
	Account
	CRM       string `json:"crm" db:"crm"`
	CRMState  string `json:"crm_state" db:"crm_state"`
	Specialty string `json:"specialty" db:"specialty"`
}
