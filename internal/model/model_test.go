package model

import (
	"testing"

	"github.com/google/uuid"
)

func TestPageNormalize(t *testing.T) {
	tests := []struct {
		in, want Page
	}{
		{Page{}, Page{Limit: DefaultPageLimit}},
		{Page{Limit: 500, Offset: -3}, Page{Limit: MaxPageLimit}},
		{Page{Limit: 5, Offset: 10}, Page{Limit: 5, Offset: 10}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestQuantityLabel(t *testing.T) {
	if got := QuantityLabel(1); got != "1 unidade" {
		t.Errorf("QuantityLabel(1) = %q", got)
	}
	if got := QuantityLabel(30); got != "30 unidades" {
		t.Errorf("QuantityLabel(30) = %q", got)
	}
}

func TestValidVia(t *testing.T) {
	if !ValidVia("Via Oral") {
		t.Error("Via Oral should be accepted")
	}
	if ValidVia("via oral") {
		t.Error("vias are matched exactly")
	}
}

func TestRoleCounterpart(t *testing.T) {
	if RolePatient.Counterpart() != RoleHealthProfessional {
		t.Error("patients talk to health professionals")
	}
	if RoleHealthProfessional.Counterpart() != RolePatient {
		t.Error("health professionals talk to patients")
	}
}

func TestMessageSides(t *testing.T) {
	sender, recipient := uuid.New(), uuid.New()
	m := &Message{SenderID: sender, RecipientID: recipient, RecipientArchived: true}

	if m.Other(sender) != recipient || m.Other(recipient) != sender {
		t.Error("Other returned the wrong participant")
	}
	if m.ArchivedFor(sender) || !m.ArchivedFor(recipient) {
		t.Error("archive flags are per side")
	}
	if m.IsParticipant(uuid.New()) {
		t.Error("stranger reported as participant")
	}
}

func TestDefaultPatternHeader(t *testing.T) {
	hp := &HealthProfessional{Account: Account{ID: uuid.New(), Name: "Dra. Ana"}, CRM: "12345", CRMState: "DF"}

	p := DefaultPattern(hp)
	if p.Header != "Dra. Ana - CRM 12345/DF" {
		t.Errorf("Header = %q", p.Header)
	}
	if p.PageSize != PageSizeA4 || p.HasLogo() {
		t.Errorf("unexpected default pattern %+v", p)
	}
}

func TestPrescriptionSections(t *testing.T) {
	p := &Prescription{}
	if !p.IsEmpty() {
		t.Error("new prescription should be empty")
	}
	p.CustomExams = []CustomExam{{Description: "Hemograma"}}
	if p.IsEmpty() || !p.HasExams() || p.HasMedicines() {
		t.Errorf("sections wrong for %+v", p)
	}
}
