package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/deppfellow/medical-prescription/internal/model"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("s3cret", time.Hour)
	account := &model.Account{ID: uuid.New(), Email: "ana@example.com", Role: model.RoleHealthProfessional}

	token, err := m.Issue(account)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	id, _ := claims.AccountID()
	if id != account.ID || claims.Role != model.RoleHealthProfessional || claims.Email != account.Email {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("s3cret", time.Minute)
	issuedAt := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issuedAt }

	token, err := m.Issue(&model.Account{ID: uuid.New(), Role: model.RolePatient})
	if err != nil {
		t.Fatal(err)
	}

	m.now = time.Now
	if _, err := m.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Parse() error = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("one", time.Hour).Issue(&model.Account{ID: uuid.New(), Role: model.RolePatient})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewManager("two", time.Hour).Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Parse() error = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := NewManager("s3cret", time.Hour).Parse(strings.Repeat("x", 20))
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Parse() error = %v", err)
	}
}
