package service

import (
	"context"
	"errors"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/google/uuid"

	"github.com/deppfellow/medical-prescription/internal/config"
	"github.com/deppfellow/medical-prescription/internal/errs"
	"github.com/deppfellow/medical-prescription/internal/lib/session"
	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/server"
	"github.com/deppfellow/medical-prescription/internal/sqlerr"
	"github.com/deppfellow/medical-prescription/internal/validation"
)

// AuthService resolves bearer credentials to accounts. With the clerk
// provider the Clerk SDK verifies the token and accounts are matched by
// external id; with the jwt provider tokens are issued and verified locally.
type AuthService struct {
	server   *server.Server
	accounts AccountStore
	sessions *session.Manager
}

func NewAuthService(s *server.Server, accounts AccountStore) *AuthService {
	if s.Config.Auth.Provider == config.AuthProviderClerk {
		clerk.SetKey(s.Config.Auth.SecretKey)
	}

	return &AuthService{
		server:   s,
		accounts: accounts,
		sessions: session.NewManager(s.Config.Auth.SecretKey, s.Config.Auth.TokenTTL),
	}
}

func (a *AuthService) Provider() string {
	return a.server.Config.Auth.Provider
}

var errUnknownAccount = errs.NewUnauthorizedError("Unknown account", true)

// AuthenticateToken verifies a locally issued token and loads its account.
func (a *AuthService) AuthenticateToken(ctx context.Context, token string) (*model.Account, error) {
	claims, err := a.sessions.Parse(token)
	if err != nil {
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}

	id, _ := claims.AccountID()
	return a.lookup(a.accounts.Get(ctx, id))
}

// AuthenticateExternal loads the account linked to a Clerk user id.
func (a *AuthService) AuthenticateExternal(ctx context.Context, externalID string) (*model.Account, error) {
	return a.lookup(a.accounts.GetByExternalID(ctx, externalID))
}

func (a *AuthService) lookup(account *model.Account, err error) (*model.Account, error) {
	if sqlerr.IsNotFound(err) {
		return nil, errUnknownAccount
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (a *AuthService) IssueToken(ctx context.Context, accountID uuid.UUID) (string, error) {
	account, err := a.accounts.Get(ctx, accountID)
	if err != nil {
		return "", err
	}
	return a.sessions.Issue(account)
}

func (a *AuthService) IssueTokenByEmail(ctx context.Context, email string) (string, error) {
	account, err := a.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", err
	}
	return a.sessions.Issue(account)
}

type CreateHealthProfessionalInput struct {
	Name       string `json:"name" validate:"required,max=120"`
	Email      string `json:"email" validate:"required,email"`
	CRM        string `json:"crm" validate:"required,max=20"`
	CRMState   string `json:"crm_state" validate:"required,len=2"`
	Specialty  string `json:"specialty" validate:"max=120"`
	ExternalID string `json:"external_id"`
}

func (in *CreateHealthProfessionalInput) Validate() error {
	return validation.Struct(in)
}

// CreateHealthProfessional registers a professional and returns a session
// token for them when the jwt provider is active.
func (a *AuthService) CreateHealthProfessional(ctx context.Context, in *CreateHealthProfessionalInput) (*model.HealthProfessional, string, error) {
	if err := in.Validate(); err != nil {
		return nil, "", err
	}

	hp := &model.HealthProfessional{
		Account: model.Account{
			Name:  strings.TrimSpace(in.Name),
			Email: strings.ToLower(strings.TrimSpace(in.Email)),
		},
		CRM:       strings.TrimSpace(in.CRM),
		CRMState:  strings.ToUpper(in.CRMState),
		Specialty: in.Specialty,
	}
	if in.ExternalID != "" {
		hp.ExternalID = &in.ExternalID
	}

	if err := a.accounts.CreateHealthProfessional(ctx, hp); err != nil {
		return nil, "", err
	}

	if a.Provider() != config.AuthProviderJWT {
		return hp, "", nil
	}

	token, err := a.sessions.Issue(&hp.Account)
	if err != nil {
		return nil, "", errors.Join(errors.New("professional created but token issue failed"), err)
	}
	return hp, token, nil
}
