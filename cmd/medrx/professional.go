package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/deppfellow/medical-prescription/internal/lib/utils"
	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/service"
)

func professionalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "professional",
		Short: "Manage health professionals",
	}

	var in service.CreateHealthProfessionalInput

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Register a health professional and print a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			srv, stores, err := a.offlineServer(cmd.Context())
			if err != nil {
				return err
			}
			defer srv.DB.Close()

			hp, token, err := service.NewAuthService(srv, stores.Accounts).CreateHealthProfessional(cmd.Context(), &in)
			if err != nil {
				return err
			}

			return utils.PrintJSON(cmd.OutOrStdout(), struct {
				Professional *model.HealthProfessional `json:"professional"`
				Token        string                    `json:"token,omitempty"`
			}{hp, token})
		},
	}

	flags := createCmd.Flags()
	flags.StringVar(&in.Name, "name", "", "full name")
	flags.StringVar(&in.Email, "email", "", "e-mail address")
	flags.StringVar(&in.CRM, "crm", "", "CRM registration number")
	flags.StringVar(&in.CRMState, "crm-state", "", "two letter state of the CRM registration")
	flags.StringVar(&in.Specialty, "specialty", "", "medical specialty")
	flags.StringVar(&in.ExternalID, "external-id", "", "Clerk user id, when using the clerk provider")
	for _, name := range []string{"name", "email", "crm", "crm-state"} {
		_ = createCmd.MarkFlagRequired(name)
	}

	cmd.AddCommand(createCmd)
	return cmd
}

func tokenCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a session token for an account, by id or e-mail",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			srv, stores, err := a.offlineServer(cmd.Context())
			if err != nil {
				return err
			}
			defer srv.DB.Close()

			auth := service.NewAuthService(srv, stores.Accounts)

			var token string
			if id, parseErr := uuid.Parse(account); parseErr == nil {
				token, err = auth.IssueToken(cmd.Context(), id)
			} else {
				token, err = auth.IssueTokenByEmail(cmd.Context(), account)
			}
			if err != nil {
				return err
			}

			return utils.PrintJSON(cmd.OutOrStdout(), map[string]string{"token": token})
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account id or e-mail")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}
