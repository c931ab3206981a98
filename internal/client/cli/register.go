package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a Monyze account",
		Long: "Create a Monyze account. You are asked for a name, email and password. " +
			"Registering does not sign you in; run 'monyze login' afterwards.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			name, err := GetSimpleText(a.in, "Name", a.out)
			if err != nil {
				return err
			}
			email, err := GetSimpleText(a.in, "Email", a.out)
			if err != nil {
				return err
			}
			password, err := GetPassword(a.in, a.out)
			if err != nil {
				return err
			}

			u, err := a.auth.Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Registered %s <%s>. Run 'monyze login' to sign in.\n", u.Name, u.Email)
			return nil
		},
	}
}
