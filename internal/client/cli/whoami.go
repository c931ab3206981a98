package cli

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/monyze/internal/client/services"
	"github.com/spf13/cobra"
)

func newWhoamiCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print who is signed in",
		Long: "Print who is signed in. The saved session is checked with the server; " +
			"a session the server no longer accepts is forgotten.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			fmt.Fprintln(a.errOut, services.StateLoading+"...")
			st, err := a.auth.Status(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, describeStatus(st))
			return nil
		},
	}
}

func describeStatus(st *services.Status) string {
	if st.State != services.StateAuthenticated || st.User == nil {
		return "not logged in"
	}

	line := fmt.Sprintf("%s <%s>, session expires %s", st.User.Name, st.User.Email, st.ExpiresAt.Local().Format(time.RFC1123))
	if st.Offline {
		line += " (offline, server not reachable)"
	}
	return line
}
