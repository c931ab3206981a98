package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/monyze/internal/client/config"
	"github.com/dmitrijs2005/monyze/internal/netx"
	"github.com/spf13/cobra"
)

// Execute runs the CLI with args (without the program name).
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}

	root := newRootCommand(cfg, in)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err = root.ExecuteContext(ctx)
	if errors.Is(err, netx.ErrUnavailable) {
		return fmt.Errorf("cannot reach Monyze server at %s: %w", cfg.ServerURL, err)
	}
	return err
}

func newRootCommand(cfg *config.Config, in io.Reader) *cobra.Command {
	var app *App

	root := &cobra.Command{
		Use:           "monyze",
		Short:         "Monyze command-line client",
		Long:          "Monyze command-line client. Create an account, sign in and check who is signed in.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			a, err := NewApp(cmd.Context(), cfg, in, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
	}

	// -c/--config is consumed by config.LoadConfig before cobra runs; it is
	// declared here so cobra accepts it and lists it in help.
	var configFile string
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to JSON config file")
	root.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Monyze server URL")
	root.PersistentFlags().StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "local database file")
	root.PersistentFlags().DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "request timeout")

	getApp := func() *App { return app }
	root.AddCommand(
		newRegisterCommand(getApp),
		newLoginCommand(getApp),
		newLogoutCommand(getApp),
		newWhoamiCommand(getApp),
		newVersionCommand(),
	)

	return root
}
