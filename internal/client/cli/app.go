package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"

	"github.com/dmitrijs2005/monyze/internal/client/client"
	"github.com/dmitrijs2005/monyze/internal/client/config"
	"github.com/dmitrijs2005/monyze/internal/client/repositories/session"
	"github.com/dmitrijs2005/monyze/internal/client/services"
)

// App wires the CLI's dependencies for one invocation.
type App struct {
	config *config.Config
	db     *sql.DB
	auth   services.AuthService
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

// NewApp opens the local database and builds the auth service against the
// configured server.
func NewApp(ctx context.Context, cfg *config.Config, in io.Reader, out, errOut io.Writer) (*App, error) {
	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	api := client.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout)
	auth := services.NewAuthService(api, session.NewSQLiteRepository(db))

	return &App{
		config: cfg,
		db:     db,
		auth:   auth,
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}
