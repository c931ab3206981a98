// Package client talks to the Monyze server and opens the CLI's local
// database.
package client

import (
	"context"

	"github.com/dmitrijs2005/monyze/internal/client/models"
)

// Client is the Monyze auth API as seen from the CLI.
//
// Errors are matched with errors.Is against the common sentinels:
// ErrorValidation, ErrorConflict, ErrorUnauthorized and ErrorInternal, or
// netx.ErrUnavailable when the server cannot be reached.
type Client interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	// Session asks the server whether token is still good. An anonymous
	// answer is reported as common.ErrorUnauthorized.
	Session(ctx context.Context, token string) (*models.Session, error)
	SignOut(ctx context.Context, token string) error
}
