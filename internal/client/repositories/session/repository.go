// Package session persists the CLI's signed-in session. At most one session
// is stored at a time.
package session

import (
	"context"

	"github.com/dmitrijs2005/monyze/internal/client/models"
)

// Repository stores the current session. Load returns common.ErrorNotFound
// when nobody is signed in.
type Repository interface {
	Save(ctx context.Context, s *models.Session) error
	Load(ctx context.Context) (*models.Session, error)
	Clear(ctx context.Context) error
}
