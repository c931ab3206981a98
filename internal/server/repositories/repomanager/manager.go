// Package repomanager vends repository implementations for a storage backend
// and runs its schema migrations.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/monyze/internal/server/repositories/users"
)

// RepositoryManager is the storage backend seen by services.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	// WithTx runs fn against repositories that share one unit of work.
	// The work is committed when fn returns nil and discarded otherwise.
	WithTx(ctx context.Context, fn func(ctx context.Context, users users.Repository) error) error
}
