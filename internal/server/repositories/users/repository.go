// Package users is the credential store: persistence of Monyze user records.
package users

import (
	"context"

	"github.com/dmitrijs2005/monyze/internal/server/models"
)

// Repository stores user records. Create returns common.ErrorAlreadyExists
// when the email is taken; lookups return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
