package users

import (
	"context"

	"github.com/dmitrijs2005/penguindb/internal/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// UpdateUsername applies the only user field mutable through the generic
	// update path; email, password hash and created_at are immutable here.
	// Returns the number of modified rows.
	UpdateUsername(ctx context.Context, id string, username string) (int64, error)
	Count(ctx context.Context) (int64, error)
}
