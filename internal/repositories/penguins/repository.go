package penguins

import (
	"context"

	"github.com/dmitrijs2005/penguindb/internal/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Penguin) (*models.Penguin, error)
	FindByID(ctx context.Context, id string) (*models.Penguin, error)
	// FindAll returns records scoped to the given owner; an empty ownerID
	// returns the whole collection.
	FindAll(ctx context.Context, ownerID string) ([]*models.Penguin, error)
	// UpdateByID applies the mutable fields of p (name, species, age,
	// location, weight, height) and stamps updated_at. created_at and the
	// owner reference are never touched. Returns the modified-row count.
	UpdateByID(ctx context.Context, id string, p *models.Penguin) (int64, error)
	// DeleteByID removes one record; 0 means the id did not match.
	DeleteByID(ctx context.Context, id string) (int64, error)
	// Search matches the term as a case-insensitive substring of name or
	// species, optionally scoped to one owner.
	Search(ctx context.Context, term string, ownerID string) ([]*models.Penguin, error)
	GetStats(ctx context.Context, ownerID string) (*models.PenguinStats, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}
