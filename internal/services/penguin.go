package services

import (
	"context"
	"database/sql"
	"math"
	"strings"

	"github.com/dmitrijs2005/penguindb/internal/common"
	"github.com/dmitrijs2005/penguindb/internal/dbx"
	"github.com/dmitrijs2005/penguindb/internal/models"
	"github.com/dmitrijs2005/penguindb/internal/repositories/repomanager"
	"github.com/dmitrijs2005/penguindb/internal/validation"
)

// PenguinService implements the owner-scoped record operations. Every call
// takes the caller's user id; reads and aggregates are pre-scoped to it,
// and mutations verify ownership before touching the row.
type PenguinService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPenguinService(db *sql.DB, m repomanager.RepositoryManager) *PenguinService {
	return &PenguinService{db: db, repomanager: m}
}

// Create validates the payload and inserts a record owned by the caller.
func (s *PenguinService) Create(ctx context.Context, ownerID string, in *validation.PenguinInput) (*models.Penguin, error) {
	if msgs := validation.ValidatePenguin(in); len(msgs) > 0 {
		return nil, &validation.ValidationError{Messages: msgs}
	}

	p := inputToModel(in)
	p.UserID = &ownerID

	return s.repomanager.Penguins(s.db).Create(ctx, p)
}

// Get loads one record by id. Records owned by another user come back as
// ErrorForbidden; ownerless records stay readable by anyone authenticated.
func (s *PenguinService) Get(ctx context.Context, callerID, id string) (*models.Penguin, error) {
	if err := validation.ValidateID(id); err != nil {
		return nil, err
	}

	p, err := s.repomanager.Penguins(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Owned() && *p.UserID != callerID {
		return nil, common.ErrorForbidden
	}
	return p, nil
}

// List returns the caller's records, newest first.
func (s *PenguinService) List(ctx context.Context, callerID string) ([]*models.Penguin, error) {
	return s.repomanager.Penguins(s.db).FindAll(ctx, callerID)
}

// Update validates the payload, re-checks ownership inside a transaction and
// applies the mutable fields. The returned flag reports whether the row was
// actually modified; the record is refetched either way so the response
// reflects the stored state.
func (s *PenguinService) Update(ctx context.Context, callerID, id string, in *validation.PenguinInput) (*models.Penguin, bool, error) {
	if err := validation.ValidateID(id); err != nil {
		return nil, false, err
	}
	if msgs := validation.ValidatePenguin(in); len(msgs) > 0 {
		return nil, false, &validation.ValidationError{Messages: msgs}
	}

	var updated *models.Penguin
	var modified int64

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Penguins(tx)

		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing.Owned() && *existing.UserID != callerID {
			return common.ErrorForbidden
		}

		modified, err = repo.UpdateByID(ctx, id, inputToModel(in))
		if err != nil {
			return err
		}

		updated, err = repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	return updated, modified > 0, nil
}

// Delete re-checks ownership inside a transaction and removes the record.
func (s *PenguinService) Delete(ctx context.Context, callerID, id string) error {
	if err := validation.ValidateID(id); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Penguins(tx)

		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing.Owned() && *existing.UserID != callerID {
			return common.ErrorForbidden
		}

		n, err := repo.DeleteByID(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return common.ErrorNotFound
		}
		return nil
	})
}

// Search matches the term case-insensitively against name and species within
// the caller's records.
func (s *PenguinService) Search(ctx context.Context, callerID, term string) ([]*models.Penguin, error) {
	return s.repomanager.Penguins(s.db).Search(ctx, strings.TrimSpace(term), callerID)
}

// Stats computes the caller's record count and latest addition.
func (s *PenguinService) Stats(ctx context.Context, callerID string) (*models.PenguinStats, error) {
	return s.repomanager.Penguins(s.db).GetStats(ctx, callerID)
}

// inputToModel converts a validated payload into a model, trimming strings
// and narrowing the age to an integer.
func inputToModel(in *validation.PenguinInput) *models.Penguin {
	p := &models.Penguin{
		Name:     strings.TrimSpace(in.Name),
		Species:  strings.TrimSpace(in.Species),
		Location: strings.TrimSpace(in.Location),
		Weight:   in.Weight.Value,
		Height:   in.Height.Value,
	}
	if in.Age.Present() {
		age := int(math.Trunc(*in.Age.Value))
		p.Age = &age
	}
	return p
}
