// Package penguins provides the PostgreSQL-backed repository for penguin
// records.
package penguins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/penguindb/internal/common"
	"github.com/dmitrijs2005/penguindb/internal/dbx"
	"github.com/dmitrijs2005/penguindb/internal/models"
)

const selectColumns = `id, name, species, age, location, weight, height, user_id, created_at, updated_at`

// PostgresRepository implements penguin storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create normalizes and inserts one record, returning it with the generated
// identifier and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, p *models.Penguin) (*models.Penguin, error) {

	query :=
		`INSERT INTO penguins (name, species, age, location, weight, height, user_id)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at
		 `

	p.Name = strings.TrimSpace(p.Name)
	p.Species = strings.TrimSpace(p.Species)
	p.Location = strings.TrimSpace(p.Location)

	err := r.db.QueryRowContext(ctx, query,
		p.Name, p.Species, p.Age, p.Location, p.Weight, p.Height, p.UserID).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Penguin, error) {
	query := `SELECT ` + selectColumns + ` FROM penguins WHERE id = $1`

	p := &models.Penguin{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Species, &p.Age, &p.Location, &p.Weight, &p.Height,
		&p.UserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context, ownerID string) ([]*models.Penguin, error) {
	query := `SELECT ` + selectColumns + ` FROM penguins`
	args := []any{}
	if ownerID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, ownerID)
	}
	query += ` ORDER BY created_at DESC`

	return r.queryMany(ctx, query, args...)
}

func (r *PostgresRepository) UpdateByID(ctx context.Context, id string, p *models.Penguin) (int64, error) {
	query :=
		`UPDATE penguins
		 SET name = $1, species = $2, age = $3, location = $4, weight = $5, height = $6, updated_at = now()
		 WHERE id = $7
		 `

	res, err := r.db.ExecContext(ctx, query,
		strings.TrimSpace(p.Name), strings.TrimSpace(p.Species), p.Age,
		strings.TrimSpace(p.Location), p.Weight, p.Height, id)
	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM penguins WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) Search(ctx context.Context, term string, ownerID string) ([]*models.Penguin, error) {
	pattern := "%" + escapeLike(term) + "%"

	query := `SELECT ` + selectColumns + ` FROM penguins
		 WHERE (name ILIKE $1 OR species ILIKE $1)`
	args := []any{pattern}
	if ownerID != "" {
		query += ` AND user_id = $2`
		args = append(args, ownerID)
	}
	query += ` ORDER BY created_at DESC`

	return r.queryMany(ctx, query, args...)
}

func (r *PostgresRepository) GetStats(ctx context.Context, ownerID string) (*models.PenguinStats, error) {
	countQuery := `SELECT COUNT(*) FROM penguins`
	latestQuery := `SELECT name FROM penguins`
	args := []any{}
	if ownerID != "" {
		countQuery += ` WHERE user_id = $1`
		latestQuery += ` WHERE user_id = $1`
		args = append(args, ownerID)
	}
	latestQuery += ` ORDER BY created_at DESC LIMIT 1`

	stats := &models.PenguinStats{LatestPenguin: "None"}

	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&stats.TotalPenguins); err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	var latest string
	err := r.db.QueryRowContext(ctx, latestQuery, args...).Scan(&latest)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	if err == nil {
		stats.LatestPenguin = latest
	}

	return stats, nil
}

func (r *PostgresRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM penguins WHERE user_id = $1`, ownerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.Penguin, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	result := []*models.Penguin{}
	for rows.Next() {
		p := &models.Penguin{}
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Species, &p.Age, &p.Location, &p.Weight, &p.Height,
			&p.UserID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// escapeLike neutralizes LIKE wildcards so the search term matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
