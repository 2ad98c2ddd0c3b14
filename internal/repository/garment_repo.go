package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stylist-ai/internal/domain"
)

// GarmentRepository define el contrato de persistencia para el inventario.
type GarmentRepository interface {
	Create(ctx context.Context, garment domain.GarmentRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.GarmentRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.GarmentRecord, error)
	UpdateConsensus(ctx context.Context, garment domain.GarmentRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PgGarmentRepository implementa GarmentRepository usando pgxpool. Features
// y provenance van como JSONB; el embedding como vector de pgvector.
type PgGarmentRepository struct {
	pool *pgxpool.Pool
}

func NewPgGarmentRepository(pool *pgxpool.Pool) *PgGarmentRepository {
	return &PgGarmentRepository{pool: pool}
}

func (r *PgGarmentRepository) Create(ctx context.Context, garment domain.GarmentRecord) error {
	const query = `
		INSERT INTO garments (id, user_id, category, color, brand, features, provenance, embedding, confidence, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	features, provenance, err := marshalConsensus(garment.Consensus)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query,
		garment.ID,
		garment.UserID,
		garment.Category,
		garment.Color,
		garment.Brand,
		features,
		provenance,
		garment.Consensus.Embedding,
		garment.Consensus.Confidence,
		garment.CreatedAt,
		garment.UpdatedAt,
	)
	return err
}

func (r *PgGarmentRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.GarmentRecord, error) {
	const query = `
		SELECT id, user_id, category, color, brand, features, provenance, embedding, confidence, created_at, updated_at
		FROM garments
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	g, err := scanGarment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.GarmentRecord{}, err
	}
	return g, err
}

func (r *PgGarmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.GarmentRecord, error) {
	const query = `
		SELECT id, user_id, category, color, brand, features, provenance, embedding, confidence, created_at, updated_at
		FROM garments
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var garments []domain.GarmentRecord
	for rows.Next() {
		g, err := scanGarment(rows)
		if err != nil {
			return nil, err
		}
		garments = append(garments, g)
	}
	return garments, rows.Err()
}

func (r *PgGarmentRepository) UpdateConsensus(ctx context.Context, garment domain.GarmentRecord) error {
	const query = `
		UPDATE garments
		SET category = $2, color = $3, brand = $4, features = $5, provenance = $6, embedding = $7, confidence = $8, updated_at = $9
		WHERE id = $1
	`
	features, provenance, err := marshalConsensus(garment.Consensus)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, query,
		garment.ID,
		garment.Category,
		garment.Color,
		garment.Brand,
		features,
		provenance,
		garment.Consensus.Embedding,
		garment.Consensus.Confidence,
		garment.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgGarmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM garments WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func marshalConsensus(c domain.ConsensusFeatureSet) ([]byte, []byte, error) {
	features, err := json.Marshal(c.Features)
	if err != nil {
		return nil, nil, fmt.Errorf("serializando features: %w", err)
	}
	provenance, err := json.Marshal(c.Provenance)
	if err != nil {
		return nil, nil, fmt.Errorf("serializando provenance: %w", err)
	}
	return features, provenance, nil
}

func scanGarment(row pgx.Row) (domain.GarmentRecord, error) {
	var g domain.GarmentRecord
	var features, provenance []byte

	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Category,
		&g.Color,
		&g.Brand,
		&features,
		&provenance,
		&g.Consensus.Embedding,
		&g.Consensus.Confidence,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return domain.GarmentRecord{}, err
	}
	if err := json.Unmarshal(features, &g.Consensus.Features); err != nil {
		return domain.GarmentRecord{}, fmt.Errorf("deserializando features: %w", err)
	}
	if err := json.Unmarshal(provenance, &g.Consensus.Provenance); err != nil {
		return domain.GarmentRecord{}, fmt.Errorf("deserializando provenance: %w", err)
	}
	return g, nil
}
