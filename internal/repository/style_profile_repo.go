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

// StyleProfileRepository persiste perfiles de estilo. Cada quiz completado
// crea un perfil nuevo; el vigente es el mas reciente del usuario.
type StyleProfileRepository interface {
	Create(ctx context.Context, profile domain.StyleProfile) error
	GetCurrentByUser(ctx context.Context, userID uuid.UUID) (domain.StyleProfile, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.StyleProfile, error)
}

// PgStyleProfileRepository implementa StyleProfileRepository usando pgxpool.
type PgStyleProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgStyleProfileRepository(pool *pgxpool.Pool) *PgStyleProfileRepository {
	return &PgStyleProfileRepository{pool: pool}
}

func (r *PgStyleProfileRepository) Create(ctx context.Context, profile domain.StyleProfile) error {
	const query = `
		INSERT INTO style_profiles (id, user_id, scores, primary_style, secondary_style, confidence, is_hybrid, style_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	scores, err := json.Marshal(profile.Scores)
	if err != nil {
		return fmt.Errorf("serializando scores: %w", err)
	}
	_, err = r.pool.Exec(ctx, query,
		profile.ID,
		profile.UserID,
		scores,
		profile.PrimaryStyle,
		profile.SecondaryStyle,
		profile.Confidence,
		profile.IsHybrid,
		profile.StyleMessage,
		profile.CreatedAt,
	)
	return err
}

func (r *PgStyleProfileRepository) GetCurrentByUser(ctx context.Context, userID uuid.UUID) (domain.StyleProfile, error) {
	const query = `
		SELECT id, user_id, scores, primary_style, secondary_style, confidence, is_hybrid, style_message, created_at
		FROM style_profiles
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	row := r.pool.QueryRow(ctx, query, userID)
	p, err := scanStyleProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.StyleProfile{}, err
	}
	return p, err
}

func (r *PgStyleProfileRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.StyleProfile, error) {
	const query = `
		SELECT id, user_id, scores, primary_style, secondary_style, confidence, is_hybrid, style_message, created_at
		FROM style_profiles
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.StyleProfile
	for rows.Next() {
		p, err := scanStyleProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func scanStyleProfile(row pgx.Row) (domain.StyleProfile, error) {
	var p domain.StyleProfile
	var scores []byte

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&scores,
		&p.PrimaryStyle,
		&p.SecondaryStyle,
		&p.Confidence,
		&p.IsHybrid,
		&p.StyleMessage,
		&p.CreatedAt,
	)
	if err != nil {
		return domain.StyleProfile{}, err
	}
	if err := json.Unmarshal(scores, &p.Scores); err != nil {
		return domain.StyleProfile{}, fmt.Errorf("deserializando scores: %w", err)
	}
	return p, nil
}
