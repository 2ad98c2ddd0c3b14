package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"stylist-ai/internal/domain"
)

// QuizItemRepository expone el catalogo de opciones del quiz de estilo.
type QuizItemRepository interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.QuizItem, error)
	ListByQuestion(ctx context.Context, questionID string) ([]domain.QuizItem, error)
}

// PgQuizItemRepository implementa QuizItemRepository usando pgxpool.
type PgQuizItemRepository struct {
	pool *pgxpool.Pool
}

func NewPgQuizItemRepository(pool *pgxpool.Pool) *PgQuizItemRepository {
	return &PgQuizItemRepository{pool: pool}
}

func (r *PgQuizItemRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.QuizItem, error) {
	const query = `
		SELECT id, question_id, label, style_category, image_url
		FROM quiz_items
		WHERE id = ANY($1)
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.QuizItem
	for rows.Next() {
		var item domain.QuizItem
		if err := rows.Scan(&item.ID, &item.QuestionID, &item.Label, &item.StyleCategory, &item.ImageURL); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PgQuizItemRepository) ListByQuestion(ctx context.Context, questionID string) ([]domain.QuizItem, error) {
	const query = `
		SELECT id, question_id, label, style_category, image_url
		FROM quiz_items
		WHERE question_id = $1
		ORDER BY label ASC
	`
	rows, err := r.pool.Query(ctx, query, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.QuizItem
	for rows.Next() {
		var item domain.QuizItem
		if err := rows.Scan(&item.ID, &item.QuestionID, &item.Label, &item.StyleCategory, &item.ImageURL); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
