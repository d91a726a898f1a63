package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"pawScout/domain"
)

type AnswerEventRepository struct {
	DB *gorm.DB
}

func NewAnswerEventRepository(db *gorm.DB) *AnswerEventRepository {
	return &AnswerEventRepository{DB: db}
}

func (r *AnswerEventRepository) SaveEvent(ctx context.Context, event domain.AnswerEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save answer event: %w", err)
	}

	return nil
}

// FindBySession returns a session's answer stream in insertion order.
func (r *AnswerEventRepository) FindBySession(ctx context.Context, sessionID string) ([]domain.AnswerEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var events []domain.AnswerEvent
	err := r.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id asc").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query answer events: %w", err)
	}

	return events, nil
}
