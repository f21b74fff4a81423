package feedback

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "newsagents/services/chat-api/internal/domain/feedback"
	"newsagents/services/chat-api/internal/infrastructure/database/entities"
	"newsagents/services/chat-api/internal/utils/apperrors"
)

// PostgresRepository provides persistence for user feedback.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert inserts the record or updates the existing row with the same
// feedback_id. The conflict target is the unique index on feedback_id.
func (r *PostgresRepository) Upsert(ctx context.Context, fb *domain.Feedback) error {
	entity, err := entities.NewSchemaFeedback(fb)
	if err != nil {
		return apperrors.New(ctx, apperrors.LayerRepository, apperrors.ErrorTypeInternal,
			"failed to map feedback to entity", err)
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "feedback_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"message_id", "session_id", "user_email", "prompt",
				"preset_options", "comment", "positive", "updated_at",
			}),
		}).
		Create(entity).Error; err != nil {
		return apperrors.New(ctx, apperrors.LayerRepository, apperrors.ErrorTypeDatabaseError,
			"failed to upsert feedback", err)
	}

	stored := entity.EtoD()
	fb.ID = stored.ID
	fb.CreatedAt = stored.CreatedAt
	fb.UpdatedAt = stored.UpdatedAt
	return nil
}

// FindByFeedbackID loads one record by its idempotency key.
func (r *PostgresRepository) FindByFeedbackID(ctx context.Context, feedbackID string) (*domain.Feedback, error) {
	var entity entities.Feedback
	if err := r.db.WithContext(ctx).
		Where("feedback_id = ?", feedbackID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(ctx, apperrors.LayerRepository, apperrors.ErrorTypeNotFound,
				"feedback not found", err)
		}
		return nil, apperrors.New(ctx, apperrors.LayerRepository, apperrors.ErrorTypeDatabaseError,
			"failed to find feedback", err)
	}
	return entity.EtoD(), nil
}

// List returns the most recent records, newest first.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]domain.Feedback, error) {
	var rows []entities.Feedback
	if err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, apperrors.New(ctx, apperrors.LayerRepository, apperrors.ErrorTypeDatabaseError,
			"failed to list feedback", err)
	}

	out := make([]domain.Feedback, len(rows))
	for i, row := range rows {
		out[i] = *row.EtoD()
	}
	return out, nil
}
