package conversation

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "newsagents/services/chat-api/internal/domain/conversation"
	"newsagents/services/chat-api/internal/infrastructure/database/entities"
	"newsagents/services/chat-api/internal/utils/apperrors"
)

// PostgresRepository provides persistence for conversations and turns.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetOrCreate loads a conversation by public id, inserting an empty one on
// first use. The insert races are resolved by the unique index on public_id.
func (r *PostgresRepository) GetOrCreate(ctx context.Context, publicID, userEmail string) (*domain.Conversation, error) {
	entity := entities.Conversation{PublicID: publicID, UserEmail: userEmail}
	if err := r.db.WithContext(ctx).
		Where(entities.Conversation{PublicID: publicID}).
		Attrs(entities.Conversation{UserEmail: userEmail}).
		FirstOrCreate(&entity).Error; err != nil {
		return nil, apperrors.New(ctx, apperrors.LayerRepository, apperrors.ErrorTypeDatabaseError,
			"failed to load or create conversation", err)
	}

	return r.loadWithTurns(ctx, entity.ID)
}

// Find loads a conversation with its turns in seq order.
func (r *PostgresRepository) Find(ctx context.Context, publicID string) (*domain.Conversation, error) {
	var entity entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(ctx, apperrors.LayerRepository, apperrors.ErrorTypeNotFound,
				"conversation not found", err)
		}
		return nil, apperrors.New(ctx, apperrors.LayerRepository, apperrors.ErrorTypeDatabaseError,
			"failed to find conversation", err)
	}

	return r.loadWithTurns(ctx, entity.ID)
}

// AppendTurns stores the batch atomically. The conversation row is locked
// for the duration of the transaction so concurrent appends on the same
// conversation serialize and sequence numbers stay contiguous.
func (r *PostgresRepository) AppendTurns(ctx context.Context, publicID string, turns []domain.Turn) ([]domain.Turn, error) {
	if len(turns) == 0 {
		return nil, nil
	}

	appended := make([]domain.Turn, 0, len(turns))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv entities.Conversation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("public_id = ?", publicID).
			First(&conv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(ctx, apperrors.LayerRepository, apperrors.ErrorTypeNotFound,
					"conversation not found", err)
			}
			return err
		}

		var maxSeq int
		if err := tx.Model(&entities.ConversationTurn{}).
			Where("conversation_id = ?", conv.ID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error; err != nil {
			return err
		}

		for i, turn := range turns {
			turn.Seq = maxSeq + i + 1
			row, err := entities.NewSchemaTurn(conv.ID, turn)
			if err != nil {
				return err
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
			turn.ID = row.ID
			turn.CreatedAt = row.CreatedAt
			appended = append(appended, turn)
		}

		// First prompt doubles as the conversation title.
		if maxSeq == 0 && conv.Title == nil {
			title := turns[0].Prompt
			if len(title) > 256 {
				title = title[:256]
			}
			if err := tx.Model(&conv).Update("title", title).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, err
		}
		return nil, apperrors.New(ctx, apperrors.LayerRepository, apperrors.ErrorTypeDatabaseError,
			"failed to append turns", err)
	}
	return appended, nil
}

// Delete removes a conversation and its turns. Unknown ids are a no-op.
func (r *PostgresRepository) Delete(ctx context.Context, publicID string) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv entities.Conversation
		if err := tx.Where("public_id = ?", publicID).First(&conv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Where("conversation_id = ?", conv.ID).
			Delete(&entities.ConversationTurn{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&conv).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, apperrors.New(ctx, apperrors.LayerRepository, apperrors.ErrorTypeDatabaseError,
			"failed to delete conversation", err)
	}
	return deleted, nil
}

func (r *PostgresRepository) loadWithTurns(ctx context.Context, id uint) (*domain.Conversation, error) {
	var entity entities.Conversation
	if err := r.db.WithContext(ctx).
		Preload("Turns", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		First(&entity, id).Error; err != nil {
		return nil, apperrors.New(ctx, apperrors.LayerRepository, apperrors.ErrorTypeDatabaseError,
			"failed to load conversation turns", err)
	}
	return entity.EtoD(), nil
}
