package postgres

import (
	"context"
	"time"

	"github.com/galleryhub/display-relay/internal/config"
	"github.com/galleryhub/display-relay/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const MAX_LIMIT = 50

func maxLimit(limit *int) {
	if *limit <= 0 || *limit > MAX_LIMIT {
		*limit = MAX_LIMIT
	}
}

func DB(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, cfg.ConnString())
}

type DisplaySettings interface {
	FindByUserID(ctx context.Context, userID string) (*model.UserDisplaySettings, error)
	Merge(ctx context.Context, userID string, updates map[string]interface{}, themeColor int) (*model.UserDisplaySettings, error)
}

type Message interface {
	Create(ctx context.Context, message model.StoredMessage) (bool, error)
	FindByExternalID(ctx context.Context, externalID string) (*model.StoredMessage, error)
	FindByChannel(ctx context.Context, channel string, limit int, offset int) ([]*model.StoredMessage, error)
	UpdateContent(ctx context.Context, externalID string, content string, images []model.MessageImage, editedAt time.Time) (bool, error)
	DeleteByExternalID(ctx context.Context, externalID string) (bool, error)
	FindAuthorFields(ctx context.Context, authorID string, after uuid.UUID, limit int) ([]model.AuthorFields, error)
	ApplyAuthorUpdates(ctx context.Context, updates []model.AuthorUpdate) error
}

type Health interface {
	Ping(ctx context.Context) error
}

type PostgresRepository struct {
	DisplaySettings
	Message
	Health
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		DisplaySettings: newDisplaySettingsRepo(db),
		Message:         newMessageRepo(db),
		Health:          db,
	}
}
