package service

import (
	"context"

	"github.com/galleryhub/display-relay/internal/model"
	"github.com/galleryhub/display-relay/internal/repository"
	"go.uber.org/zap"
)

type messageService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newMessageService(logger *zap.Logger, repo *repository.Repository) Message {
	return &messageService{
		logger: logger,
		repo:   repo,
	}
}

func (s *messageService) FindByChannel(ctx context.Context, channel string, limit int, offset int) ([]*model.StoredMessage, error) {
	messages, err := s.repo.Postgres.Message.FindByChannel(ctx, channel, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find messages of channel(%s) from postgres: %s", channel, err.Error())
		return nil, ErrInternal
	}

	return messages, nil
}

func (s *messageService) FindByExternalID(ctx context.Context, externalID string) (*model.StoredMessage, error) {
	message, err := s.repo.Postgres.Message.FindByExternalID(ctx, externalID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find message(%s) from postgres: %s", externalID, err.Error())
		return nil, ErrInternal
	}

	return message, nil
}
