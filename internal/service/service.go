package service

import (
	"context"

	"github.com/galleryhub/display-relay/internal/config"
	"github.com/galleryhub/display-relay/internal/dto"
	"github.com/galleryhub/display-relay/internal/model"
	"github.com/galleryhub/display-relay/internal/repository"
	"go.uber.org/zap"
)

type Profile interface {
	Get(ctx context.Context, userID string) (*model.UserDisplaySettings, error)
	Merge(ctx context.Context, userID string, delta model.SettingsDelta) (*model.UserDisplaySettings, error)
}

type Backfill interface {
	Propagate(ctx context.Context, userID string, delta model.SettingsDelta) (BackfillResult, error)
	Resync(ctx context.Context, userID string) (BackfillResult, error)
}

type Command interface {
	IsCommand(content string) bool
	Execute(ctx context.Context, inv dto.CommandInvocation) (*dto.Reply, error)
}

// Relay consumes the three gateway message events. Each handler is
// idempotent and returns an error only for infrastructure failures.
type Relay interface {
	OnMessageCreated(ctx context.Context, evt dto.MessageCreated) (*dto.Reply, error)
	OnMessageUpdated(ctx context.Context, evt dto.MessageUpdated) error
	OnMessageDeleted(ctx context.Context, evt dto.MessageDeleted) error
}

type Message interface {
	FindByChannel(ctx context.Context, channel string, limit int, offset int) ([]*model.StoredMessage, error)
	FindByExternalID(ctx context.Context, externalID string) (*model.StoredMessage, error)
}

type Health interface {
	Check(ctx context.Context) map[string]error
}

type Service struct {
	Profile
	Backfill
	Command
	Relay
	Message
	Health
}

func New(logger *zap.Logger, repo *repository.Repository, cfg config.RelayConfig) *Service {
	retrier := newRetrier(logger, cfg.Retries, cfg.InitialInterval)
	profile := newProfileService(logger, repo, retrier)
	backfill := newBackfillService(logger, repo, profile, retrier, cfg.ChunkSize)
	limiter := newCommandLimiter(cfg.CommandRate, cfg.CommandBurst)

	return &Service{
		Profile:  profile,
		Backfill: backfill,
		Command:  newCommandService(logger, profile, backfill, newHTTPImageProber(cfg.ProbeTimeout), limiter, cfg.CommandPrefix, cfg.HelpColor),
		Relay:    newRelayService(logger, repo, profile, retrier, cfg.Channels, cfg.CommandPrefix),
		Message:  newMessageService(logger, repo),
		Health:   newHealthService(repo),
	}
}
