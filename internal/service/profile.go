package service

import (
	"context"
	"errors"
	"time"

	"github.com/galleryhub/display-relay/internal/model"
	"github.com/galleryhub/display-relay/internal/repository"
	"github.com/galleryhub/display-relay/internal/repository/redisrepo"
	"github.com/galleryhub/display-relay/pkg/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const settingsCacheTTL = time.Hour

type profileService struct {
	logger  *zap.Logger
	repo    *repository.Repository
	retrier *retrier
}

func newProfileService(logger *zap.Logger, repo *repository.Repository, retrier *retrier) Profile {
	return &profileService{
		logger:  logger,
		repo:    repo,
		retrier: retrier,
	}
}

// Get returns nil, nil when the user never configured a profile. A non-nil
// error always means the lookup itself failed.
func (s *profileService) Get(ctx context.Context, userID string) (*model.UserDisplaySettings, error) {
	key := redisrepo.DisplaySettingsKey(userID)

	cached, err := redisrepo.Get[model.UserDisplaySettings](s.repo.Redis.Default, ctx, key)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		s.logger.Sugar().Errorf("failed to get display settings of user(%s) from redis: %s", userID, err.Error())
	}

	var settings *model.UserDisplaySettings
	if err := s.retrier.do(ctx, "find display settings", func() error {
		var err error
		settings, err = s.repo.Postgres.DisplaySettings.FindByUserID(ctx, userID)
		return err
	}); err != nil {
		s.logger.Sugar().Errorf("failed to find display settings of user(%s) in postgres: %s", userID, err.Error())
		return nil, err
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, key, settings, settingsCacheTTL); err != nil {
		s.logger.Sugar().Errorf("failed to set display settings of user(%s) in redis: %s", userID, err.Error())
	}

	return settings, nil
}

// Merge writes the present keys of delta in one statement and returns the
// resulting record.
func (s *profileService) Merge(ctx context.Context, userID string, delta model.SettingsDelta) (*model.UserDisplaySettings, error) {
	themeColor := utils.RgbaToHex(utils.GenerateRandomBrightColor())

	var settings *model.UserDisplaySettings
	if err := s.retrier.do(ctx, "merge display settings", func() error {
		var err error
		settings, err = s.repo.Postgres.DisplaySettings.Merge(ctx, userID, delta.Columns(), themeColor)
		return err
	}); err != nil {
		s.logger.Sugar().Errorf("failed to merge display settings of user(%s): %s", userID, err.Error())
		return nil, err
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.DisplaySettingsKey(userID)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete display settings of user(%s) from redis: %s", userID, err.Error())
	}

	return settings, nil
}
