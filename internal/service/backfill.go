package service

import (
	"context"
	"time"

	"github.com/galleryhub/display-relay/internal/metrics"
	"github.com/galleryhub/display-relay/internal/model"
	"github.com/galleryhub/display-relay/internal/repository"
	"github.com/galleryhub/display-relay/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BackfillResult struct {
	Matched int `json:"matched"`
	Updated int `json:"updated"`
	Chunks  int `json:"chunks"`
}

type backfillService struct {
	logger    *zap.Logger
	repo      *repository.Repository
	profile   Profile
	retrier   *retrier
	chunkSize int
}

func newBackfillService(logger *zap.Logger, repo *repository.Repository, profile Profile, retrier *retrier, chunkSize int) Backfill {
	return &backfillService{
		logger:    logger,
		repo:      repo,
		profile:   profile,
		retrier:   retrier,
		chunkSize: chunkSize,
	}
}

// Propagate rewrites the denormalized author fields of every message by
// userID, one keyset page per transaction. Messages already matching the
// delta are skipped, so running the same delta twice converges.
func (s *backfillService) Propagate(ctx context.Context, userID string, delta model.SettingsDelta) (BackfillResult, error) {
	var result BackfillResult
	if delta.IsEmpty() {
		return result, nil
	}

	start := time.Now()
	defer func() {
		metrics.BackfillDuration.Observe(time.Since(start).Seconds())
	}()

	after := uuid.Nil
	for {
		var page []model.AuthorFields
		if err := s.retrier.do(ctx, "find author messages", func() error {
			var err error
			page, err = s.repo.Postgres.Message.FindAuthorFields(ctx, userID, after, s.chunkSize)
			return err
		}); err != nil {
			s.logger.Sugar().Errorf("failed to find messages of user(%s) after %s: %s", userID, after.String(), err.Error())
			return result, err
		}
		if len(page) == 0 {
			break
		}
		result.Matched += len(page)

		updates := make([]model.AuthorUpdate, 0, len(page))
		for _, fields := range page {
			if update, ok := authorUpdateFor(fields, delta); ok {
				updates = append(updates, update)
			}
		}

		if len(updates) > 0 {
			if err := s.retrier.do(ctx, "apply author updates", func() error {
				return s.repo.Postgres.Message.ApplyAuthorUpdates(ctx, updates)
			}); err != nil {
				s.logger.Sugar().Errorf("backfill of user(%s) stopped after %d updated messages: %s", userID, result.Updated, err.Error())
				return result, err
			}
			result.Updated += len(updates)
			result.Chunks++
			metrics.BackfillChunks.Inc()
			metrics.BackfillRecordsUpdated.Add(float64(len(updates)))
		}

		after = page[len(page)-1].ID
		if len(page) < s.chunkSize {
			break
		}
	}

	s.logger.Sugar().Infof("updated %d of %d messages of user(%s)", result.Updated, result.Matched, userID)
	return result, nil
}

// Resync propagates the stored settings of userID in full. It repairs
// messages left behind when a settings write succeeded but its backfill did not.
func (s *backfillService) Resync(ctx context.Context, userID string) (BackfillResult, error) {
	settings, err := s.profile.Get(ctx, userID)
	if err != nil {
		return BackfillResult{}, err
	}
	if settings == nil {
		return BackfillResult{}, nil
	}

	return s.Propagate(ctx, userID, model.DeltaFromSettings(*settings))
}

// authorUpdateFor computes the column changes for one message. Name and
// avatar only move to a non-empty value; url and comment follow the delta
// whenever the key is present, null included.
func authorUpdateFor(fields model.AuthorFields, delta model.SettingsDelta) (model.AuthorUpdate, bool) {
	changes := make(map[string]interface{}, 4)

	if delta.DisplayName.Truthy() && *delta.DisplayName.Value != fields.Author {
		changes["author"] = *delta.DisplayName.Value
	}
	if delta.AvatarURL.Truthy() && *delta.AvatarURL.Value != fields.AuthorAvatar {
		changes["author_avatar"] = *delta.AvatarURL.Value
	}
	if delta.UserURL.Present {
		var userURL *string
		if delta.UserURL.Value != nil {
			unescaped := utils.UnescapeURL(*delta.UserURL.Value)
			userURL = &unescaped
		}
		if !equalStrings(userURL, fields.UserURL) {
			changes["user_url"] = userURL
		}
	}
	if delta.Comment.Present && !equalStrings(delta.Comment.Value, fields.Comment) {
		changes["comment"] = delta.Comment.Value
	}

	return model.AuthorUpdate{MessageID: fields.ID, Fields: changes}, len(changes) > 0
}

func equalStrings(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
