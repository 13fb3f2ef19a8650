package service

import (
	"context"
	"time"

	"github.com/galleryhub/display-relay/internal/dto"
	"github.com/galleryhub/display-relay/internal/metrics"
	"github.com/galleryhub/display-relay/internal/model"
	"github.com/galleryhub/display-relay/internal/repository"
	"github.com/galleryhub/display-relay/pkg/utils"
	"go.uber.org/zap"
)

type relayService struct {
	logger   *zap.Logger
	repo     *repository.Repository
	profile  Profile
	retrier  *retrier
	channels map[string]struct{}
	prefix   string
	now      func() time.Time
}

func newRelayService(logger *zap.Logger, repo *repository.Repository, profile Profile, retrier *retrier, channels []string, prefix string) Relay {
	allowed := make(map[string]struct{}, len(channels))
	for _, channel := range channels {
		allowed[channel] = struct{}{}
	}

	return &relayService{
		logger:   logger,
		repo:     repo,
		profile:  profile,
		retrier:  retrier,
		channels: allowed,
		prefix:   prefix,
		now:      time.Now,
	}
}

func (s *relayService) qualifies(channelName string, author *dto.Author) bool {
	if author != nil && author.Bot {
		return false
	}
	_, ok := s.channels[channelName]
	return ok
}

// OnMessageCreated stores a qualifying message with the author's current
// profile. Users without a profile get a setup hint back.
func (s *relayService) OnMessageCreated(ctx context.Context, evt dto.MessageCreated) (*dto.Reply, error) {
	if !s.qualifies(evt.ChannelName, &evt.Author) {
		metrics.RelayEvents.WithLabelValues("created", "ignored").Inc()
		return nil, nil
	}

	settings, err := s.profile.Get(ctx, evt.Author.ID)
	if err != nil {
		metrics.RelayEvents.WithLabelValues("created", "error").Inc()
		return nil, err
	}

	message := buildStoredMessage(evt, settings)

	var created bool
	if err := s.retrier.do(ctx, "create message", func() error {
		var err error
		created, err = s.repo.Postgres.Message.Create(ctx, message)
		return err
	}); err != nil {
		s.logger.Sugar().Errorf("failed to store message(%s) in channel(%s): %s", evt.MessageID, evt.ChannelName, err.Error())
		metrics.RelayEvents.WithLabelValues("created", "error").Inc()
		return nil, err
	}

	if !created {
		metrics.RelayEvents.WithLabelValues("created", "ignored").Inc()
		return nil, nil
	}

	s.logger.Sugar().Infof("message(%s) stored (channel: %s)", evt.MessageID, evt.ChannelName)
	metrics.RelayEvents.WithLabelValues("created", "stored").Inc()

	if settings == nil {
		return dto.TextReply(profileHintText(s.prefix)), nil
	}
	return nil, nil
}

// OnMessageUpdated mirrors an edit. Unknown messages are ignored.
func (s *relayService) OnMessageUpdated(ctx context.Context, evt dto.MessageUpdated) error {
	if evt.Content == "" || !s.qualifies(evt.ChannelName, evt.Author) {
		metrics.RelayEvents.WithLabelValues("updated", "ignored").Inc()
		return nil
	}

	images := imagesOf(evt.Attachments)
	editedAt := s.now()

	var updated bool
	if err := s.retrier.do(ctx, "update message", func() error {
		var err error
		updated, err = s.repo.Postgres.Message.UpdateContent(ctx, evt.MessageID, evt.Content, images, editedAt)
		return err
	}); err != nil {
		s.logger.Sugar().Errorf("failed to update message(%s): %s", evt.MessageID, err.Error())
		metrics.RelayEvents.WithLabelValues("updated", "error").Inc()
		return err
	}

	if !updated {
		metrics.RelayEvents.WithLabelValues("updated", "missing").Inc()
		return nil
	}

	s.logger.Sugar().Infof("message(%s) updated (channel: %s)", evt.MessageID, evt.ChannelName)
	metrics.RelayEvents.WithLabelValues("updated", "stored").Inc()
	return nil
}

// OnMessageDeleted mirrors a deletion. Unknown messages are ignored.
func (s *relayService) OnMessageDeleted(ctx context.Context, evt dto.MessageDeleted) error {
	if !s.qualifies(evt.ChannelName, evt.Author) {
		metrics.RelayEvents.WithLabelValues("deleted", "ignored").Inc()
		return nil
	}

	var deleted bool
	if err := s.retrier.do(ctx, "delete message", func() error {
		var err error
		deleted, err = s.repo.Postgres.Message.DeleteByExternalID(ctx, evt.MessageID)
		return err
	}); err != nil {
		s.logger.Sugar().Errorf("failed to delete message(%s): %s", evt.MessageID, err.Error())
		metrics.RelayEvents.WithLabelValues("deleted", "error").Inc()
		return err
	}

	if !deleted {
		metrics.RelayEvents.WithLabelValues("deleted", "missing").Inc()
		return nil
	}

	s.logger.Sugar().Infof("message(%s) deleted (channel: %s)", evt.MessageID, evt.ChannelName)
	metrics.RelayEvents.WithLabelValues("deleted", "stored").Inc()
	return nil
}

// buildStoredMessage denormalizes the author's profile into a new record,
// falling back to the platform identity for unset fields.
func buildStoredMessage(evt dto.MessageCreated, settings *model.UserDisplaySettings) model.StoredMessage {
	message := model.StoredMessage{
		ExternalMessageID: evt.MessageID,
		Content:           evt.Content,
		Author:            evt.Author.Username,
		AuthorID:          evt.Author.ID,
		AuthorAvatar:      evt.Author.AvatarURL,
		Channel:           evt.ChannelName,
		Images:            imagesOf(evt.Attachments),
	}

	if settings == nil {
		return message
	}

	if nonEmpty(settings.DisplayName) {
		message.Author = *settings.DisplayName
	}
	if nonEmpty(settings.AvatarURL) {
		message.AuthorAvatar = *settings.AvatarURL
	}
	if nonEmpty(settings.UserURL) {
		userURL := utils.UnescapeURL(*settings.UserURL)
		message.UserURL = &userURL
	}
	if nonEmpty(settings.Comment) {
		comment := *settings.Comment
		message.Comment = &comment
	}

	return message
}

func imagesOf(attachments []utils.Attachment) []model.MessageImage {
	images := []model.MessageImage{}
	for _, attachment := range attachments {
		if !utils.IsImageContentType(attachment.ContentType) {
			continue
		}
		images = append(images, model.MessageImage{
			URL:    attachment.URL,
			Width:  attachment.Width,
			Height: attachment.Height,
		})
	}
	return images
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}
