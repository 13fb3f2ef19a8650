package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/galleryhub/display-relay/internal/dto"
	"github.com/galleryhub/display-relay/internal/metrics"
	"github.com/galleryhub/display-relay/internal/model"
	"github.com/galleryhub/display-relay/pkg/utils"
	"go.uber.org/zap"
)

// settingsChange is a validated command: what goes into the settings record,
// what goes into past messages, and what the user is told.
type settingsChange struct {
	settings model.SettingsDelta
	backfill model.SettingsDelta
	summary  string
}

type commandService struct {
	logger    *zap.Logger
	profile   Profile
	backfill  Backfill
	prober    ImageProber
	limiter   *commandLimiter
	prefix    string
	helpColor int
}

func newCommandService(logger *zap.Logger, profile Profile, backfill Backfill, prober ImageProber, limiter *commandLimiter, prefix string, helpColor int) Command {
	return &commandService{
		logger:    logger,
		profile:   profile,
		backfill:  backfill,
		prober:    prober,
		limiter:   limiter,
		prefix:    prefix,
		helpColor: helpColor,
	}
}

func (s *commandService) IsCommand(content string) bool {
	_, ok := ParseCommand(s.prefix, content)
	return ok
}

// Execute validates and applies one command. Validation failures come back as
// a reply with a nil error and nothing written; a non-nil error is always an
// infrastructure failure.
func (s *commandService) Execute(ctx context.Context, inv dto.CommandInvocation) (*dto.Reply, error) {
	cmd, ok := ParseCommand(s.prefix, inv.Content)
	if !ok {
		return nil, nil
	}
	if cmd.Subcommand == "" {
		return s.helpReply(usageText(s.prefix)), nil
	}

	if !s.limiter.Allow(inv.Author.ID) {
		metrics.Commands.WithLabelValues(cmd.Subcommand, "limited").Inc()
		return dto.TextReply(replyTooFast), nil
	}

	var (
		change *settingsChange
		reply  *dto.Reply
	)
	switch cmd.Subcommand {
	case SubcommandSet:
		change, reply = s.parseSet(cmd, inv)
	case SubcommandName:
		change, reply = s.parseName(cmd)
	case SubcommandURL:
		change, reply = s.parseURL(cmd)
	case SubcommandComment:
		change, reply = s.parseComment(cmd)
	case SubcommandClear:
		change = s.parseClear(inv.Author)
	case SubcommandAvatar:
		change, reply = s.parseAvatar(ctx, cmd, inv)
	default:
		metrics.Commands.WithLabelValues("unknown", "rejected").Inc()
		return s.helpReply(invalidCommandText(s.prefix)), nil
	}

	if reply != nil {
		metrics.Commands.WithLabelValues(cmd.Subcommand, "rejected").Inc()
		return reply, nil
	}

	return s.apply(ctx, inv.Author, cmd.Subcommand, *change)
}

func (s *commandService) apply(ctx context.Context, author dto.Author, subcommand string, change settingsChange) (*dto.Reply, error) {
	settings, err := s.profile.Merge(ctx, author.ID, change.settings)
	if err != nil {
		metrics.Commands.WithLabelValues(subcommand, "error").Inc()
		return nil, err
	}

	result, err := s.backfill.Propagate(ctx, author.ID, change.backfill)
	if err != nil {
		metrics.Commands.WithLabelValues(subcommand, "error").Inc()
		return nil, err
	}

	s.logger.Sugar().Infof("user(%s) ran %s, %d past messages updated", author.ID, subcommand, result.Updated)
	metrics.Commands.WithLabelValues(subcommand, "applied").Inc()

	return &dto.Reply{
		Title: replyConfirmationTitle,
		Text:  change.summary,
		Color: settings.ThemeColor,
	}, nil
}

func (s *commandService) parseSet(cmd ParsedCommand, inv dto.CommandInvocation) (*settingsChange, *dto.Reply) {
	var delta model.SettingsDelta

	for _, pair := range cmd.Pairs {
		switch pair.Key {
		case "name":
			delta.DisplayName = model.Set(pair.Value)
		case "url":
			if !strings.HasPrefix(pair.Value, "http") {
				return nil, dto.TextReply(replyURLMustBeHTTP)
			}
			delta.UserURL = model.Set(utils.EscapeURL(pair.Value))
		case "comment":
			if utf8.RuneCountInString(pair.Value) > MAX_COMMENT_LENGTH {
				return nil, dto.TextReply(replyCommentTooLong())
			}
			delta.Comment = model.Set(pair.Value)
		}
	}

	if len(inv.Attachments) > 0 {
		attachment := inv.Attachments[0]
		if validation := utils.ValidateImage(attachment); !validation.IsValid {
			return nil, dto.TextReply(imageErrorText(validation.Error))
		}
		delta.AvatarURL = model.Set(attachment.URL)
	}

	if delta.IsEmpty() {
		return nil, s.helpReply(setUsageText(s.prefix))
	}

	var items []string
	if delta.DisplayName.Truthy() {
		items = append(items, "Display name: "+delta.DisplayName.String())
	}
	if delta.AvatarURL.Truthy() {
		items = append(items, "Avatar image")
	}
	if delta.UserURL.Truthy() {
		items = append(items, "URL: "+utils.UnescapeURL(delta.UserURL.String()))
	}
	if delta.Comment.Truthy() {
		items = append(items, "Comment: "+delta.Comment.String())
	}

	return &settingsChange{
		settings: delta,
		backfill: delta,
		summary:  "Updated these settings and your past messages:\n" + strings.Join(items, "\n"),
	}, nil
}

func (s *commandService) parseName(cmd ParsedCommand) (*settingsChange, *dto.Reply) {
	displayName := cmd.Rest()
	if displayName == "" {
		return nil, dto.TextReply(replyNameMissing)
	}

	delta := model.SettingsDelta{DisplayName: model.Set(displayName)}
	return &settingsChange{
		settings: delta,
		backfill: delta,
		summary:  `Display name set to "` + displayName + `" and your past messages were updated.`,
	}, nil
}

func (s *commandService) parseURL(cmd ParsedCommand) (*settingsChange, *dto.Reply) {
	userURL := cmd.First()
	if userURL == "" {
		return nil, dto.TextReply(replyURLMissing)
	}
	if !strings.HasPrefix(userURL, "http") {
		return nil, dto.TextReply(replyURLInvalid)
	}

	escaped := utils.EscapeURL(userURL)
	delta := model.SettingsDelta{UserURL: model.Set(escaped)}
	return &settingsChange{
		settings: delta,
		backfill: delta,
		summary:  "URL set and your past messages were updated:\n" + utils.UnescapeURL(escaped),
	}, nil
}

func (s *commandService) parseComment(cmd ParsedCommand) (*settingsChange, *dto.Reply) {
	comment := cmd.Rest()
	if comment == "" {
		return nil, dto.TextReply(replyCommentMissing)
	}
	if utf8.RuneCountInString(comment) > MAX_COMMENT_LENGTH {
		return nil, dto.TextReply(replyCommentTooLong())
	}

	delta := model.SettingsDelta{Comment: model.Set(comment)}
	return &settingsChange{
		settings: delta,
		backfill: delta,
		summary:  `Comment set to "` + comment + `" and your past messages were updated.`,
	}, nil
}

// parseClear nulls the settings record but gives past messages the
// platform name and avatar, a message always shows some author.
func (s *commandService) parseClear(author dto.Author) *settingsChange {
	return &settingsChange{
		settings: model.SettingsDelta{
			DisplayName: model.Null(),
			AvatarURL:   model.Null(),
			UserURL:     model.Null(),
			Comment:     model.Null(),
		},
		backfill: model.SettingsDelta{
			DisplayName: model.Set(author.Username),
			AvatarURL:   model.Set(author.AvatarURL),
			UserURL:     model.Null(),
			Comment:     model.Null(),
		},
		summary: replyClearDone,
	}
}

func (s *commandService) parseAvatar(ctx context.Context, cmd ParsedCommand, inv dto.CommandInvocation) (*settingsChange, *dto.Reply) {
	avatarURL := cmd.First()
	validated := false

	if len(inv.Attachments) > 0 {
		attachment := inv.Attachments[0]
		if validation := utils.ValidateImage(attachment); !validation.IsValid {
			return nil, dto.TextReply(imageErrorText(validation.Error))
		}
		avatarURL = attachment.URL
		validated = true
	} else if avatarURL == "" {
		return nil, dto.TextReply(avatarUsageText())
	} else if !strings.HasPrefix(avatarURL, "http") {
		return nil, dto.TextReply(replyURLInvalid)
	}

	if !validated {
		if err := s.prober.Probe(ctx, avatarURL); err != nil {
			s.logger.Sugar().Infof("avatar url of user(%s) rejected: %s", inv.Author.ID, err.Error())
			return nil, dto.TextReply(imageErrorText(err))
		}
	}

	delta := model.SettingsDelta{AvatarURL: model.Set(avatarURL)}
	return &settingsChange{
		settings: delta,
		backfill: delta,
		summary:  replyAvatarDone,
	}, nil
}

func (s *commandService) helpReply(text string) *dto.Reply {
	return &dto.Reply{
		Title: replyHelpTitle,
		Text:  text,
		Color: s.helpColor,
	}
}
