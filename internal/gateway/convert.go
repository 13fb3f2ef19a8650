package gateway

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/galleryhub/display-relay/internal/dto"
	"github.com/galleryhub/display-relay/internal/service"
	"github.com/galleryhub/display-relay/pkg/utils"
)

// dispatchCreate routes a new message to the command interpreter or the relay.
func dispatchCreate(ctx context.Context, services *service.Service, evt dto.MessageCreated) (*dto.Reply, error) {
	if evt.Author.Bot {
		return nil, nil
	}

	if services.Command.IsCommand(evt.Content) {
		return services.Command.Execute(ctx, dto.CommandInvocation{
			Author:      evt.Author,
			Content:     evt.Content,
			Attachments: evt.Attachments,
		})
	}

	return services.Relay.OnMessageCreated(ctx, evt)
}

func authorOf(user *discordgo.User, avatarSize string) dto.Author {
	return dto.Author{
		ID:        user.ID,
		Username:  user.Username,
		AvatarURL: user.AvatarURL(avatarSize),
		Bot:       user.Bot,
	}
}

func attachmentsOf(attachments []*discordgo.MessageAttachment) []utils.Attachment {
	converted := make([]utils.Attachment, 0, len(attachments))
	for _, attachment := range attachments {
		if attachment == nil {
			continue
		}
		converted = append(converted, utils.Attachment{
			URL:         attachment.URL,
			ContentType: attachment.ContentType,
			Width:       attachment.Width,
			Height:      attachment.Height,
		})
	}
	return converted
}

// channelNameOf names guild text channels; anything else counts as a DM.
func channelNameOf(channel *discordgo.Channel) string {
	if channel == nil || channel.Type != discordgo.ChannelTypeGuildText {
		return directMessageChannel
	}
	return channel.Name
}

func embedOf(reply *dto.Reply) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       reply.Title,
		Description: reply.Text,
		Color:       reply.Color,
	}
}
