package gateway

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/galleryhub/display-relay/internal/config"
	"github.com/galleryhub/display-relay/internal/dto"
	"github.com/galleryhub/display-relay/internal/service"
	"github.com/galleryhub/display-relay/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommand struct {
	executed []dto.CommandInvocation
}

func (f *fakeCommand) IsCommand(content string) bool {
	_, ok := service.ParseCommand("!display", content)
	return ok
}

func (f *fakeCommand) Execute(ctx context.Context, inv dto.CommandInvocation) (*dto.Reply, error) {
	f.executed = append(f.executed, inv)
	return dto.TextReply("ok"), nil
}

type fakeRelay struct {
	created []dto.MessageCreated
}

func (f *fakeRelay) OnMessageCreated(ctx context.Context, evt dto.MessageCreated) (*dto.Reply, error) {
	f.created = append(f.created, evt)
	return nil, nil
}

func (f *fakeRelay) OnMessageUpdated(ctx context.Context, evt dto.MessageUpdated) error {
	return nil
}

func (f *fakeRelay) OnMessageDeleted(ctx context.Context, evt dto.MessageDeleted) error {
	return nil
}

func TestDispatchCreate(t *testing.T) {
	command := &fakeCommand{}
	relay := &fakeRelay{}
	services := &service.Service{Command: command, Relay: relay}
	ctx := context.Background()

	reply, err := dispatchCreate(ctx, services, dto.MessageCreated{
		MessageID:   "m1",
		ChannelName: "gallery",
		Author:      dto.Author{ID: "u1"},
		Content:     "!display name Bob",
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", reply.Text)
	require.Len(t, command.executed, 1)
	assert.Equal(t, "u1", command.executed[0].Author.ID)
	assert.Empty(t, relay.created)

	reply, err = dispatchCreate(ctx, services, dto.MessageCreated{
		MessageID:   "m2",
		ChannelName: "gallery",
		Author:      dto.Author{ID: "u1"},
		Content:     "new artwork",
	})
	require.NoError(t, err)
	assert.Nil(t, reply)
	assert.Len(t, relay.created, 1)

	reply, err = dispatchCreate(ctx, services, dto.MessageCreated{
		MessageID: "m3",
		Author:    dto.Author{ID: "b1", Bot: true},
		Content:   "!display name Bot",
	})
	require.NoError(t, err)
	assert.Nil(t, reply)
	assert.Len(t, command.executed, 1)
	assert.Len(t, relay.created, 1)
}

func TestAuthorOf(t *testing.T) {
	user := &discordgo.User{ID: "42", Username: "alice", Avatar: "abc", Bot: true}

	author := authorOf(user, "64")
	assert.Equal(t, "42", author.ID)
	assert.Equal(t, "alice", author.Username)
	assert.True(t, author.Bot)
	assert.Contains(t, author.AvatarURL, "abc")
	assert.Contains(t, author.AvatarURL, "size=64")
}

func TestAttachmentsOf(t *testing.T) {
	attachments := attachmentsOf([]*discordgo.MessageAttachment{
		{URL: "https://cdn.example.com/a.png", ContentType: "image/png", Width: 10, Height: 20},
		nil,
	})

	assert.Equal(t, []utils.Attachment{
		{URL: "https://cdn.example.com/a.png", ContentType: "image/png", Width: 10, Height: 20},
	}, attachments)
	assert.NotNil(t, attachmentsOf(nil))
}

func TestChannelNameOf(t *testing.T) {
	assert.Equal(t, "gallery", channelNameOf(&discordgo.Channel{Name: "gallery", Type: discordgo.ChannelTypeGuildText}))
	assert.Equal(t, directMessageChannel, channelNameOf(&discordgo.Channel{Type: discordgo.ChannelTypeDM}))
	assert.Equal(t, directMessageChannel, channelNameOf(nil))
}

func TestEmbedOf(t *testing.T) {
	embed := embedOf(&dto.Reply{Title: "Display settings", Text: "usage", Color: 0x5865f2})
	assert.Equal(t, "Display settings", embed.Title)
	assert.Equal(t, "usage", embed.Description)
	assert.Equal(t, 0x5865f2, embed.Color)
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New(nil, config.DiscordConfig{}, &service.Service{}, "64", nil)
	assert.ErrorIs(t, err, ErrMissingToken)
}
