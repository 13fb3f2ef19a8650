package gateway

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/galleryhub/display-relay/internal/config"
	"github.com/galleryhub/display-relay/internal/dto"
	"github.com/galleryhub/display-relay/internal/service"
	"go.uber.org/zap"
)

const directMessageChannel = "DM"

var ErrMissingToken = errors.New("discord bot token is not set")

// Gateway feeds Discord message events into the relay and command services
// and posts their replies back.
type Gateway struct {
	logger     *zap.Logger
	session    *discordgo.Session
	services   *service.Service
	avatarSize string
	onFatal    func(error)
	ctx        context.Context
}

// New prepares a session without connecting. onFatal is called once a
// service reports an infrastructure failure the relay cannot recover from.
func New(logger *zap.Logger, discord config.DiscordConfig, services *service.Service, avatarSize string, onFatal func(error)) (*Gateway, error) {
	if discord.Token == "" {
		return nil, ErrMissingToken
	}

	session, err := discordgo.New("Bot " + discord.Token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	g := &Gateway{
		logger:     logger,
		session:    session,
		services:   services,
		avatarSize: avatarSize,
		onFatal:    onFatal,
		ctx:        context.Background(),
	}

	session.AddHandler(g.onReady)
	session.AddHandler(g.onMessageCreate)
	session.AddHandler(g.onMessageUpdate)
	session.AddHandler(g.onMessageDelete)

	return g, nil
}

// Open connects to the gateway. Handlers run with ctx until Close.
func (g *Gateway) Open(ctx context.Context) error {
	g.ctx = ctx
	return g.session.Open()
}

func (g *Gateway) Close() error {
	return g.session.Close()
}

func (g *Gateway) onReady(s *discordgo.Session, r *discordgo.Ready) {
	g.logger.Sugar().Infof("logged in to discord as %s", r.User.Username)
}

func (g *Gateway) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}

	evt := dto.MessageCreated{
		MessageID:   m.ID,
		ChannelID:   m.ChannelID,
		ChannelName: g.channelName(s, m.ChannelID),
		Author:      authorOf(m.Author, g.avatarSize),
		Content:     m.Content,
		Attachments: attachmentsOf(m.Attachments),
	}

	reply, err := dispatchCreate(g.ctx, g.services, evt)
	if err != nil {
		g.fail("message create", m.ID, err)
		return
	}
	if reply != nil {
		g.sendReply(s, m.ChannelID, m.Reference(), reply)
	}
}

func (g *Gateway) onMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	evt := dto.MessageUpdated{
		MessageID:   m.ID,
		ChannelName: g.channelName(s, m.ChannelID),
		Content:     m.Content,
		Attachments: attachmentsOf(m.Attachments),
	}
	if m.Author != nil {
		author := authorOf(m.Author, g.avatarSize)
		evt.Author = &author
	}

	if err := g.services.Relay.OnMessageUpdated(g.ctx, evt); err != nil {
		g.fail("message update", m.ID, err)
	}
}

func (g *Gateway) onMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	evt := dto.MessageDeleted{
		MessageID:   m.ID,
		ChannelName: g.channelName(s, m.ChannelID),
	}
	if m.BeforeDelete != nil && m.BeforeDelete.Author != nil {
		author := authorOf(m.BeforeDelete.Author, g.avatarSize)
		evt.Author = &author
	}

	if err := g.services.Relay.OnMessageDeleted(g.ctx, evt); err != nil {
		g.fail("message delete", m.ID, err)
	}
}

// channelName resolves a channel from the state cache, then over REST.
// An unresolvable channel yields "" and is never relayed.
func (g *Gateway) channelName(s *discordgo.Session, channelID string) string {
	channel, err := s.State.Channel(channelID)
	if err != nil {
		channel, err = s.Channel(channelID)
		if err != nil {
			g.logger.Sugar().Errorf("failed to resolve channel(%s): %s", channelID, err.Error())
			return ""
		}
	}

	return channelNameOf(channel)
}

func (g *Gateway) sendReply(s *discordgo.Session, channelID string, ref *discordgo.MessageReference, reply *dto.Reply) {
	var err error
	if reply.IsEmbed() {
		_, err = s.ChannelMessageSendEmbedReply(channelID, embedOf(reply), ref)
	} else {
		_, err = s.ChannelMessageSendReply(channelID, reply.Text, ref)
	}

	if err != nil {
		g.logger.Sugar().Errorf("failed to send reply to channel(%s): %s", channelID, err.Error())
	}
}

func (g *Gateway) fail(event string, messageID string, err error) {
	g.logger.Sugar().Errorf("failed to handle %s of message(%s): %s", event, messageID, err.Error())
	if g.onFatal != nil {
		g.onFatal(err)
	}
}
