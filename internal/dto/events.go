package dto

import "github.com/galleryhub/display-relay/pkg/utils"

// Author is the platform-native identity of a message author.
type Author struct {
	ID        string
	Username  string
	AvatarURL string
	Bot       bool
}

type MessageCreated struct {
	MessageID   string
	ChannelID   string
	ChannelName string
	Author      Author
	Content     string
	Attachments []utils.Attachment
}

type MessageUpdated struct {
	MessageID   string
	ChannelName string
	// Author is nil when the gateway did not include it in the update.
	Author      *Author
	Content     string
	Attachments []utils.Attachment
}

type MessageDeleted struct {
	MessageID   string
	ChannelName string
	Author      *Author
}
