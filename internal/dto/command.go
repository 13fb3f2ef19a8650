package dto

import "github.com/galleryhub/display-relay/pkg/utils"

type CommandInvocation struct {
	Author      Author
	Content     string
	Attachments []utils.Attachment
}

// Reply is sent back to the channel of the triggering message.
// A non-zero Color turns it into an embed.
type Reply struct {
	Title string
	Text  string
	Color int
}

func TextReply(text string) *Reply {
	return &Reply{Text: text}
}

func (r *Reply) IsEmbed() bool {
	return r.Color != 0
}
