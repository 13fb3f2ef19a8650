package model

import (
	"time"

	"github.com/google/uuid"
)

type MessageImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type StoredMessage struct {
	ID                uuid.UUID      `json:"id"`
	ExternalMessageID string         `json:"external_message_id"`
	Content           string         `json:"content"`
	Author            string         `json:"author"`
	AuthorID          string         `json:"author_id"`
	AuthorAvatar      string         `json:"author_avatar"`
	UserURL           *string        `json:"user_url"`
	Comment           *string        `json:"comment"`
	Channel           string         `json:"channel"`
	Timestamp         time.Time      `json:"timestamp"`
	Images            []MessageImage `json:"images"`
	Edited            bool           `json:"edited"`
	EditedAt          *time.Time     `json:"edited_at"`
}

// AuthorFields are the denormalized author columns of a stored message.
type AuthorFields struct {
	ID           uuid.UUID
	Author       string
	AuthorAvatar string
	UserURL      *string
	Comment      *string
}

type AuthorUpdate struct {
	MessageID uuid.UUID
	Fields    map[string]interface{}
}
