package service

import (
	"context"
	"errors"
	"testing"

	"github.com/galleryhub/display-relay/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorUpdateFor(t *testing.T) {
	id := uuid.New()
	fields := model.AuthorFields{
		ID:           id,
		Author:       "Alice",
		AuthorAvatar: "https://cdn.example.com/a.png",
		UserURL:      strPtr("https://example.com/@alice"),
		Comment:      strPtr("hi"),
	}

	tests := []struct {
		name    string
		delta   model.SettingsDelta
		want    map[string]interface{}
		changed bool
	}{
		{
			name:  "falsy name leaves author unchanged",
			delta: model.SettingsDelta{DisplayName: model.Set(""), AvatarURL: model.Null()},
		},
		{
			name:    "new name replaces author",
			delta:   model.SettingsDelta{DisplayName: model.Set("Bob")},
			want:    map[string]interface{}{"author": "Bob"},
			changed: true,
		},
		{
			name:    "null url clears user url",
			delta:   model.SettingsDelta{UserURL: model.Null()},
			want:    map[string]interface{}{"user_url": (*string)(nil)},
			changed: true,
		},
		{
			name:  "escaped url equal to stored form is a no-op",
			delta: model.SettingsDelta{UserURL: model.Set(`https://example.com/\@alice`)},
		},
		{
			name:    "escaped url is written unescaped",
			delta:   model.SettingsDelta{UserURL: model.Set(`https://example.com/\@bob`)},
			want:    map[string]interface{}{"user_url": strPtr("https://example.com/@bob")},
			changed: true,
		},
		{
			name:    "null comment clears comment",
			delta:   model.SettingsDelta{Comment: model.Null()},
			want:    map[string]interface{}{"comment": (*string)(nil)},
			changed: true,
		},
		{
			name:  "same comment is a no-op",
			delta: model.SettingsDelta{Comment: model.Set("hi")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update, changed := authorUpdateFor(fields, tt.delta)
			assert.Equal(t, tt.changed, changed)
			if !tt.changed {
				return
			}
			assert.Equal(t, id, update.MessageID)
			assert.Equal(t, tt.want, update.Fields)
		})
	}
}

func TestPropagateAcrossChunks(t *testing.T) {
	env := newTestEnv(t)
	ids := env.messages.seed("u1", 5)
	other := env.messages.seed("u2", 2)

	result, err := env.backfill(2).Propagate(context.Background(), "u1", model.SettingsDelta{
		DisplayName: model.Set("Bob"),
		Comment:     model.Set("hey there"),
	})
	require.NoError(t, err)

	assert.Equal(t, BackfillResult{Matched: 5, Updated: 5, Chunks: 3}, result)
	for _, id := range ids {
		message := env.messages.get(id)
		assert.Equal(t, "Bob", message.Author)
		require.NotNil(t, message.Comment)
		assert.Equal(t, "hey there", *message.Comment)
		assert.Equal(t, "https://cdn.example.com/platform.png", message.AuthorAvatar)
	}
	for _, id := range other {
		assert.Equal(t, "platform-name", env.messages.get(id).Author)
	}
}

func TestPropagateIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.messages.seed("u1", 3)
	backfill := env.backfill(2)
	delta := model.SettingsDelta{DisplayName: model.Set("Bob")}

	_, err := backfill.Propagate(context.Background(), "u1", delta)
	require.NoError(t, err)
	calls := env.messages.applyCalls

	result, err := backfill.Propagate(context.Background(), "u1", delta)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Matched)
	assert.Zero(t, result.Updated)
	assert.Equal(t, calls, env.messages.applyCalls)
}

func TestPropagateEmptyDelta(t *testing.T) {
	env := newTestEnv(t)
	env.messages.seed("u1", 3)

	result, err := env.backfill(2).Propagate(context.Background(), "u1", model.SettingsDelta{})
	require.NoError(t, err)
	assert.Equal(t, BackfillResult{}, result)
	assert.Zero(t, env.messages.applyCalls)
}

func TestPropagateNoMessages(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.backfill(400).Propagate(context.Background(), "u1", model.SettingsDelta{DisplayName: model.Set("Bob")})
	require.NoError(t, err)
	assert.Equal(t, BackfillResult{}, result)
}

func TestPropagateStopsAfterRetries(t *testing.T) {
	env := newTestEnv(t)
	env.messages.seed("u1", 4)
	env.messages.failApply = 10

	result, err := env.backfill(2).Propagate(context.Background(), "u1", model.SettingsDelta{DisplayName: model.Set("Bob")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPersistence))
	assert.Zero(t, result.Updated)
}

func TestResync(t *testing.T) {
	env := newTestEnv(t)
	ids := env.messages.seed("u1", 2)
	env.settings.records["u1"] = model.UserDisplaySettings{
		UserID:      "u1",
		DisplayName: strPtr("Alice"),
		UserURL:     strPtr(`https://example.com/\@alice`),
	}

	result, err := env.backfill(400).Resync(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)

	message := env.messages.get(ids[0])
	assert.Equal(t, "Alice", message.Author)
	require.NotNil(t, message.UserURL)
	assert.Equal(t, "https://example.com/@alice", *message.UserURL)
	assert.Nil(t, message.Comment)

	result, err = env.backfill(400).Resync(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, BackfillResult{}, result)
}
