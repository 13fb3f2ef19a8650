package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/galleryhub/display-relay/internal/model"
	"github.com/galleryhub/display-relay/internal/repository"
	"github.com/galleryhub/display-relay/internal/repository/postgres"
	"github.com/galleryhub/display-relay/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errStoreDown = errors.New("store unavailable")

type fakeSettingsRepo struct {
	mu        sync.Mutex
	records   map[string]model.UserDisplaySettings
	finds     int
	failFinds int
	failMerge int
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{records: make(map[string]model.UserDisplaySettings)}
}

func (f *fakeSettingsRepo) FindByUserID(ctx context.Context, userID string) (*model.UserDisplaySettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finds++
	if f.failFinds > 0 {
		f.failFinds--
		return nil, errStoreDown
	}

	record, ok := f.records[userID]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (f *fakeSettingsRepo) Merge(ctx context.Context, userID string, updates map[string]interface{}, themeColor int) (*model.UserDisplaySettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failMerge > 0 {
		f.failMerge--
		return nil, errStoreDown
	}

	record, ok := f.records[userID]
	if !ok {
		record = model.UserDisplaySettings{UserID: userID, ThemeColor: themeColor}
	}
	for column, value := range updates {
		v := value.(*string)
		switch column {
		case "display_name":
			record.DisplayName = v
		case "avatar_url":
			record.AvatarURL = v
		case "user_url":
			record.UserURL = v
		case "comment":
			record.Comment = v
		default:
			return nil, postgres.ErrFieldsNotAllowedToUpdate
		}
	}
	record.UpdatedAt = time.Now()
	f.records[userID] = record

	return &record, nil
}

type fakeMessageRepo struct {
	mu         sync.Mutex
	messages   map[uuid.UUID]*model.StoredMessage
	applyCalls int
	failApply  int
	failCreate int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[uuid.UUID]*model.StoredMessage)}
}

func (f *fakeMessageRepo) byExternalID(externalID string) *model.StoredMessage {
	for _, message := range f.messages {
		if message.ExternalMessageID == externalID {
			return message
		}
	}
	return nil
}

func (f *fakeMessageRepo) Create(ctx context.Context, message model.StoredMessage) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreate > 0 {
		f.failCreate--
		return false, errStoreDown
	}
	if f.byExternalID(message.ExternalMessageID) != nil {
		return false, nil
	}
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	message.Timestamp = time.Now()
	f.messages[message.ID] = &message
	return true, nil
}

func (f *fakeMessageRepo) FindByExternalID(ctx context.Context, externalID string) (*model.StoredMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	message := f.byExternalID(externalID)
	if message == nil {
		return nil, nil
	}
	copied := *message
	return &copied, nil
}

func (f *fakeMessageRepo) FindByChannel(ctx context.Context, channel string, limit int, offset int) ([]*model.StoredMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var messages []*model.StoredMessage
	for _, message := range f.messages {
		if message.Channel == channel {
			copied := *message
			messages = append(messages, &copied)
		}
	}
	return messages, nil
}

func (f *fakeMessageRepo) UpdateContent(ctx context.Context, externalID string, content string, images []model.MessageImage, editedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	message := f.byExternalID(externalID)
	if message == nil {
		return false, nil
	}
	message.Content = content
	message.Images = images
	message.Edited = true
	message.EditedAt = &editedAt
	return true, nil
}

func (f *fakeMessageRepo) DeleteByExternalID(ctx context.Context, externalID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	message := f.byExternalID(externalID)
	if message == nil {
		return false, nil
	}
	delete(f.messages, message.ID)
	return true, nil
}

func (f *fakeMessageRepo) FindAuthorFields(ctx context.Context, authorID string, after uuid.UUID, limit int) ([]model.AuthorFields, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var page []model.AuthorFields
	for _, message := range f.messages {
		if message.AuthorID != authorID || bytesCompare(message.ID, after) <= 0 {
			continue
		}
		page = append(page, model.AuthorFields{
			ID:           message.ID,
			Author:       message.Author,
			AuthorAvatar: message.AuthorAvatar,
			UserURL:      message.UserURL,
			Comment:      message.Comment,
		})
	}
	sort.Slice(page, func(i, j int) bool { return bytesCompare(page[i].ID, page[j].ID) < 0 })
	if len(page) > limit {
		page = page[:limit]
	}
	return page, nil
}

func (f *fakeMessageRepo) ApplyAuthorUpdates(ctx context.Context, updates []model.AuthorUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failApply > 0 {
		f.failApply--
		return errStoreDown
	}
	f.applyCalls++

	for _, update := range updates {
		message, ok := f.messages[update.MessageID]
		if !ok {
			continue
		}
		for column, value := range update.Fields {
			switch column {
			case "author":
				message.Author = value.(string)
			case "author_avatar":
				message.AuthorAvatar = value.(string)
			case "user_url":
				message.UserURL = value.(*string)
			case "comment":
				message.Comment = value.(*string)
			}
		}
	}
	return nil
}

func (f *fakeMessageRepo) seed(authorID string, count int) []uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		f.messages[id] = &model.StoredMessage{
			ID:                id,
			ExternalMessageID: id.String(),
			Content:           "hello",
			Author:            "platform-name",
			AuthorID:          authorID,
			AuthorAvatar:      "https://cdn.example.com/platform.png",
			Channel:           "gallery",
			Images:            []model.MessageImage{},
		}
		ids = append(ids, id)
	}
	return ids
}

func (f *fakeMessageRepo) get(id uuid.UUID) model.StoredMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.messages[id]
}

func bytesCompare(a, b uuid.UUID) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type testEnv struct {
	repo     *repository.Repository
	settings *fakeSettingsRepo
	messages *fakeMessageRepo
	redis    *miniredis.Miniredis
	logger   *zap.Logger
	retrier  *retrier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	settings := newFakeSettingsRepo()
	messages := newFakeMessageRepo()
	logger := zap.NewNop()

	return &testEnv{
		repo: &repository.Repository{
			Postgres: &postgres.PostgresRepository{
				DisplaySettings: settings,
				Message:         messages,
				Health:          pingerFunc(func(ctx context.Context) error { return nil }),
			},
			Redis: redisrepo.New(rdb),
		},
		settings: settings,
		messages: messages,
		redis:    mr,
		logger:   logger,
		retrier:  newRetrier(logger, 2, time.Millisecond),
	}
}

func (e *testEnv) profile() Profile {
	return newProfileService(e.logger, e.repo, e.retrier)
}

func (e *testEnv) backfill(chunkSize int) Backfill {
	return newBackfillService(e.logger, e.repo, e.profile(), e.retrier, chunkSize)
}

func strPtr(s string) *string {
	return &s
}
