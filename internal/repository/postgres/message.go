package postgres

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/galleryhub/display-relay/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var authorUpdateFields = map[string]struct{}{
	"author":        {},
	"author_avatar": {},
	"user_url":      {},
	"comment":       {},
}

const messageColumns = "id, external_message_id, content, author, author_id, author_avatar, user_url, comment, channel, timestamp, images, edited, edited_at"

type messageRepo struct {
	db *pgxpool.Pool
}

func newMessageRepo(db *pgxpool.Pool) Message {
	return &messageRepo{
		db: db,
	}
}

// Create inserts the message unless one with the same external id exists.
// It reports whether a row was written.
func (r *messageRepo) Create(ctx context.Context, message model.StoredMessage) (bool, error) {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.Images == nil {
		message.Images = []model.MessageImage{}
	}

	tag, err := r.db.Exec(
		ctx,
		`INSERT INTO messages(id, external_message_id, content, author, author_id, author_avatar, user_url, comment, channel, images, edited)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false)
		ON CONFLICT (external_message_id) DO NOTHING`,
		message.ID,
		message.ExternalMessageID,
		message.Content,
		message.Author,
		message.AuthorID,
		message.AuthorAvatar,
		message.UserURL,
		message.Comment,
		message.Channel,
		message.Images,
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

func (r *messageRepo) FindByExternalID(ctx context.Context, externalID string) (*model.StoredMessage, error) {
	message, err := scanMessage(r.db.QueryRow(
		ctx,
		"SELECT "+messageColumns+" FROM messages WHERE external_message_id = $1",
		externalID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return message, nil
}

func (r *messageRepo) FindByChannel(ctx context.Context, channel string, limit int, offset int) ([]*model.StoredMessage, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		"SELECT "+messageColumns+` FROM messages
		WHERE channel = $1
		ORDER BY timestamp DESC, id
		LIMIT $2
		OFFSET $3`,
		channel,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*model.StoredMessage{}
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *messageRepo) UpdateContent(ctx context.Context, externalID string, content string, images []model.MessageImage, editedAt time.Time) (bool, error) {
	if images == nil {
		images = []model.MessageImage{}
	}

	tag, err := r.db.Exec(
		ctx,
		"UPDATE messages SET content = $1, images = $2, edited = true, edited_at = $3 WHERE external_message_id = $4",
		content,
		images,
		editedAt,
		externalID,
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (r *messageRepo) DeleteByExternalID(ctx context.Context, externalID string) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM messages WHERE external_message_id = $1", externalID)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// FindAuthorFields returns one keyset page of an author's messages ordered by id.
func (r *messageRepo) FindAuthorFields(ctx context.Context, authorID string, after uuid.UUID, limit int) ([]model.AuthorFields, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, author, author_avatar, user_url, comment
		FROM messages
		WHERE author_id = $1 AND id > $2
		ORDER BY id
		LIMIT $3`,
		authorID,
		after,
		limit,
	)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.AuthorFields, error) {
		var fields model.AuthorFields
		err := row.Scan(&fields.ID, &fields.Author, &fields.AuthorAvatar, &fields.UserURL, &fields.Comment)
		return fields, err
	})
}

// ApplyAuthorUpdates writes every update inside one transaction, so the set
// lands as a whole or not at all. Rows deleted since they were read are skipped.
func (r *messageRepo) ApplyAuthorUpdates(ctx context.Context, updates []model.AuthorUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, update := range updates {
		query, args, err := buildAuthorUpdateQuery(update)
		if err != nil {
			return err
		}
		batch.Queue(query, args...)
	}

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		results := tx.SendBatch(ctx, batch)
		for range updates {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return err
			}
		}
		return results.Close()
	})
}

func buildAuthorUpdateQuery(update model.AuthorUpdate) (string, []interface{}, error) {
	if len(update.Fields) == 0 {
		return "", nil, ErrFieldsNotAllowedToUpdate
	}

	columns := make([]string, 0, len(update.Fields))
	for column := range update.Fields {
		if _, ok := authorUpdateFields[column]; !ok {
			return "", nil, ErrFieldsNotAllowedToUpdate
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	assignments := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns)+1)
	for i, column := range columns {
		assignments = append(assignments, column+" = $"+strconv.Itoa(i+1))
		args = append(args, update.Fields[column])
	}
	args = append(args, update.MessageID)

	query := "UPDATE messages SET " + strings.Join(assignments, ", ") + " WHERE id = $" + strconv.Itoa(len(args))
	return query, args, nil
}

func scanMessage(row pgx.Row) (*model.StoredMessage, error) {
	var message model.StoredMessage
	if err := row.Scan(
		&message.ID,
		&message.ExternalMessageID,
		&message.Content,
		&message.Author,
		&message.AuthorID,
		&message.AuthorAvatar,
		&message.UserURL,
		&message.Comment,
		&message.Channel,
		&message.Timestamp,
		&message.Images,
		&message.Edited,
		&message.EditedAt,
	); err != nil {
		return nil, err
	}

	return &message, nil
}
