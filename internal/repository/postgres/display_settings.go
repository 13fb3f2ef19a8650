package postgres

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/galleryhub/display-relay/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var settingsMergeFields = map[string]struct{}{
	"display_name": {},
	"avatar_url":   {},
	"user_url":     {},
	"comment":      {},
}

const settingsColumns = "user_id, display_name, avatar_url, user_url, comment, theme_color, updated_at"

type displaySettingsRepo struct {
	db *pgxpool.Pool
}

func newDisplaySettingsRepo(db *pgxpool.Pool) DisplaySettings {
	return &displaySettingsRepo{
		db: db,
	}
}

func (r *displaySettingsRepo) FindByUserID(ctx context.Context, userID string) (*model.UserDisplaySettings, error) {
	settings, err := scanSettings(r.db.QueryRow(
		ctx,
		"SELECT "+settingsColumns+" FROM user_display_settings WHERE user_id = $1",
		userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return settings, nil
}

// Merge upserts only the given columns in a single statement. themeColor is
// written when the record is created and never overwritten afterwards.
func (r *displaySettingsRepo) Merge(ctx context.Context, userID string, updates map[string]interface{}, themeColor int) (*model.UserDisplaySettings, error) {
	query, args, err := buildMergeQuery(userID, updates, themeColor)
	if err != nil {
		return nil, err
	}

	return scanSettings(r.db.QueryRow(ctx, query, args...))
}

func buildMergeQuery(userID string, updates map[string]interface{}, themeColor int) (string, []interface{}, error) {
	columns := make([]string, 0, len(updates))
	for column := range updates {
		if _, ok := settingsMergeFields[column]; !ok {
			return "", nil, ErrFieldsNotAllowedToUpdate
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	insertColumns := []string{"user_id", "theme_color"}
	placeholders := []string{"$1", "$2"}
	args := []interface{}{userID, themeColor}
	assignments := make([]string, 0, len(columns)+1)

	for i, column := range columns {
		insertColumns = append(insertColumns, column)
		placeholders = append(placeholders, "$"+strconv.Itoa(i+3))
		args = append(args, updates[column])
		assignments = append(assignments, column+" = EXCLUDED."+column)
	}
	assignments = append(assignments, "updated_at = now()")

	query := "INSERT INTO user_display_settings(" + strings.Join(insertColumns, ", ") + ")" +
		" VALUES(" + strings.Join(placeholders, ", ") + ")" +
		" ON CONFLICT (user_id) DO UPDATE SET " + strings.Join(assignments, ", ") +
		" RETURNING " + settingsColumns

	return query, args, nil
}

func scanSettings(row pgx.Row) (*model.UserDisplaySettings, error) {
	var settings model.UserDisplaySettings
	if err := row.Scan(
		&settings.UserID,
		&settings.DisplayName,
		&settings.AvatarURL,
		&settings.UserURL,
		&settings.Comment,
		&settings.ThemeColor,
		&settings.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &settings, nil
}
