package model

import "time"

type UserDisplaySettings struct {
	UserID      string    `json:"user_id"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	UserURL     *string   `json:"user_url"`
	Comment     *string   `json:"comment"`
	ThemeColor  int       `json:"theme_color"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OptionalString separates "not provided" from an explicit null.
type OptionalString struct {
	Present bool
	Value   *string
}

func Set(value string) OptionalString {
	return OptionalString{Present: true, Value: &value}
}

func Null() OptionalString {
	return OptionalString{Present: true}
}

// Truthy is true only for a present, non-empty value.
func (o OptionalString) Truthy() bool {
	return o.Present && o.Value != nil && *o.Value != ""
}

func (o OptionalString) String() string {
	if o.Value == nil {
		return ""
	}
	return *o.Value
}

type SettingsDelta struct {
	DisplayName OptionalString
	AvatarURL   OptionalString
	UserURL     OptionalString
	Comment     OptionalString
}

func (d SettingsDelta) IsEmpty() bool {
	return !d.DisplayName.Present && !d.AvatarURL.Present && !d.UserURL.Present && !d.Comment.Present
}

// Columns maps present keys to their column names. Absent keys are left out
// so a merge never touches them, null values clear the column.
func (d SettingsDelta) Columns() map[string]interface{} {
	columns := make(map[string]interface{}, 4)
	if d.DisplayName.Present {
		columns["display_name"] = d.DisplayName.Value
	}
	if d.AvatarURL.Present {
		columns["avatar_url"] = d.AvatarURL.Value
	}
	if d.UserURL.Present {
		columns["user_url"] = d.UserURL.Value
	}
	if d.Comment.Present {
		columns["comment"] = d.Comment.Value
	}
	return columns
}

// DeltaFromSettings rebuilds a full delta from a stored record, every key present.
func DeltaFromSettings(settings UserDisplaySettings) SettingsDelta {
	return SettingsDelta{
		DisplayName: OptionalString{Present: true, Value: settings.DisplayName},
		AvatarURL:   OptionalString{Present: true, Value: settings.AvatarURL},
		UserURL:     OptionalString{Present: true, Value: settings.UserURL},
		Comment:     OptionalString{Present: true, Value: settings.Comment},
	}
}
