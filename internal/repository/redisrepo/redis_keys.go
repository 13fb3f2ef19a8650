package redisrepo

import "fmt"

const (
	DISPLAY_SETTINGS_KEY = "display-settings:%s" // <userID>
)

func DisplaySettingsKey(userID string) string {
	return fmt.Sprintf(DISPLAY_SETTINGS_KEY, userID)
}
