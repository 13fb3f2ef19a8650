package utils

import "strings"

// EscapeURL puts a backslash in front of every @ so Discord does not resolve
// the link text as a mention. Stored settings keep this form.
func EscapeURL(url string) string {
	return strings.ReplaceAll(url, "@", `\@`)
}

func UnescapeURL(url string) string {
	return strings.ReplaceAll(url, `\@`, "@")
}
