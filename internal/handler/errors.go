package handler

import "errors"

var (
	errChannelNotRelayed = errors.New("channel is not relayed")
	errMessageNotFound   = errors.New("message not found")
	errSettingsNotFound  = errors.New("display settings not found")
	errInvalidUserID     = errors.New("invalid user ID")
)
