package service

import "errors"

var (
	ErrInternal            = errors.New("internal server error")
	ErrPersistence         = errors.New("persistence failed")
	ErrImageURLUnreachable = errors.New("image url could not be fetched")
)
