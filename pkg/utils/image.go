package utils

import (
	"errors"
	"strings"
)

const MAX_IMAGE_SIDE = 512

var (
	ErrGIFNotAllowed = errors.New("gif images are not allowed")
	ErrMustBeImage   = errors.New("attachment must be an image")
	ErrImageTooLarge = errors.New("image must be 512x512 pixels or smaller")
	ErrURLIsNotImage = errors.New("url does not point to an image")
)

type Attachment struct {
	URL         string
	ContentType string
	Width       int
	Height      int
}

type ImageValidation struct {
	IsValid bool
	Error   error
}

// ValidateImage reports the first rule the attachment breaks.
func ValidateImage(attachment Attachment) ImageValidation {
	if attachment.ContentType == "image/gif" {
		return ImageValidation{IsValid: false, Error: ErrGIFNotAllowed}
	}

	if !strings.HasPrefix(attachment.ContentType, "image/") {
		return ImageValidation{IsValid: false, Error: ErrMustBeImage}
	}

	if attachment.Width > MAX_IMAGE_SIDE || attachment.Height > MAX_IMAGE_SIDE {
		return ImageValidation{IsValid: false, Error: ErrImageTooLarge}
	}

	return ImageValidation{IsValid: true}
}

// ContentTypeAllowed checks a Content-Type header of a remote image.
// An empty header is accepted, some CDNs omit it.
func ContentTypeAllowed(contentType string) error {
	mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if mediaType == "image/gif" {
		return ErrGIFNotAllowed
	}
	if mediaType != "" && !strings.HasPrefix(mediaType, "image/") {
		return ErrURLIsNotImage
	}
	return nil
}

func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}
