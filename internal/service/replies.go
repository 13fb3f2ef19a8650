package service

import (
	"errors"
	"fmt"

	"github.com/galleryhub/display-relay/pkg/utils"
)

const MAX_COMMENT_LENGTH = 16

func usageText(prefix string) string {
	return "Usage:\n" +
		prefix + " name <display name>\n" +
		prefix + " avatar <image URL or attach an image>\n" +
		"  - images must be 512x512 pixels or smaller\n" +
		"  - GIF images are not allowed\n" +
		prefix + " url <URL>\n" +
		"  - @ in URLs is escaped automatically (e.g. \\@username)\n" +
		prefix + fmt.Sprintf(" comment <comment of up to %d characters>\n", MAX_COMMENT_LENGTH) +
		prefix + " clear (reset your settings)\n" +
		prefix + ` set name:"display name" url:"URL" comment:"comment" (set several at once)` + "\n" +
		"  - attach an image to set the avatar\n" +
		"  - only the given items are changed"
}

func invalidCommandText(prefix string) string {
	return "Invalid command.\n" + usageText(prefix)
}

func setUsageText(prefix string) string {
	return "Please specify at least one setting.\n" +
		"Example: " + prefix + ` set name:"Name" url:"https://example.com" comment:"Comment"` + "\n" +
		"Only the items you specify are changed."
}

func avatarUsageText() string {
	return "Please give an image URL or attach an image.\n" +
		"- images must be 512x512 pixels or smaller\n" +
		"- GIF images are not allowed"
}

func profileHintText(prefix string) string {
	return "You have no profile yet. Set one up with these commands:\n\n" +
		prefix + " name <display name>\n" +
		prefix + " avatar <image URL or attach an image>\n" +
		prefix + " url <URL>\n" +
		prefix + fmt.Sprintf(" comment <comment of up to %d characters>\n\n", MAX_COMMENT_LENGTH) +
		"Set everything at once: " + prefix + ` set name:"Name" url:"https://example.com" comment:"Comment"`
}

const (
	replyNameMissing       = "Please provide a display name."
	replyURLMissing        = "Please provide a URL."
	replyURLInvalid        = "Please provide a valid URL."
	replyURLMustBeHTTP     = "URLs must start with http or https."
	replyCommentMissing    = "Please provide a comment."
	replyTooFast           = "You are changing your profile too quickly. Please try again in a moment."
	replyImageInvalid      = "The image is not valid."
	replyImageProbeFailed  = "An error occurred while validating the image URL."
	replyClearDone         = "Your display settings were reset and your past messages were updated."
	replyAvatarDone        = "Your new avatar was set and your past messages were updated."
	replyHelpTitle         = "Display settings"
	replyConfirmationTitle = "Display settings updated"
)

func replyCommentTooLong() string {
	return fmt.Sprintf("Comments must be %d characters or fewer.", MAX_COMMENT_LENGTH)
}

func imageErrorText(err error) string {
	switch {
	case errors.Is(err, utils.ErrGIFNotAllowed):
		return "GIF images cannot be used."
	case errors.Is(err, utils.ErrMustBeImage):
		return "The attachment must be an image."
	case errors.Is(err, utils.ErrImageTooLarge):
		return fmt.Sprintf("Images must be %dx%d pixels or smaller.", utils.MAX_IMAGE_SIDE, utils.MAX_IMAGE_SIDE)
	case errors.Is(err, utils.ErrURLIsNotImage):
		return "The given URL is not an image."
	case errors.Is(err, ErrImageURLUnreachable):
		return replyImageProbeFailed
	default:
		return replyImageInvalid
	}
}
