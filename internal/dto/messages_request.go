package dto

type GetMessagesRequest struct {
	Channel string `form:"channel" binding:"required"`
	Limit   int    `form:"limit"`
	Offset  int    `form:"offset"`
}
