package ui

import (
	"paperhub/model"
	"paperhub/provider"
)

// Message type aliases - these are defined in the model and provider packages
type streamChunkMsg = model.StreamChunkMsg
type streamDoneMsg = model.StreamDoneMsg
type loadProgressMsg = model.LoadProgressMsg
type attachDoneMsg = model.AttachDoneMsg
type commentsLoadedMsg = model.CommentsLoadedMsg
type commentSubmittedMsg = model.CommentSubmittedMsg
type commentDeletedMsg = model.CommentDeletedMsg
type likedMsg = model.LikedMsg
type countsMsg = model.CountsMsg
type countChangedMsg = model.CountChangedMsg
type prefsSavedMsg = model.PrefsSavedMsg
type clockTickMsg = model.ClockTickMsg
type flashTickMsg = model.FlashTickMsg
type pingBackendMsg = provider.PingBackendMsg
type modelsMsg = provider.ModelsMsg

// markdownRenderedMsg carries the rendered form of a finished assistant message.
type markdownRenderedMsg struct {
	MessageID string
	Rendered  string
}

// clipboardMsg reports a copy; Err is nil on success.
type clipboardMsg struct {
	What string
	Err  error
}
