package bridge

import "errors"

var (
	errEmptyMessage   = errors.New("message is empty")
	errNoConversation = errors.New("no active conversation")
	errNoDraft        = errors.New("no draft to submit")
	errEmptyTitle     = errors.New("listing title is required")
)
