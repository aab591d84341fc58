package domain

import "errors"

var (
	// ErrWorkspaceUnavailable means the workspace is missing or not active.
	// Ingress is rejected with no side effects.
	ErrWorkspaceUnavailable = errors.New("workspace not available")

	// ErrConversationNotFound means an explicit conversation id was given
	// but no such conversation exists.
	ErrConversationNotFound = errors.New("conversation not found")
)
