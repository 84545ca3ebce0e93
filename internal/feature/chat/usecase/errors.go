package usecase

import (
	"errors"

	"planner_backend/internal/shared/apperr"
)

var (
	// ErrAllFieldsRequired is returned when a history request lacks a field.
	ErrAllFieldsRequired = apperr.New(apperr.KindValidation, "All fields required")

	// ErrPromptRequired is returned for an empty or whitespace-only prompt.
	ErrPromptRequired = apperr.New(apperr.KindValidation, "Prompt is required")

	// ErrNoHistory is returned when the user has no conversation.
	ErrNoHistory = apperr.New(apperr.KindNotFound, "No history found")

	// ErrNoMatchingPair is returned when no turn pair matches a delete request.
	ErrNoMatchingPair = apperr.New(apperr.KindNotFound, "No matching history item found")

	// ErrEmptyCompletion is returned when the upstream service answers with no text.
	ErrEmptyCompletion = errors.New("empty completion")

	// ErrConversationNotFound is returned by ConversationRepository implementations
	// when no conversation exists for a user.
	ErrConversationNotFound = errors.New("conversation not found")
)
