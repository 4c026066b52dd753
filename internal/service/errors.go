package service

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrMessageNotFound  = errors.New("message not found")
	ErrTemplateNotFound = errors.New("template not found")

	ErrDefaultTemplateDelete = errors.New("the default template cannot be deleted")
	ErrTemplateNameTaken     = errors.New("a template with this name already exists")
	ErrInvalidConfig         = errors.New("invalid model configuration")

	ErrEmptyTitle          = errors.New("title must not be empty")
	ErrEmptyMessage        = errors.New("message has no content")
	ErrOnlyUserEditable    = errors.New("only user messages can be edited")
	ErrNothingToRegenerate = errors.New("no user message to respond to")
	ErrGenerationCancelled = errors.New("generation cancelled")
	ErrEmptyReply          = errors.New("model returned an empty reply")

	ErrInvalidImport      = errors.New("invalid import document")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthDisabled       = errors.New("authentication is disabled")
)
