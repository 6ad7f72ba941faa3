package models

// ErrorCode is the machine readable rejection returned to the client in Response.Message.
type ErrorCode string

const (
	ErrCommon               ErrorCode = "commonError"
	ErrAlreadyApplied       ErrorCode = "alreadyApplied"
	ErrNoCharacter          ErrorCode = "noCharacter"
	ErrAuthor               ErrorCode = "author"
	ErrCharacterHasOpenPost ErrorCode = "characterHasOpenPost"
	ErrConflict             ErrorCode = "conflict"
	ErrNotAuthor            ErrorCode = "notAuthor"
	ErrNotFound             ErrorCode = "notFound"
	ErrUnauthorized         ErrorCode = "unauthorized"
)
