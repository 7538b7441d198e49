package session

import "errors"

var (
	// ErrUnauthorized means the operator does not administer the chat
	ErrUnauthorized = errors.New("operator is not an administrator of the chat")
	// ErrBadPeriodFormat means the period was not two dates
	ErrBadPeriodFormat = errors.New("period must be two dates: DD-MM-YYYY DD-MM-YYYY")
	// ErrBadTagFormat means the tag does not start with '#'
	ErrBadTagFormat = errors.New("tag must be a single word starting with #")
	// ErrBadWordFormat means the word is empty or contains spaces
	ErrBadWordFormat = errors.New("word must be a single non-empty word")
	// ErrUnknownAction means a callback payload could not be decoded
	ErrUnknownAction = errors.New("unknown action")
	// ErrUnknownChat means the chat is not in the directory
	ErrUnknownChat = errors.New("unknown chat")
	// ErrNoPendingInput means free text arrived while the wizard expected none
	ErrNoPendingInput = errors.New("no input expected")
)
