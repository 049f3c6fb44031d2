package screener

import "errors"

var (
	ErrIndexOutOfRange = errors.New("resume index out of range")
	ErrResumeLimit     = errors.New("resume limit reached")
	ErrUnknownAction   = errors.New("unknown action")
	// ErrStale is returned when a submit outcome arrives after a newer submit started.
	ErrStale = errors.New("stale submit outcome")
	// ErrValidation wraps the user-facing validation message.
	ErrValidation   = errors.New("validation failed")
	ErrSubmitFailed = errors.New("submit failed")
)
