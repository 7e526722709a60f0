package pooling

import "errors"

var (
	ErrPoolNotFound      = errors.New("pool not found")
	ErrPoolFull          = errors.New("pool is full")
	ErrAlreadyMember     = errors.New("user already in pool")
	ErrNotAMember        = errors.New("user not in pool")
	ErrInvalidTransition = errors.New("invalid pool status transition")
)

// ValidationError reports missing required fields on a request.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	msg := "missing required fields"
	for i, f := range e.Fields {
		if i == 0 {
			msg += ": " + f
		} else {
			msg += ", " + f
		}
	}
	return msg
}
