package operator

import "errors"

var (
	ErrOperatorNotFound = errors.New("operator not found")
	ErrEmailTaken       = errors.New("email address already in use")
	ErrCorruptedRecord  = errors.New("corrupted operator record")
)
