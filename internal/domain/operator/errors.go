package operator

import "errors"

var (
	ErrOperatorNotFound      = errors.New("operator not found")
	ErrOperatorAlreadyExists = errors.New("operator already exists")
	ErrReadOnlyStore         = errors.New("operator store is read-only")
)
