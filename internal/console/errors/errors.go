package errors

import (
	"fmt"
)

var (
	ErrNotFound        = fmt.Errorf("not found")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrUnauthenticated = fmt.Errorf("unauthenticated")
	ErrValidation      = fmt.Errorf("validation failed")
	ErrDialogClosed    = fmt.Errorf("dialog is not open")
)
