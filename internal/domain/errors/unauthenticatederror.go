package errors

import "fmt"

type UnauthenticatedError struct {
	message string
}

func (v *UnauthenticatedError) Error() string {
	return v.message
}

func UnauthenticatedErrorf(format string, args ...any) *UnauthenticatedError {
	return &UnauthenticatedError{
		message: fmt.Sprintf(format, args...),
	}
}

var _ error = &UnauthenticatedError{}
