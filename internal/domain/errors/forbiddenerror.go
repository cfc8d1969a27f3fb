package errors

import "fmt"

type ForbiddenError struct {
	message string
}

func (v *ForbiddenError) Error() string {
	return v.message
}

func ForbiddenErrorf(format string, args ...any) *ForbiddenError {
	return &ForbiddenError{
		message: fmt.Sprintf(format, args...),
	}
}

var _ error = &ForbiddenError{}
