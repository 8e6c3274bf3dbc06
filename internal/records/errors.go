package records

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks. The user-facing wording lives on
// [ValidationError].
var (
	ErrMissingField    = errors.New("missing required field")
	ErrReservedID      = errors.New("reserved student id")
	ErrAgeOutOfRange   = errors.New("age out of range")
	ErrFormOutOfRange  = errors.New("form out of range")
	ErrDuplicateID     = errors.New("duplicate student id")
	ErrScoreOutOfRange = errors.New("score out of range")
	ErrNoSelection     = errors.New("no student selected")
	ErrNotFound        = errors.New("student not found")
	ErrFinalForm       = errors.New("student already in final form")
)

// ValidationError is a rejected operation with the message shown to the user.
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap returns the sentinel kind so errors.Is works.
func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func invalid(kind error, format string, args ...any) error {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Message returns the user-facing text for err: the validation message if
// err is a [ValidationError], otherwise err.Error().
func Message(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

// IsNotFound reports whether err means the student does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
