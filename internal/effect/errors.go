package effect

import "errors"

var (
	// ErrUnknownEffect is returned when a name has no registered factory
	ErrUnknownEffect = errors.New("unknown effect")

	// ErrInvalidParameter is returned when an effect argument cannot be parsed
	ErrInvalidParameter = errors.New("invalid effect parameter")

	errDuplicateEffect = errors.New("duplicate effect name")
)
