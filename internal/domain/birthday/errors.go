package birthday

import "errors"

// Per-person errors. None of these are fatal to the process: the affected
// person is logged and left out of the roster (or left stale in it).
var (
	ErrInvalidTimezone  = errors.New("invalid timezone")
	ErrInvalidDate      = errors.New("invalid day or month")
	ErrUnresolvableDate = errors.New("unresolvable date")
)
