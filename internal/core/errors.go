package core

import "errors"

// ErrInvalidArgument indicates a caller-supplied parameter is out of range
// (probability outside [0,1], negative tick bound, empty population).
// These are programming errors on the caller's side, not runtime faults.
var ErrInvalidArgument = errors.New("invalid argument")
