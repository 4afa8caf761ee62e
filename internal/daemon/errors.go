package daemon

import "errors"

// ErrConfigNil is returned when no configuration was passed.
var ErrConfigNil = errors.New("config is nil")
