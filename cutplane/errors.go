package cutplane

import "errors"

// ErrInvalidConfig is returned when Config combines values the
// algorithm cannot run with (a non-positive Lambda, an inverted MERT
// search bound).
var ErrInvalidConfig = errors.New("cutplane: invalid config")
