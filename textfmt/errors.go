package textfmt

import "errors"

// ErrParse is returned when textual input does not match the documented
// grammar of spec §6 (spec §7's ParseError kind).
var ErrParse = errors.New("textfmt: malformed input")
