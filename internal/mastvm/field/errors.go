package field

import "errors"

// ErrDivideByZero is returned by Inv when asked to invert the zero element.
var ErrDivideByZero = errors.New("field: cannot invert zero")
