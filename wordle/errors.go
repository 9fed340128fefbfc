package wordle

import "errors"

// ErrInvalidInput is wrapped by every validation failure: wrong word length, characters outside
// a-z, guess/pattern length mismatch or an unknown feedback symbol.
var ErrInvalidInput = errors.New("invalid input")
