package service

import "errors"

// ErrValidation marks input the board refuses to store. Handlers map it to
// 422.
var ErrValidation = errors.New("validation failed")
