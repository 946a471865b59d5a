package api

import "errors"

// ErrBadRequest marks request-level validation failures.
var ErrBadRequest = errors.New("bad request")
