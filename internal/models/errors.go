package models

import "errors"

// ErrNotFound is returned by list and reminder backends for an unknown id.
var ErrNotFound = errors.New("not found")
