package registrystore

import "errors"

var ErrNotFound = errors.New("daily registry not found")
