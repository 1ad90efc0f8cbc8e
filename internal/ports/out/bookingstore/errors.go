package bookingstore

import "errors"

var ErrTripNotFound = errors.New("trip not found for booking")
