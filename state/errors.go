package state

import "errors"

// ErrChannelNotFound is returned for channel indices outside the mirrored range.
var ErrChannelNotFound = errors.New("channel not found")
