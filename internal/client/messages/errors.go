package messages

import "errors"

// ErrNoOpenChat is returned by Send when no conversation is active.
var ErrNoOpenChat = errors.New("no open chat")
