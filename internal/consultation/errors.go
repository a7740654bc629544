package consultation

import "errors"

// Service-level error taxonomy. Handlers map these to HTTP statuses and
// must not leak anything about a room beyond "no access".
var (
	ErrRoomNotFound  = errors.New("consultation room not found")
	ErrOrderNotFound = errors.New("consultation order not found")
	ErrNoAccess      = errors.New("no access to consultation room")
	ErrEmptyMessage  = errors.New("message requires a body or an image url")
	ErrInvalidType   = errors.New("unsupported message type")
)
