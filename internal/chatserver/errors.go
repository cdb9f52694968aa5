package chatserver

import "errors"

// Sentinel errors, wrapped with fmt.Errorf("%w: ...") at the call site so
// callers can classify failures with errors.Is.
var (
	ErrListen        = errors.New("listen")
	ErrAccept        = errors.New("accept")
	ErrConnRead      = errors.New("conn_read")
	ErrConnWrite     = errors.New("conn_write")
	ErrNotIntroduced = errors.New("player has not introduced itself yet")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrAlreadyInPot  = errors.New("player has already put their share in the pot")
)
