package engine

import "github.com/HackerOS-Linux-System/hpm-backend/internal/store"

// ListInstalled returns the entire state registry for serialization.
func (e *Engine) ListInstalled() (*store.State, *Error) {
	state, err := e.Store.Load()
	if err != nil {
		// list-installed has no dedicated failure code; it shares
		// UnknownCommand rather than minting a new one for a read-only path.
		return nil, NewError(UnknownCommand, err.Error())
	}

	return state, nil
}
