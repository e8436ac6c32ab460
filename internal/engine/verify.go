package engine

import (
	"fmt"

	"github.com/HackerOS-Linux-System/hpm-backend/internal/verify"
)

// Verify recomputes path's content hash and compares it against
// expectedHex.
func (e *Engine) Verify(path, expectedHex string) *Error {
	err := verify.Verify(path, expectedHex)
	if err != nil {
		return NewError(VerificationFailed, fmt.Sprintf("verification failed: %v", err))
	}

	return nil
}

// VerifySignature checks an Ed25519 signature over path against the
// compiled-in public key.
func (e *Engine) VerifySignature(path, sigB64 string) *Error {
	err := verify.VerifySignature(path, sigB64)
	if err != nil {
		return NewError(VerificationFailed, fmt.Sprintf("signature verification failed: %v", err))
	}

	return nil
}
