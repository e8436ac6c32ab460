package verify

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"os"
)

// PublicKey is the compiled-in Ed25519 public key used by VerifySignature.
// Rotation requires a rebuild; there is no runtime key-loading path.
var PublicKey = ed25519.PublicKey{
	0x1f, 0x4e, 0x8a, 0x2c, 0x7b, 0x93, 0x5d, 0x61,
	0xd0, 0x4a, 0x3e, 0xc8, 0x56, 0x9f, 0x12, 0x7a,
	0xb3, 0x48, 0xe1, 0x07, 0x2d, 0x95, 0xc4, 0x6b,
	0xaa, 0x7c, 0x03, 0x91, 0xfe, 0x68, 0x24, 0xd5,
}

// VerifySignature reads path in full, base64-decodes sigB64, and checks the
// Ed25519 signature against PublicKey. Any decoding, length, or
// cryptographic failure is reported as a single error.
func VerifySignature(path, sigB64 string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("verify: reading %s: %w", path, err)
	}

	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return fmt.Errorf("verify: decoding signature: %w", err)
	}

	if len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("verify: signature has length %d, want %d", len(sig), ed25519.SignatureSize)
	}

	if !ed25519.Verify(PublicKey, data, sig) {
		return fmt.Errorf("verify: signature does not match %s", path)
	}

	return nil
}
