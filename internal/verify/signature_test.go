package verify_test

import (
	"crypto/ed25519"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/HackerOS-Linux-System/hpm-backend/internal/verify"
)

// withTestKey swaps verify.PublicKey for a freshly generated key for the
// duration of a subtest, restoring the compiled-in key on return.
func withTestKey(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	orig := verify.PublicKey
	verify.PublicKey = pub

	t.Cleanup(func() { verify.PublicKey = orig })

	return pub, priv
}

func Test_VerifySignature_Succeeds_When_SignatureValid(t *testing.T) {
	_, priv := withTestKey(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "payload.bin")

	data := []byte("package bytes to sign")

	err := os.WriteFile(path, data, 0o644)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	sig := ed25519.Sign(priv, data)
	sigB64 := base64.StdEncoding.EncodeToString(sig)

	err = verify.VerifySignature(path, sigB64)
	if err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
}

func Test_VerifySignature_Fails_When_SignatureDoesNotMatch(t *testing.T) {
	withTestKey(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "payload.bin")

	err := os.WriteFile(path, []byte("payload"), 0o644)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	otherPub, otherPriv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	_ = otherPub

	sig := ed25519.Sign(otherPriv, []byte("payload"))
	sigB64 := base64.StdEncoding.EncodeToString(sig)

	err = verify.VerifySignature(path, sigB64)
	if err == nil {
		t.Fatal("VerifySignature: expected error for signature from wrong key, got nil")
	}
}

func Test_VerifySignature_Fails_When_Base64Invalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "payload.bin")

	err := os.WriteFile(path, []byte("payload"), 0o644)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	err = verify.VerifySignature(path, "not valid base64!!")
	if err == nil {
		t.Fatal("VerifySignature: expected error for invalid base64, got nil")
	}
}

func Test_VerifySignature_Fails_When_SignatureWrongLength(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "payload.bin")

	err := os.WriteFile(path, []byte("payload"), 0o644)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	err = verify.VerifySignature(path, base64.StdEncoding.EncodeToString([]byte("too short")))
	if err == nil {
		t.Fatal("VerifySignature: expected error for short signature, got nil")
	}
}
