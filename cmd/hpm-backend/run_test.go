package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func Test_Run_ReturnsInvalidArgs_When_NoCommandGiven(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	code := Run(nil, &stdout, &stderr, []string{"hpm-backend"}, map[string]string{})

	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}

	assertErrEnvelope(t, stderr.String(), 1)
}

func Test_Run_ReturnsUnknownCommand_When_CommandUnrecognized(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	code := Run(nil, &stdout, &stderr, []string{"hpm-backend", "frobnicate"}, map[string]string{})

	if code != 99 {
		t.Fatalf("exit code = %d, want 99", code)
	}

	assertErrEnvelope(t, stderr.String(), 99)
}

func Test_Run_Install_ReturnsInvalidArgs_When_UnderSuppliedArity(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	code := Run(nil, &stdout, &stderr, []string{"hpm-backend", "install", "foo", "1.0"}, map[string]string{})

	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}

	assertErrEnvelope(t, stderr.String(), 1)
}

func Test_Run_Verify_ReturnsVerificationFailed_When_ChecksumWrong(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var stdout, stderr bytes.Buffer

	code := Run(nil, &stdout, &stderr, []string{"hpm-backend", "verify", dir, "deadbeef"}, map[string]string{})

	if code != 6 {
		t.Fatalf("exit code = %d, want 6", code)
	}

	assertErrEnvelope(t, stderr.String(), 6)
}

func assertErrEnvelope(t *testing.T, stderr string, wantCode int) {
	t.Helper()

	var payload struct {
		Err struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"err"`
	}

	if err := json.Unmarshal([]byte(strings.TrimSpace(stderr)), &payload); err != nil {
		t.Fatalf("stderr is not valid JSON: %v (%q)", err, stderr)
	}

	if payload.Err.Code != wantCode {
		t.Fatalf("err.code = %d, want %d", payload.Err.Code, wantCode)
	}

	if payload.Err.Message == "" {
		t.Fatal("err.message is empty")
	}
}
