package main

import (
	"os"
	"strings"

	"github.com/HackerOS-Linux-System/hpm-backend/internal/sandbox"
)

func main() {
	env := environToMap(os.Environ())

	if sandbox.IsChildInvocation(env) {
		os.Exit(sandbox.RunChild(env))
	}

	os.Exit(Run(os.Stdin, os.Stdout, os.Stderr, os.Args, env))
}

func environToMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))

	for _, kv := range environ {
		k, v, _ := strings.Cut(kv, "=")
		m[k] = v
	}

	return m
}
