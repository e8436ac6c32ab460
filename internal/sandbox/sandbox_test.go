//go:build linux

package sandbox

import (
	"encoding/json"
	"testing"

	"github.com/HackerOS-Linux-System/hpm-backend/internal/manifest"
)

func Test_JoinWithAnd_Joins_MultipleCommands(t *testing.T) {
	t.Parallel()

	got := joinWithAnd([]string{"echo a", "echo b", "echo c"})

	want := "echo a && echo b && echo c"
	if got != want {
		t.Fatalf("joinWithAnd() = %q, want %q", got, want)
	}
}

func Test_JoinWithAnd_ReturnsSingleCommand_When_OneElement(t *testing.T) {
	t.Parallel()

	got := joinWithAnd([]string{"echo a"})

	if got != "echo a" {
		t.Fatalf("joinWithAnd() = %q, want %q", got, "echo a")
	}
}

func Test_SyscallsFor_Standard_IsSuperset_Of_Strict(t *testing.T) {
	t.Parallel()

	strict := syscallsFor(ProfileStrict)
	standard := syscallsFor(ProfileStandard)

	strictSet := make(map[string]bool, len(strict))
	for _, s := range strict {
		strictSet[s] = true
	}

	standardSet := make(map[string]bool, len(standard))
	for _, s := range standard {
		standardSet[s] = true
	}

	for s := range strictSet {
		if !standardSet[s] {
			t.Fatalf("standard profile is missing strict syscall %q", s)
		}
	}

	if len(standard) <= len(strict) {
		t.Fatalf("standard profile (%d syscalls) is not wider than strict (%d)", len(standard), len(strict))
	}
}

func Test_NewRootDir_Includes_Pid(t *testing.T) {
	t.Parallel()

	got := newRootDir(4242)

	want := "/tmp/hpm_newroot_4242"
	if got != want {
		t.Fatalf("newRootDir(4242) = %q, want %q", got, want)
	}
}

func Test_Policy_RoundTrips_Through_JSON(t *testing.T) {
	t.Parallel()

	p := Policy{
		PackageName: "foo",
		Path:        "/tmp/stage",
		Sandbox: manifest.Sandbox{
			Network:    true,
			GUI:        false,
			Dev:        true,
			Filesystem: []string{"/data"},
		},
		Mode:            ModeRun,
		InstallCommands: []string{"echo hi"},
		Bin:             "foo-bin",
		ExtraArgs:       []string{"--flag"},
		Display:         ":0",
		Profile:         ProfileStandard,
	}

	data, err := json.Marshal(&p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Policy

	err = json.Unmarshal(data, &got)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.PackageName != p.PackageName || got.Bin != p.Bin || got.Mode != p.Mode {
		t.Fatalf("Policy did not round-trip: got %+v, want %+v", got, p)
	}

	if got.Sandbox.Network != p.Sandbox.Network || got.Sandbox.Dev != p.Sandbox.Dev {
		t.Fatalf("Sandbox policy did not round-trip: got %+v, want %+v", got.Sandbox, p.Sandbox)
	}
}

func Test_IsChildInvocation_Detects_Sentinel(t *testing.T) {
	t.Parallel()

	if IsChildInvocation(map[string]string{}) {
		t.Fatal("IsChildInvocation() = true for empty env, want false")
	}

	if !IsChildInvocation(map[string]string{EnvChildSentinel: "1"}) {
		t.Fatal("IsChildInvocation() = false when sentinel set, want true")
	}

	if IsChildInvocation(map[string]string{EnvChildSentinel: "0"}) {
		t.Fatal("IsChildInvocation() = true for sentinel=0, want false")
	}
}
