package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/HackerOS-Linux-System/hpm-backend/internal/store"
)

func Test_Load_Returns_Empty_When_FileAbsent(t *testing.T) {
	t.Parallel()

	s := store.New(filepath.Join(t.TempDir(), "state.json"))

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff(map[string]map[string]string{}, got.Packages); diff != "" {
		t.Fatalf("Packages mismatch (-want +got):\n%s", diff)
	}
}

func Test_Load_Fails_When_FileIsMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")

	s := store.New(path)

	err := s.Save(&store.State{Packages: map[string]map[string]string{"foo": {"1.0": "abc"}}})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Corrupt the file directly; Load must surface the failure rather than
	// attempt any repair.
	err = os.WriteFile(path, []byte("{not json"), 0o644)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err = s.Load()
	if err == nil {
		t.Fatal("Load: expected error for malformed state file, got nil")
	}
}

func Test_Update_Creates_Then_Overwrites_Version(t *testing.T) {
	t.Parallel()

	s := store.New(filepath.Join(t.TempDir(), "state.json"))

	err := s.Update("foo", "1.0", "checksum-a")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	err = s.Update("foo", "1.0", "checksum-b")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := map[string]map[string]string{"foo": {"1.0": "checksum-b"}}
	if diff := cmp.Diff(want, got.Packages); diff != "" {
		t.Fatalf("Packages mismatch (-want +got):\n%s", diff)
	}
}

func Test_Update_Keeps_Other_Versions_Of_Same_Package(t *testing.T) {
	t.Parallel()

	s := store.New(filepath.Join(t.TempDir(), "state.json"))

	err := s.Update("foo", "1.0", "checksum-a")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	err = s.Update("foo", "2.0", "checksum-b")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := map[string]map[string]string{"foo": {"1.0": "checksum-a", "2.0": "checksum-b"}}
	if diff := cmp.Diff(want, got.Packages); diff != "" {
		t.Fatalf("Packages mismatch (-want +got):\n%s", diff)
	}
}

func Test_Remove_Deletes_Package_Key_When_LastVersionRemoved(t *testing.T) {
	t.Parallel()

	s := store.New(filepath.Join(t.TempDir(), "state.json"))

	err := s.Update("foo", "1.0", "checksum-a")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	err = s.Remove("foo", "1.0")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, ok := got.Packages["foo"]; ok {
		t.Fatalf("Packages still contains %q after removing its last version", "foo")
	}
}

func Test_Remove_Keeps_Package_Key_When_OtherVersionsRemain(t *testing.T) {
	t.Parallel()

	s := store.New(filepath.Join(t.TempDir(), "state.json"))

	err := s.Update("foo", "1.0", "checksum-a")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	err = s.Update("foo", "2.0", "checksum-b")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	err = s.Remove("foo", "1.0")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := map[string]map[string]string{"foo": {"2.0": "checksum-b"}}
	if diff := cmp.Diff(want, got.Packages); diff != "" {
		t.Fatalf("Packages mismatch (-want +got):\n%s", diff)
	}
}

func Test_Save_Is_Atomic_NoTmpFileLeftBehind(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s := store.New(path)

	err := s.Save(&store.State{Packages: map[string]map[string]string{}})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	matches, err := filepath.Glob(path + "*")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}

	if len(matches) != 1 || matches[0] != path {
		t.Fatalf("Glob(%q*) = %v, want exactly [%q]", path, matches, path)
	}
}
