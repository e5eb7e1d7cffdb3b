package profile

import (
	"slices"
	"testing"
)

func TestProfiler_Start_EmptyMode(t *testing.T) {
	s := Profiler{Path: t.TempDir()}.Start()
	if _, ok := s.(ignore); !ok {
		t.Fatalf("Start() with empty mode = %T, want no-op", s)
	}

	s.Stop()
}

func TestProfiler_Start_UnknownMode(t *testing.T) {
	s := Profiler{Mode: "no-such-mode", Path: t.TempDir(), Quiet: true}.Start()
	if _, ok := s.(ignore); !ok {
		t.Fatalf("Start() with unknown mode = %T, want no-op", s)
	}

	s.Stop()
}

func TestModes(t *testing.T) {
	modes := Modes()

	if Enabled() != (len(modes) > 0) {
		t.Errorf("Enabled() = %v with %d modes", Enabled(), len(modes))
	}

	if !slices.IsSorted(modes) {
		t.Errorf("Modes() not sorted: %v", modes)
	}
}
