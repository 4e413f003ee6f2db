package profiler

import (
	"testing"
	"time"
)

func TestScopeStatMean(t *testing.T) {
	s := ScopeStat{Name: "gui.Update", Count: 4, Total: 8 * time.Millisecond, Max: 3 * time.Millisecond}
	if got := s.Mean(); got != 2*time.Millisecond {
		t.Errorf("Mean = %v, want 2ms", got)
	}
	if got := (ScopeStat{}).Mean(); got != 0 {
		t.Errorf("empty Mean = %v, want 0", got)
	}
	if got, want := s.String(), "gui.Update x4 avg 2ms max 3ms"; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}

func TestStartIsSafeBeforeInit(t *testing.T) {
	end := Start("scope")
	end()
	if Enabled {
		return
	}
	if s := Summary(); s != nil {
		t.Errorf("disabled Summary = %v, want nil", s)
	}
}
