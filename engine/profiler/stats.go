package profiler

import (
	"fmt"
	"runtime"
	"time"
)

// ScopeStat aggregates every recorded run of one named scope.
type ScopeStat struct {
	Name  string
	Count int
	Total time.Duration
	Max   time.Duration
}

func (s ScopeStat) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

func (s ScopeStat) String() string {
	return fmt.Sprintf("%s x%d avg %v max %v", s.Name, s.Count, s.Mean(), s.Max)
}

// Runtime readings, available with or without the profile tag.

func MemoryUsage() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc
}

func MemoryAllocs() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Mallocs
}

func NumGoroutine() int { return runtime.NumGoroutine() }
func NumCPU() int       { return runtime.NumCPU() }
