//go:build profile

package profiler

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const Enabled = true

// Init must be called once on app start with a capacity in events. Each
// scope records two.
func Init(capacity int) {
	if capacity <= 0 {
		capacity = 1 << 20
	}
	ring.init(capacity)
}

// Start begins a scope and returns an end func to be deferred.
func Start(name string) func() {
	if !ring.ready.Load() {
		return func() {}
	}
	fid := intern(name)
	start := time.Now().UnixNano()
	ring.push(event{AtNS: start, Frame: fid, Open: true})
	return func() {
		end := time.Now().UnixNano()
		if end < start {
			end = start
		}
		ring.push(event{AtNS: end, Frame: fid, Open: false})
	}
}

// Summary aggregates the recorded scopes, slowest total first.
func Summary() []ScopeStat {
	evs := ring.snapshot()
	names := frameNames()
	stats := map[int]*ScopeStat{}
	var stack []event
	for _, e := range evs {
		if e.Open {
			stack = append(stack, e)
			continue
		}
		if len(stack) == 0 || stack[len(stack)-1].Frame != e.Frame {
			continue
		}
		open := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := stats[e.Frame]
		if s == nil {
			s = &ScopeStat{Name: names[e.Frame]}
			stats[e.Frame] = s
		}
		d := time.Duration(e.AtNS - open.AtNS)
		s.Count++
		s.Total += d
		s.Max = max(s.Max, d)
	}
	out := make([]ScopeStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Dump writes the recorded scopes to path as an evented speedscope profile.
func Dump(path string) error {
	evs := ring.snapshot()
	if len(evs) == 0 {
		return fmt.Errorf("profiler: no events to dump")
	}
	return writeSpeedscope(evs, path)
}

// OpenProfilerGraph dumps into the temp dir and opens the file in speedscope.
func OpenProfilerGraph() (string, error) {
	path := filepath.Join(os.TempDir(), "grove.profile.speedscope.json")
	if err := Dump(path); err != nil {
		return "", err
	}

	cmd := exec.Command("speedscope", path)
	if runtime.GOOS == "windows" {
		cmd.SysProcAttr = hideWindowAttr()
	}
	if err := cmd.Start(); err != nil {
		return path, fmt.Errorf("launch speedscope: %w", err)
	}
	return path, nil
}

// ---------- event ring ----------

type event struct {
	AtNS  int64
	Frame int
	Open  bool
}

type eventRing struct {
	ready atomic.Bool
	cap   uint64
	write atomic.Uint64
	evs   []event
}

func (r *eventRing) init(capacity int) {
	r.cap = uint64(capacity)
	r.evs = make([]event, r.cap)
	r.write.Store(0)
	r.ready.Store(true)
}

func (r *eventRing) push(e event) {
	i := r.write.Add(1) - 1
	r.evs[i%r.cap] = e
}

// snapshot returns the retained events in write order.
func (r *eventRing) snapshot() []event {
	if !r.ready.Load() {
		return nil
	}
	n := r.write.Load()
	start := uint64(0)
	if n > r.cap {
		start = n - r.cap
	}
	out := make([]event, 0, n-start)
	for k := start; k < n; k++ {
		out = append(out, r.evs[k%r.cap])
	}
	return out
}

var ring eventRing

// ---------- scope names ----------

var (
	muFrames sync.Mutex
	frames   []string
	index    = map[string]int{}
)

func intern(name string) int {
	muFrames.Lock()
	defer muFrames.Unlock()
	if id, ok := index[name]; ok {
		return id
	}
	id := len(frames)
	index[name] = id
	frames = append(frames, name)
	return id
}

func frameNames() []string {
	muFrames.Lock()
	defer muFrames.Unlock()
	return append([]string(nil), frames...)
}

// ---------- speedscope ----------

type ssFile struct {
	Schema             string      `json:"$schema"`
	Shared             ssShared    `json:"shared"`
	Profiles           []ssProfile `json:"profiles"`
	ActiveProfileIndex int         `json:"activeProfileIndex"`
	Exporter           string      `json:"exporter,omitempty"`
	Name               string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"` // "O" or "C"
	At    int64  `json:"at"`   // µs since the first event
	Frame int    `json:"frame"`
}

func writeSpeedscope(evs []event, path string) error {
	names := frameNames()
	fs := make([]ssFrame, len(names))
	for i, n := range names {
		fs[i] = ssFrame{Name: n}
	}

	base := evs[0].AtNS
	out := make([]ssEvent, 0, len(evs)+16)
	stack := make([]int, 0, 64)
	lastUS := int64(0)
	for _, e := range evs {
		// keep timestamps monotonic
		atUS := max((e.AtNS-base)/1000, lastUS)
		if e.Open {
			out = append(out, ssEvent{Type: "O", At: atUS, Frame: e.Frame})
			stack = append(stack, e.Frame)
		} else {
			// closes whose open fell out of the ring
			if len(stack) == 0 || stack[len(stack)-1] != e.Frame {
				continue
			}
			stack = stack[:len(stack)-1]
			out = append(out, ssEvent{Type: "C", At: atUS, Frame: e.Frame})
		}
		lastUS = atUS
	}
	// speedscope wants balanced events
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, ssEvent{Type: "C", At: lastUS, Frame: stack[i]})
	}
	if len(out) == 0 {
		return fmt.Errorf("profiler: no usable events after filtering")
	}

	doc := ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: fs},
		Profiles: []ssProfile{{
			Type:     "evented",
			Name:     "grove",
			Unit:     "microseconds",
			EndValue: lastUS,
			Events:   out,
		}},
		Exporter: "grove-profiler",
		Name:     "grove capture",
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&doc); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
