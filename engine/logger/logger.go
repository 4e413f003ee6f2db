// Package logger is the engine's central log. Entries are "tag: detail"
// lines; consecutive duplicates are folded into one entry with a repeat
// count so a fault that fires every frame does not flood the log.
//
// Entries can optionally be echoed through the standard library logger.
package logger

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"
)

// Entry is a single line in the log.
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string
	Repeated  int
}

func (e Entry) String() string {
	s := strings.Builder{}
	s.WriteString(e.Tag)
	s.WriteString(": ")
	s.WriteString(e.Detail)
	if e.Repeated > 0 {
		fmt.Fprintf(&s, " (repeat x%d)", e.Repeated+1)
	}
	s.WriteString("\n")
	return s.String()
}

type central struct {
	mu         sync.Mutex
	maxEntries int
	entries    []Entry
	echo       *log.Logger
}

// maximum number of entries kept in the central log.
const maxEntries = 512

var c = &central{maxEntries: maxEntries}

func (l *central) log(tag, detail string) {
	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", " ")

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if n := len(l.entries); n > 0 && l.entries[n-1].Tag == tag && l.entries[n-1].Detail == detail {
		l.entries[n-1].Repeated++
		l.entries[n-1].Timestamp = now
	} else {
		l.entries = append(l.entries, Entry{Timestamp: now, Tag: tag, Detail: detail})
		if len(l.entries) > l.maxEntries {
			l.entries = l.entries[len(l.entries)-l.maxEntries:]
		}
	}

	if l.echo != nil {
		l.echo.Printf("%s: %s", tag, detail)
	}
}

// Log adds an entry to the central log.
func Log(tag, detail string) { c.log(tag, detail) }

// Logf adds a formatted entry to the central log.
func Logf(tag, detail string, args ...any) { c.log(tag, fmt.Sprintf(detail, args...)) }

// SetEcho mirrors every new entry to w through a standard library logger.
// A nil writer turns echoing off.
func SetEcho(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if w == nil {
		c.echo = nil
		return
	}
	c.echo = log.New(w, "", log.LstdFlags)
}

// Clear all entries.
func Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = c.entries[:0]
}

// Entries returns a copy of the log.
func Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Write the whole log to output.
func Write(output io.Writer) {
	for _, e := range Entries() {
		io.WriteString(output, e.String())
	}
}

// Tail writes the last n entries to output.
func Tail(output io.Writer, n int) {
	entries := Entries()
	if n > len(entries) {
		n = len(entries)
	}
	if n < 0 {
		n = 0
	}
	for _, e := range entries[len(entries)-n:] {
		io.WriteString(output, e.String())
	}
}
