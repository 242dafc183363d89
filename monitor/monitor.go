/*
Package monitor is the diagnostics sink for the library.

Recovered hook failures and other conditions that must never reach the
caller are reported here as JSON events, one object per line.
*/
package monitor

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Client emits diagnostic events. The zero value is not usable; use
// New or NewWriter.
type Client struct {
	mu  sync.Mutex
	out io.Writer
}

// New returns a client writing to stdout.
func New() *Client {
	return &Client{out: os.Stdout}
}

// NewWriter returns a client writing to w. Used in tests to capture
// the diagnostic stream.
func NewWriter(w io.Writer) *Client {
	return &Client{out: w}
}

type event struct {
	ID     uuid.UUID      `json:"id"`
	Time   time.Time      `json:"time"`
	Name   string         `json:"name"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Event records a single diagnostic event.
func (c *Client) Event(name string, fields map[string]any) {
	e := event{
		ID:     uuid.New(),
		Time:   time.Now(),
		Name:   name,
		Fields: fields,
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	// an unwritable sink must not take the caller down with it
	_ = json.NewEncoder(c.out).Encode(e)
}
