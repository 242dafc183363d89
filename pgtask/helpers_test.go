package pgtask

import (
	"context"
	"io"

	"github.com/villekah/pg-promise/monitor"
)

// fakeDriver serves a scripted in-process handle and counts the
// acquire/release lifecycle.
type fakeDriver struct {
	handle      *fakeHandle
	acquires    int
	releases    int
	failAcquire error
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{handle: newFakeHandle()}
}

func (d *fakeDriver) Acquire(context.Context) (Handle, ReleaseFunc, error) {
	if d.failAcquire != nil {
		return nil, nil, d.failAcquire
	}
	d.acquires++
	return d.handle, func() { d.releases++ }, nil
}

// fakeHandle records every executed command and serves scripted rows
// or failures keyed by SQL text.
type fakeHandle struct {
	commands []string
	args     map[string][]any
	results  map[string][]Row
	fail     map[string]error
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{
		args:    map[string][]any{},
		results: map[string][]Row{},
		fail:    map[string]error{},
	}
}

func (h *fakeHandle) Exec(_ context.Context, sql string, args []any) (*Result, error) {
	h.commands = append(h.commands, sql)
	h.args[sql] = args
	if err := h.fail[sql]; err != nil {
		return nil, err
	}
	return &Result{Rows: h.results[sql]}, nil
}

// streamingHandle additionally implements RowStreamer.
type streamingHandle struct {
	*fakeHandle
	streamed int
}

func (h *streamingHandle) Stream(_ context.Context, sql string, _ []any, fn RowFunc) error {
	h.commands = append(h.commands, sql)
	h.streamed++
	for _, r := range h.results[sql] {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func newTestDB(d Driver, opts Options) *DB {
	if opts.Diagnostics == nil {
		opts.Diagnostics = monitor.NewWriter(io.Discard)
	}
	return New(d, opts)
}

// nativeDB is the common fixture: driver-native substitution, quiet
// diagnostics.
func nativeDB(d Driver) *DB {
	return newTestDB(d, Options{NativeFormatting: true})
}
