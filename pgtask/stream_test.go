package pgtask

import (
	"context"
	"errors"
	"testing"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/assert/cmp"
)

func TestStream_UsesStreamingHandle(t *testing.T) {
	ctx := context.Background()
	h := &streamingHandle{fakeHandle: newFakeHandle()}
	h.results["select * from peeps"] = []Row{{"x": 1}, {"x": 2}, {"x": 3}}
	db := nativeDB(&streamingDriver{inner: newFakeDriver(), handle: h})

	var seen []Row
	n, err := db.Stream(ctx, Text("select * from peeps"), nil, func(r Row) error {
		seen = append(seen, r)
		return nil
	})
	assert.NilError(t, err)
	assert.Check(t, cmp.Equal(n, 3))
	assert.Check(t, cmp.Equal(h.streamed, 1))
	assert.DeepEqual(t, seen, h.results["select * from peeps"])
}

// streamingDriver serves a handle that implements RowStreamer.
type streamingDriver struct {
	inner  *fakeDriver
	handle *streamingHandle
}

func (d *streamingDriver) Acquire(ctx context.Context) (Handle, ReleaseFunc, error) {
	_, release, err := d.inner.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}
	return d.handle, release, nil
}

func TestStream_FallsBackToMaterialisedResult(t *testing.T) {
	ctx := context.Background()
	d := newFakeDriver()
	d.handle.results["select * from peeps"] = []Row{{"x": 1}, {"x": 2}}
	db := nativeDB(d)

	var seen []Row
	n, err := db.Stream(ctx, Text("select * from peeps"), nil, func(r Row) error {
		seen = append(seen, r)
		return nil
	})
	assert.NilError(t, err)
	assert.Check(t, cmp.Equal(n, 2))
	assert.Check(t, cmp.Len(seen, 2))
}

func TestStream_ReceiverErrorStopsTheStream(t *testing.T) {
	ctx := context.Background()
	d := newFakeDriver()
	d.handle.results["select * from peeps"] = []Row{{"x": 1}, {"x": 2}, {"x": 3}}
	db := nativeDB(d)

	stop := errors.New("enough")
	var seen int
	n, err := db.Stream(ctx, Text("select * from peeps"), nil, func(Row) error {
		seen++
		if seen == 2 {
			return stop
		}
		return nil
	})
	assert.Assert(t, errors.Is(err, stop))
	assert.Check(t, cmp.Equal(n, 2))
	assert.Check(t, cmp.Equal(seen, 2))
}

func TestStream_CountIncludesOnlyForwardedRows(t *testing.T) {
	ctx := context.Background()
	d := newFakeDriver()
	db := nativeDB(d)

	n, err := db.Stream(ctx, Text("select * from nothing"), nil, func(Row) error {
		t.Fatal("no rows expected")
		return nil
	})
	assert.NilError(t, err)
	assert.Check(t, cmp.Equal(n, 0))
}

func TestStream_InsideTask(t *testing.T) {
	ctx := context.Background()
	d := newFakeDriver()
	d.handle.results["select * from peeps"] = []Row{{"x": 1}}
	db := nativeDB(d)

	result, err := db.Task(ctx, TaskOptions{}, Func(func(ctx context.Context, tk *Task) (any, error) {
		return tk.Stream(ctx, Text("select * from peeps"), nil, func(Row) error { return nil })
	}))
	assert.NilError(t, err)
	assert.Check(t, cmp.Equal(result, 1))
	assert.Check(t, cmp.Equal(d.acquires, 1))
}
