package pgtask

import (
	"context"
	"errors"
	"testing"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/assert/cmp"
)

func TestDB_QueryAcquiresAndReleasesOnce(t *testing.T) {
	ctx := context.Background()
	d := newFakeDriver()
	db := nativeDB(d)

	_, err := db.Query(ctx, Text("select 1"), nil, Any)
	assert.NilError(t, err)
	assert.Check(t, cmp.Equal(d.acquires, 1))
	assert.Check(t, cmp.Equal(d.releases, 1))

	// release also happens on failure
	d.handle.fail["select nope"] = errors.New("boom")
	_, err = db.Query(ctx, Text("select nope"), nil, Any)
	assert.Assert(t, err != nil)
	assert.Check(t, cmp.Equal(d.acquires, 2))
	assert.Check(t, cmp.Equal(d.releases, 2))
}

func TestDB_AcquireFailureIsSurfaced(t *testing.T) {
	ctx := context.Background()
	d := newFakeDriver()
	d.failAcquire = errors.New("pool exhausted")
	db := nativeDB(d)

	_, err := db.Query(ctx, Text("select 1"), nil, Any)
	assert.ErrorContains(t, err, "pool exhausted")

	_, err = db.Connect(ctx)
	assert.ErrorContains(t, err, "pool exhausted")
}

func TestConn_LifecycleAndDone(t *testing.T) {
	ctx := context.Background()
	d := newFakeDriver()
	d.handle.results["select 1"] = []Row{{"x": 1}}
	db := nativeDB(d)

	conn, err := db.Connect(ctx)
	assert.NilError(t, err)
	assert.Check(t, cmp.Equal(d.acquires, 1))

	// several queries reuse the same handle
	for i := 0; i < 3; i++ {
		row, err := conn.One(ctx, Text("select 1"))
		assert.NilError(t, err)
		assert.DeepEqual(t, row, Row{"x": 1})
	}
	assert.Check(t, cmp.Equal(d.acquires, 1))
	assert.Check(t, cmp.Equal(d.releases, 0))

	conn.Done()
	assert.Check(t, cmp.Equal(d.releases, 1))

	// Done is idempotent
	conn.Done()
	assert.Check(t, cmp.Equal(d.releases, 1))

	_, err = conn.One(ctx, Text("select 1"))
	assert.Assert(t, errors.Is(err, ErrNoConnection))
}

func TestConn_TaskAndTxBorrowTheConnection(t *testing.T) {
	ctx := context.Background()
	d := newFakeDriver()
	db := nativeDB(d)

	conn, err := db.Connect(ctx)
	assert.NilError(t, err)
	defer conn.Done()

	_, err = conn.Tx(ctx, TxOptions{}, Func(func(ctx context.Context, t *Task) (any, error) {
		return nil, t.None(ctx, Text("delete from peeps"))
	}))
	assert.NilError(t, err)

	_, err = conn.Task(ctx, TaskOptions{}, Func(func(ctx context.Context, t *Task) (any, error) {
		return t.ManyOrNone(ctx, Text("select 2"))
	}))
	assert.NilError(t, err)

	// everything ran on the single caller-managed connection
	assert.Check(t, cmp.Equal(d.acquires, 1))
	assert.Check(t, cmp.Equal(d.releases, 0))
	assert.DeepEqual(t, d.handle.commands,
		[]string{"begin", "delete from peeps", "commit", "select 2"})
}

func TestDB_ExtendHookSeesEveryTaskHandle(t *testing.T) {
	ctx := context.Background()
	d := newFakeDriver()

	var handles []*Task
	db := newTestDB(d, Options{
		NativeFormatting: true,
		Hooks:            Hooks{Extend: func(t *Task) { handles = append(handles, t) }},
	})

	_, err := db.Task(ctx, TaskOptions{}, Func(func(ctx context.Context, t *Task) (any, error) {
		return t.Tx(ctx, TxOptions{}, Func(func(context.Context, *Task) (any, error) {
			return nil, nil
		}))
	}))
	assert.NilError(t, err)
	assert.Assert(t, cmp.Len(handles, 2))
	assert.Check(t, !handles[0].InTx())
	assert.Check(t, handles[1].InTx())
}

func TestDB_DefaultsDiagnostics(t *testing.T) {
	db := New(newFakeDriver(), Options{})
	assert.Assert(t, db.opts.Diagnostics != nil)
}
