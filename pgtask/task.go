package pgtask

import (
	"context"
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskInfo is the read-only metadata exposed to a task body. The
// completion fields are recorded exactly once when the body finishes;
// after that the object never changes.
type TaskInfo struct {
	id     uuid.UUID
	isTx   bool
	tag    any
	parent *TaskInfo
	start  time.Time

	finished bool
	finish   time.Time
	success  bool
	result   any
	err      error
}

func newTaskInfo(isTx bool, tag any, parent *TaskInfo) *TaskInfo {
	return &TaskInfo{
		id:     uuid.New(),
		isTx:   isTx,
		tag:    tag,
		parent: parent,
	}
}

func (i *TaskInfo) ID() uuid.UUID     { return i.id }
func (i *TaskInfo) IsTx() bool        { return i.isTx }
func (i *TaskInfo) Tag() any          { return i.tag }
func (i *TaskInfo) Parent() *TaskInfo { return i.parent }

// Start is the moment the body began running.
func (i *TaskInfo) Start() time.Time { return i.start }

func (i *TaskInfo) Finished() bool    { return i.finished }
func (i *TaskInfo) Finish() time.Time { return i.finish }
func (i *TaskInfo) Succeeded() bool   { return i.finished && i.success }

// Result is the body's return value; valid once Finished and Succeeded.
func (i *TaskInfo) Result() any { return i.result }

// Err is the body's failure; valid once Finished and not Succeeded.
func (i *TaskInfo) Err() error { return i.err }

func (i *TaskInfo) begin() {
	i.start = time.Now()
}

// complete records the outcome exactly once; later calls are ignored.
func (i *TaskInfo) complete(result any, err error) {
	if i.finished {
		return
	}
	i.finished = true
	i.finish = time.Now()
	i.success = err == nil
	i.result = result
	i.err = err
}

// Task is the handle a body uses to issue queries and nested work on
// the borrowed connection.
type Task struct {
	db *DB
	cc *connCtx
}

// Info returns the metadata of this task.
func (t *Task) Info() *TaskInfo {
	return t.cc.info
}

// InTx reports whether this task runs inside a transaction.
func (t *Task) InTx() bool {
	return t.cc.inTx
}

// Query runs q with the given mask on the task's connection.
func (t *Task) Query(ctx context.Context, q Query, values []any, m Mask) (any, error) {
	return t.db.execShaped(ctx, t.cc, q, values, m)
}

// One expects exactly one row.
func (t *Task) One(ctx context.Context, q Query, values ...any) (Row, error) {
	return rowResult(t.Query(ctx, q, values, One))
}

// OneOrNone expects at most one row; nil when there is none.
func (t *Task) OneOrNone(ctx context.Context, q Query, values ...any) (Row, error) {
	return rowResult(t.Query(ctx, q, values, One|None))
}

// Many expects one or more rows.
func (t *Task) Many(ctx context.Context, q Query, values ...any) ([]Row, error) {
	return rowsResult(t.Query(ctx, q, values, Many))
}

// ManyOrNone expects any number of rows, possibly none.
func (t *Task) ManyOrNone(ctx context.Context, q Query, values ...any) ([]Row, error) {
	return rowsResult(t.Query(ctx, q, values, Any))
}

// None expects no rows.
func (t *Task) None(ctx context.Context, q Query, values ...any) error {
	_, err := t.Query(ctx, q, values, None)
	return err
}

// Any places no expectation on the result shape.
func (t *Task) Any(ctx context.Context, q Query, values ...any) (any, error) {
	return t.Query(ctx, q, values, Any)
}

// QueryRaw runs q and returns the driver's native result, unshaped.
func (t *Task) QueryRaw(ctx context.Context, q Query, values ...any) (*Result, error) {
	return t.db.execRaw(ctx, t.cc, q, values)
}

// Stream forwards each result row to fn without materialising the full
// set, returning the number of rows forwarded.
func (t *Task) Stream(ctx context.Context, q Query, values []any, fn RowFunc) (int, error) {
	return t.db.execStream(ctx, t.cc, q, values, fn)
}

// Task runs a nested task on the same connection.
func (t *Task) Task(ctx context.Context, opts TaskOptions, body Body) (any, error) {
	return t.db.runTask(ctx, t.cc, opts, body)
}

// Tx runs a nested transaction on the same connection, emulated with a
// savepoint when this task is already transactional.
func (t *Task) Tx(ctx context.Context, opts TxOptions, body Body) (any, error) {
	return t.db.runTx(ctx, t.cc, opts, body)
}

func rowResult(v any, err error) (Row, error) {
	if err != nil || v == nil {
		return nil, err
	}
	return v.(Row), nil
}

func rowsResult(v any, err error) ([]Row, error) {
	if err != nil {
		return nil, err
	}
	return v.([]Row), nil
}

// TaskOptions configures a task.
type TaskOptions struct {
	// Tag overrides the body's own tag in the task metadata.
	Tag any
}

// TxOptions configures a transaction.
type TxOptions struct {
	Tag any

	// Mode renders the opening command of a top-level transaction.
	// Ignored for nested transactions, which open a savepoint.
	Mode *TxMode
}

// resolveTag applies the precedence: explicit option tag, then the
// body's attached tag, then the body function's own name.
func resolveTag(explicit any, b Body) any {
	if explicit != nil {
		return explicit
	}
	if b.tag != nil {
		return b.tag
	}
	if b.fn != nil {
		if name := funcName(b.fn); name != "" {
			return name
		}
	}
	return nil
}

func funcName(fn TaskFunc) string {
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return ""
	}
	name := f.Name()
	name = name[strings.LastIndexByte(name, '.')+1:]
	name = strings.TrimSuffix(name, "-fm")
	if anonymousFunc(name) {
		return ""
	}
	return name
}

// anonymousFunc reports a compiler-generated closure name like func1.
func anonymousFunc(name string) bool {
	if !strings.HasPrefix(name, "func") {
		return false
	}
	rest := name[len("func"):]
	if rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
