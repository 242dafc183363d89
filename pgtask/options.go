package pgtask

import "github.com/villekah/pg-promise/monitor"

// Options configures a DB. The zero value is usable with a driver that
// performs its own parameter substitution (NativeFormatting).
type Options struct {
	// Formatter interpolates values into query text. Required for Text
	// and FuncCall queries unless NativeFormatting is set.
	Formatter Formatter

	// NativeFormatting routes parameter substitution to the driver
	// instead of the Formatter. Prepared statements always do this.
	NativeFormatting bool

	// CapitalizeTransactionCommands renders BEGIN/COMMIT/ROLLBACK and
	// the savepoint variants upper-case. Savepoint names stay as-is.
	CapitalizeTransactionCommands bool

	// ConvertRowKeys runs shaped rows through KeyConverter. Both must
	// be set for conversion to happen.
	ConvertRowKeys bool
	KeyConverter   KeyConverter

	// Diagnostics receives swallowed hook failures. Defaults to a
	// stdout JSON client.
	Diagnostics *monitor.Client

	Hooks Hooks
}

// Hooks are the notification points of the engine. Every hook is
// optional. A hook's panic is recovered and routed to Diagnostics and
// never reaches the caller, with one exception: the Query hook, whose
// error or panic aborts the query and becomes its failure.
type Hooks struct {
	// Connect fires after a connection handle is bound to a context.
	Connect func(ev ConnectEvent)

	// Disconnect fires before a bound handle is released.
	Disconnect func(ev ConnectEvent)

	// Query fires before each query execution with the finalized text.
	// Returning an error vetoes the query.
	Query func(ev *QueryEvent) error

	// Task fires when a task body is about to run and again once its
	// outcome has been recorded.
	Task func(ev TaskEvent)

	// Transact is the Task equivalent for transactions.
	Transact func(ev TaskEvent)

	// Error fires whenever a query resolves with an error.
	Error func(err error, ev ErrorEvent)

	// Extend fires for every new task handle, before its body runs.
	Extend func(t *Task)
}

// ConnectEvent accompanies the Connect and Disconnect hooks.
type ConnectEvent struct {
	Handle Handle
}

// QueryEvent accompanies the Query hook. SQL is the finalized text
// about to be executed; Mask is zero for raw and streamed queries.
type QueryEvent struct {
	SQL    string
	Values []any
	Mask   Mask
	Info   *TaskInfo
}

// TaskEvent accompanies the Task and Transact hooks.
type TaskEvent struct {
	Info *TaskInfo
}

// ErrorEvent accompanies the Error hook. Values carries the original
// query values for diagnostics, including on formatting failures.
type ErrorEvent struct {
	SQL    string
	Values []any
	Info   *TaskInfo
}
