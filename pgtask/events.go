package pgtask

import (
	"fmt"

	"github.com/villekah/pg-promise/monitor"
)

// notifier dispatches hooks with total error isolation from the main
// control flow. The one asymmetry: the query hook may veto.
type notifier struct {
	hooks Hooks
	diag  *monitor.Client
}

// safe runs a hook and routes anything it panics with to the
// diagnostics sink. Hook failures never reach the caller.
func (n *notifier) safe(hook string, fn func()) {
	defer func() {
		if p := recover(); p != nil {
			n.diag.Event("hook-panic", map[string]any{
				"hook":  hook,
				"panic": fmt.Sprint(p),
			})
		}
	}()
	fn()
}

func (n *notifier) connect(h Handle) {
	if n.hooks.Connect == nil {
		return
	}
	n.safe("connect", func() { n.hooks.Connect(ConnectEvent{Handle: h}) })
}

func (n *notifier) disconnect(h Handle) {
	if n.hooks.Disconnect == nil {
		return
	}
	n.safe("disconnect", func() { n.hooks.Disconnect(ConnectEvent{Handle: h}) })
}

// query is the veto-capable hook: its error, or whatever it panics
// with, becomes the query's failure.
func (n *notifier) query(ev *QueryEvent) (err error) {
	if n.hooks.Query == nil {
		return nil
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("query hook: %v", p)
		}
	}()
	return n.hooks.Query(ev)
}

func (n *notifier) task(info *TaskInfo) {
	if n.hooks.Task == nil {
		return
	}
	n.safe("task", func() { n.hooks.Task(TaskEvent{Info: info}) })
}

func (n *notifier) transact(info *TaskInfo) {
	if n.hooks.Transact == nil {
		return
	}
	n.safe("transact", func() { n.hooks.Transact(TaskEvent{Info: info}) })
}

func (n *notifier) error(err error, ev ErrorEvent) {
	if n.hooks.Error == nil {
		return
	}
	n.safe("error", func() { n.hooks.Error(err, ev) })
}

func (n *notifier) extend(t *Task) {
	if n.hooks.Extend == nil {
		return
	}
	n.safe("extend", func() { n.hooks.Extend(t) })
}
