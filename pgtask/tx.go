package pgtask

import (
	"context"
	"fmt"
)

// txCommands returns the open/commit/rollback command triple. A nested
// transaction uses a savepoint named after the enclosing transaction's
// depth: the first nested transaction uses level_0. Keywords are
// capitalized uniformly per the configuration flag.
func txCommands(nested bool, spLevel int, mode *TxMode, capitalize bool) (open, commit, rollback string) {
	if !nested {
		open, commit, rollback = "begin", "commit", "rollback"
		if capitalize {
			open, commit, rollback = "BEGIN", "COMMIT", "ROLLBACK"
		}
		if mode != nil {
			open = mode.Begin(capitalize)
		}
		return open, commit, rollback
	}

	name := fmt.Sprintf("level_%d", spLevel)
	open = "savepoint " + name
	commit = "release savepoint " + name
	rollback = "rollback to savepoint " + name
	if capitalize {
		// keywords only; the savepoint name stays as-is
		open = "SAVEPOINT " + name
		commit = "RELEASE SAVEPOINT " + name
		rollback = "ROLLBACK TO SAVEPOINT " + name
	}
	return open, commit, rollback
}

// command issues a transaction command directly on the handle.
func (cc *connCtx) command(ctx context.Context, cmd string) error {
	_, err := cc.handle.Exec(ctx, cmd, nil)
	if err != nil {
		return &CommandError{Command: cmd, Err: err}
	}
	return nil
}

// runTask acquires a connection (or inherits the parent's), runs the
// body through the adapter and guarantees release.
func (db *DB) runTask(ctx context.Context, parent *connCtx, opts TaskOptions, body Body) (any, error) {
	if body.empty() {
		return nil, ErrNoBody
	}
	info := newTaskInfo(false, resolveTag(opts.Tag, body), infoOf(parent))

	return db.withConn(ctx, parent, false, info, func(cc *connCtx) (any, error) {
		t := &Task{db: db, cc: cc}
		db.events.extend(t)

		info.begin()
		db.events.task(info)
		defer db.events.task(info)

		result, err := body.run(ctx, t)
		info.complete(result, err)
		return result, err
	})
}

// runTx wraps runTask's connection handling in the transaction state
// machine: open, run, then commit or roll back based on the outcome.
func (db *DB) runTx(ctx context.Context, parent *connCtx, opts TxOptions, body Body) (any, error) {
	if body.empty() {
		return nil, ErrNoBody
	}
	info := newTaskInfo(true, resolveTag(opts.Tag, body), infoOf(parent))
	nested := parent != nil && parent.inTx

	return db.withConn(ctx, parent, true, info, func(cc *connCtx) (any, error) {
		spLevel := 0
		if nested {
			spLevel = cc.depth - 1
		}
		open, commit, rollback := txCommands(nested, spLevel, opts.Mode, db.opts.CapitalizeTransactionCommands)

		t := &Task{db: db, cc: cc}
		db.events.extend(t)

		info.begin()
		db.events.transact(info)
		defer db.events.transact(info)

		// opening failure is fatal; there is nothing to roll back
		if err := cc.command(ctx, open); err != nil {
			info.complete(nil, err)
			return nil, err
		}

		result, err := db.runTxBody(ctx, t, body, rollback)
		if err == nil {
			if cerr := cc.command(ctx, commit); cerr != nil {
				info.complete(nil, cerr)
				return nil, cerr
			}
			info.complete(result, nil)
			return result, nil
		}

		// the body failed: roll back and surface the original error,
		// unless the rollback itself fails, which then supersedes it
		if rerr := cc.command(ctx, rollback); rerr != nil {
			err = rerr
		}
		info.complete(nil, err)
		return nil, err
	})
}

// runTxBody runs the body, rolling back and re-panicking if the body
// panics. The connection release still happens through the deferred
// path in withConn.
func (db *DB) runTxBody(ctx context.Context, t *Task, body Body, rollback string) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			_ = t.cc.command(ctx, rollback)
			t.cc.info.complete(nil, fmt.Errorf("task body panic: %v", p))
			panic(p)
		}
	}()
	return body.run(ctx, t)
}

// withConn runs fn with a connection-bound child context. When the
// parent holds a connection the child borrows it; otherwise one is
// acquired here and released on the way out, exactly once, whatever
// the body does.
func (db *DB) withConn(ctx context.Context, parent *connCtx, forTx bool, info *TaskInfo,
	fn func(cc *connCtx) (any, error)) (any, error) {

	if parent != nil && parent.connected() {
		return fn(parent.clone(forTx, info))
	}

	cc := &connCtx{db: db, inTx: forTx, info: info}
	h, release, err := db.driver.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not acquire a connection: %w", err)
	}
	if err := cc.connect(h, release); err != nil {
		release()
		return nil, err
	}
	defer cc.disconnect()

	return fn(cc)
}

func infoOf(parent *connCtx) *TaskInfo {
	if parent == nil {
		return nil
	}
	return parent.info
}
