package pgtask

import "errors"

// connCtx tracks the connection state shared by a task and the nested
// work it spawns. The context that acquired the handle is the only
// owner of its release path; clones borrow the handle but never carry
// the release func, so release happens exactly once.
type connCtx struct {
	db      *DB
	handle  Handle
	release ReleaseFunc

	// inTx marks a transactional context; depth is its savepoint
	// nesting level and is only meaningful when inTx is set. The
	// top-level transaction runs at depth 0.
	inTx  bool
	depth int

	info *TaskInfo
}

func (c *connCtx) connected() bool {
	return c.handle != nil
}

// connect binds an acquired handle. Binding a second handle to a
// context that already holds one is a caller error.
func (c *connCtx) connect(h Handle, release ReleaseFunc) error {
	if c.handle != nil {
		return errors.New("context already has an open connection")
	}
	c.handle = h
	c.release = release
	c.db.events.connect(h)
	return nil
}

// disconnect releases the bound handle exactly once and clears it.
// Further calls are no-ops.
func (c *connCtx) disconnect() {
	if c.handle == nil {
		return
	}
	c.db.events.disconnect(c.handle)
	if c.release != nil {
		c.release()
	}
	c.handle = nil
	c.release = nil
}

// clone creates a child context for nested work on the same handle.
// A transactional clone of a transactional parent is one savepoint
// level deeper; of a non-transactional parent, it is the top level.
func (c *connCtx) clone(forTx bool, info *TaskInfo) *connCtx {
	child := &connCtx{
		db:     c.db,
		handle: c.handle,
		info:   info,
	}
	if forTx {
		child.inTx = true
		if c.inTx {
			child.depth = c.depth + 1
		}
	} else {
		child.inTx = c.inTx
		child.depth = c.depth
	}
	return child
}
