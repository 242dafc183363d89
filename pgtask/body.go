package pgtask

import "context"

// TaskFunc is a direct-style body: its return value is the task's
// outcome.
type TaskFunc func(ctx context.Context, t *Task) (any, error)

// Step is one stage of a step-wise body. It receives the previous
// step's value and error; a step given a non-nil error may recover by
// returning a nil one, or propagate it unchanged.
type Step func(ctx context.Context, t *Task, prev any, err error) (any, error)

// Body is a task body, either a direct function or a step-wise
// procedure. Construct with Func or Steps; both styles behave
// identically from the outside.
type Body struct {
	fn    TaskFunc
	steps []Step
	tag   any
}

// Func makes a direct-style body.
func Func(fn TaskFunc) Body {
	return Body{fn: fn}
}

// Steps makes a step-wise body. Each step's outcome feeds the next;
// the last step's outcome is the body's.
func Steps(steps ...Step) Body {
	return Body{steps: steps}
}

// Tagged attaches a tag to the body, used when no explicit option tag
// is given.
func (b Body) Tagged(tag any) Body {
	b.tag = tag
	return b
}

func (b Body) empty() bool {
	return b.fn == nil && len(b.steps) == 0
}

// run normalizes both body styles into a single outcome. Steps run
// strictly in sequence; a step's failure is injected into the next
// step rather than aborting the procedure.
func (b Body) run(ctx context.Context, t *Task) (any, error) {
	if b.fn != nil {
		return b.fn(ctx, t)
	}
	var (
		val any
		err error
	)
	for _, step := range b.steps {
		val, err = step(ctx, t, val, err)
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}
