package image

import "context"

// Op is an editor operation that can run in the background
type Op func(ctx context.Context) (*Result, error)

// Task is the pending completion of an Op started with Editor.Submit
type Task struct {
	done   chan struct{}
	result *Result
	err    error
}

func newTask() *Task {
	return &Task{done: make(chan struct{})}
}

func (t *Task) complete(result *Result, err error) {
	t.result = result
	t.err = err
	close(t.done)
}

// Done is closed once the operation has finished
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the operation finishes or ctx is done
func (t *Task) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
