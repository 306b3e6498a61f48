package valuation

import (
	"context"
	"fmt"

	"github.com/alitto/pond/v2"
)

type task func(ctx context.Context) error

// fanOut runs the tasks with at most limit of them in flight and waits for all of them.
// A failing task does not cancel its siblings; the first error in submission order is returned.
// Tasks must not call fanOut themselves.
func fanOut(ctx context.Context, limit int, tasks ...task) error {
	switch len(tasks) {
	case 0:
		return nil
	case 1:
		return runTask(ctx, tasks[0])
	}

	errs := make([]error, len(tasks))
	pool := pond.NewPool(max(min(limit, len(tasks)), 1))
	for i, t := range tasks {
		pool.Submit(func() {
			errs[i] = runTask(ctx, t)
		})
	}
	pool.StopAndWait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func runTask(ctx context.Context, t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("query panicked: %v", r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return t(ctx)
}
