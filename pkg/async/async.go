package async

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Future holds the eventual result of a function started by Async.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

// Await blocks until the function returns.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout is like Await but gives up with ErrTimeout after timeout.
// The function keeps running in the background.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero U
		return zero, ErrTimeout
	}
}

// Done is closed once the result is available.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *Future[U]) settle(res U, err error) {
	f.once.Do(func() {
		f.result = res
		f.err = err
	})
}

// Async runs fn(ctx, param) in a new goroutine. A context that is already
// cancelled completes the future with ctx.Err() without calling fn. A panic
// inside fn completes the future with an error wrapping ErrPanic.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				var zero U
				f.settle(zero, fmt.Errorf("%w: %v", ErrPanic, r))
			}
		}()

		if err := ctx.Err(); err != nil {
			var zero U
			f.settle(zero, err)
			return
		}

		res, err := fn(ctx, param)
		f.settle(res, err)
	}()

	return f
}

// WaitAll waits for the futures in order and stops at the first error.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

// Settled is the outcome of one future collected by WaitAllSettled.
type Settled[U any] struct {
	Index int
	Value U
	Err   error
}

// Fulfilled reports whether the future completed without error.
func (s Settled[U]) Fulfilled() bool {
	return s.Err == nil
}

// WaitAllSettled waits for every future, whatever its outcome, and returns
// the outcomes in the order the futures were given. A failing future never
// cuts the wait short.
func WaitAllSettled[U any](futures ...*Future[U]) []Settled[U] {
	out := make([]Settled[U], len(futures))
	for i, future := range futures {
		value, err := future.Await()
		out[i] = Settled[U]{Index: i, Value: value, Err: err}
	}
	return out
}

// WaitAny returns the index, result and error of the first future to finish.
func WaitAny[U any](futures ...*Future[U]) (int, U, error) {
	if len(futures) == 0 {
		var zero U
		return -1, zero, ErrNoFutures
	}

	type first struct {
		index  int
		result U
		err    error
	}
	done := make(chan first, 1)

	for i, future := range futures {
		go func() {
			result, err := future.Await()
			select {
			case done <- first{i, result, err}:
			default:
			}
		}()
	}

	res := <-done
	return res.index, res.result, res.err
}
