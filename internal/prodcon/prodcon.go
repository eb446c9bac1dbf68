// Package prodcon provides the producer/consumer wiring shared by every
// pipeline stage. Where the original used a callback-list abstraction
// (ProducerCallbacks<T>) so a producer stage could be attached to more than
// one consumer via Sender::clone, Go channels make that unnecessary: a
// single send on a channel is the callback, and fan-out is just sending to
// more than one channel. ProducerCallbacks is kept here anyway, adapted as
// the thin generic Callbacks helper, so a stage can register more than one
// on-produce hook per item. The stages in this module each register a
// single channel hook via Connect.
package prodcon

import "github.com/castle8080/lifewatch/internal/lwerror"

// OnProduce is called once for each item a producer emits. An error from
// any callback aborts that produce call; it does not stop the producer.
type OnProduce[T any] func(item T) error

// Callbacks holds the hooks attached to a producer stage and runs them in
// registration order, stopping at the first error.
type Callbacks[T any] struct {
	hooks []OnProduce[T]
}

// New returns an empty Callbacks set.
func New[T any]() *Callbacks[T] {
	return &Callbacks[T]{}
}

// OnProduce registers a hook to run on every produced item.
func (c *Callbacks[T]) OnProduce(hook OnProduce[T]) {
	c.hooks = append(c.hooks, hook)
}

// Connect registers a hook that sends each produced item on ch. If the
// context backing ch's consumer is done, the send may block until drained;
// callers that need cancellation should select on ctx.Done() in their own
// hook instead of using Connect directly.
func (c *Callbacks[T]) Connect(ch chan<- T) {
	c.OnProduce(func(item T) error {
		ch <- item
		return nil
	})
}

// Produce runs every registered hook against item, in order, stopping and
// returning the first error.
func (c *Callbacks[T]) Produce(item T) error {
	for _, hook := range c.hooks {
		if err := hook(item); err != nil {
			return lwerror.Wrap(lwerror.KindConcurrency, "prodcon.Produce", err)
		}
	}
	return nil
}

// RunListener drains ch, calling consume for each item until ch is closed
// or consume returns an error. This is the Go analogue of the original's
// run_listener: a plain blocking loop, left to the caller to run in its own
// goroutine.
func RunListener[T any](ch <-chan T, consume func(T) error) error {
	for item := range ch {
		if err := consume(item); err != nil {
			return err
		}
	}
	return nil
}

// StartListener runs RunListener in its own goroutine and reports its
// terminal error (or nil) on the returned channel, which is closed after
// the single value is sent. A panic inside consume is recovered and
// reported as a KindConcurrency error rather than crashing the process,
// mirroring the original's per-thread panic containment.
func StartListener[T any](ch <-chan T, consume func(T) error) <-chan error {
	result := make(chan error, 1)
	go func() {
		defer close(result)
		defer func() {
			if r := recover(); r != nil {
				result <- lwerror.New(lwerror.KindConcurrency, "prodcon.StartListener", "listener panicked: %v", r)
			}
		}()
		result <- RunListener(ch, consume)
	}()
	return result
}
