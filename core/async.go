package core

import (
	"context"
	"sync"

	"github.com/huangsam/pactsafe/schema"
	"golang.org/x/sync/semaphore"
)

// workQueue bounds concurrent jobs with a weighted semaphore and tracks
// the ones still running so Close can drain them.
type workQueue struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

func newWorkQueue(workers int) *workQueue {
	return &workQueue{sem: semaphore.NewWeighted(int64(workers))}
}

func (q *workQueue) wait() {
	q.wg.Wait()
}

// runBounded runs job once a slot is free. The error is from ctx when it
// ends before a slot opens.
func runBounded[T any](ctx context.Context, q *workQueue, job func(ctx context.Context) (T, error)) (T, error) {
	if err := q.sem.Acquire(ctx, 1); err != nil {
		var zero T
		return zero, err
	}
	defer q.sem.Release(1)
	return job(ctx)
}

// dispatch admits run unless the client is closed and hands its result to
// done through the completion executor exactly once. The job leaves the
// queue before done runs, so done may call Close. A nil done discards
// the result.
func dispatch[T any](c *Client, ctx context.Context, run func(ctx context.Context) (T, error), done func(T, error)) {
	finish := func(v T, err error) {
		if done != nil {
			c.completion(func() { done(v, err) })
		}
	}

	c.mu.RLock()
	if c.closed.Load() {
		c.mu.RUnlock()
		var zero T
		go finish(zero, ErrClientClosed)
		return
	}
	c.queue.wg.Add(1)
	c.mu.RUnlock()

	go func() {
		v, err := runBounded(ctx, c.queue, run)
		c.queue.wg.Done()
		finish(v, err)
	}()
}

// LoadGroupAsync is the callback form of LoadGroup.
func (c *Client) LoadGroupAsync(ctx context.Context, groupKey string, done func(*schema.Group, error), opts ...CallOption) {
	dispatch(c, ctx, func(ctx context.Context) (*schema.Group, error) {
		return c.loadGroup(ctx, groupKey, opts...)
	}, done)
}

// PreloadAsync is the callback form of Preload.
func (c *Client) PreloadAsync(ctx context.Context, groupKey string, refresh bool, done func(error)) {
	dispatch(c, ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.preload(ctx, groupKey, refresh)
	}, ignoreValue(done))
}

// SendActivityAsync is the callback form of SendActivity.
func (c *Client) SendActivityAsync(ctx context.Context, req ActivityRequest, done func(error)) {
	dispatch(c, ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.sendActivity(ctx, req)
	}, ignoreValue(done))
}

// SignedStatusAsync is the callback form of SignedStatus.
func (c *Client) SignedStatusAsync(ctx context.Context, signerID, groupKey string, done func(schema.SignedStatus, error)) {
	dispatch(c, ctx, func(ctx context.Context) (schema.SignedStatus, error) {
		return c.signedStatus(ctx, signerID, groupKey)
	}, done)
}

func ignoreValue(done func(error)) func(struct{}, error) {
	if done == nil {
		return nil
	}
	return func(_ struct{}, err error) { done(err) }
}
