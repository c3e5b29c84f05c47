package resilience

import "sync"

// SingleFlight coalesces concurrent provider fetches for the same key.
// Callers that join an in-flight fetch share its result.
type SingleFlight[T any] struct {
	mu    sync.Mutex
	calls map[string]*call[T]
}

type call[T any] struct {
	wg   sync.WaitGroup
	val  T
	err  error
	dups int
}

// Result is what DoChan delivers.
type Result[T any] struct {
	Val    T
	Err    error
	Shared bool
}

// Do runs fn once per key at a time. shared reports whether more than one
// caller received this result.
func (g *SingleFlight[T]) Do(key string, fn func() (T, error)) (val T, err error, shared bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call[T])
	}

	if c, ok := g.calls[key]; ok {
		c.dups++
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &call[T]{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	// dups only changes under g.mu while the call is registered, so it is
	// read there too.
	defer func() {
		g.mu.Lock()
		delete(g.calls, key)
		shared = c.dups > 0
		g.mu.Unlock()
		c.wg.Done()
	}()

	c.val, c.err = fn()
	return c.val, c.err, false
}

// DoChan is Do for callers that must stop waiting when their own context
// ends. The fetch keeps running for the other callers.
func (g *SingleFlight[T]) DoChan(key string, fn func() (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		val, err, shared := g.Do(key, fn)
		ch <- Result[T]{Val: val, Err: err, Shared: shared}
	}()
	return ch
}
