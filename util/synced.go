// Package util holds small concurrency helpers shared across packages.
package util

import "sync/atomic"

// SafeCounter is an int counter that is safe to use concurrently.
type SafeCounter struct {
	value atomic.Int64
}

// NewSafeCounter creates a counter starting at zero.
func NewSafeCounter() *SafeCounter {
	return &SafeCounter{}
}

// Increment adds one and returns the new value.
func (c *SafeCounter) Increment() int {
	return int(c.value.Add(1))
}

// Decrement subtracts one and returns the new value.
func (c *SafeCounter) Decrement() int {
	return int(c.value.Add(-1))
}

// Set overwrites the value.
func (c *SafeCounter) Set(v int) {
	c.value.Store(int64(v))
}

// Value returns the current value.
func (c *SafeCounter) Value() int {
	return int(c.value.Load())
}

// SafeFlag is a bool that is safe to use concurrently.
type SafeFlag struct {
	value atomic.Bool
}

// NewSafeFlag creates a flag with the given initial value.
func NewSafeFlag(initial bool) *SafeFlag {
	f := &SafeFlag{}
	f.value.Store(initial)
	return f
}

// Set stores v and returns it.
func (f *SafeFlag) Set(v bool) bool {
	f.value.Store(v)
	return v
}

// Value returns the current value.
func (f *SafeFlag) Value() bool {
	return f.value.Load()
}

// CompareAndSwap sets the flag to new only if it currently equals old.
func (f *SafeFlag) CompareAndSwap(old, new bool) bool {
	return f.value.CompareAndSwap(old, new)
}
