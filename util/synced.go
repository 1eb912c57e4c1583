package util

import "sync/atomic"

// SafeCounter is a counter that is safe to use concurrently.
type SafeCounter struct {
	value atomic.Int64
}

// NewSafeCounter creates a new SafeCounter starting at zero.
func NewSafeCounter() *SafeCounter {
	return &SafeCounter{}
}

// Increment increments the counter and returns the new value.
func (c *SafeCounter) Increment() int {
	return int(c.value.Add(1))
}

// Decrement decrements the counter and returns the new value.
func (c *SafeCounter) Decrement() int {
	return int(c.value.Add(-1))
}

// Add adds delta to the counter and returns the new value.
func (c *SafeCounter) Add(delta int) int {
	return int(c.value.Add(int64(delta)))
}

// Value returns the current value of the counter.
func (c *SafeCounter) Value() int {
	return int(c.value.Load())
}

// SafeFlag is a boolean that is safe to use concurrently.
type SafeFlag struct {
	value atomic.Bool
}

// NewSafeFlag creates a new SafeFlag set to false.
func NewSafeFlag() *SafeFlag {
	return &SafeFlag{}
}

// Set sets the flag and returns the new value.
func (f *SafeFlag) Set(v bool) bool {
	f.value.Store(v)
	return v
}

// SetOnce sets the flag and reports whether it was previously unset.
func (f *SafeFlag) SetOnce() bool {
	return f.value.CompareAndSwap(false, true)
}

// Value returns the current value of the flag.
func (f *SafeFlag) Value() bool {
	return f.value.Load()
}
