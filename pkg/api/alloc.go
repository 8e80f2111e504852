package api

import "sync"

// Allocator owns the strings handed across the boundary. Alloc returns 0
// for the empty string.
type Allocator interface {
	Alloc(s string) uintptr
	Free(p uintptr) bool
	String(p uintptr) (string, bool)
}

// goAllocator keeps NUL-terminated copies alive in a table until they are
// freed. Go's collector does not move heap objects, so the address stays
// valid while the table holds the slice.
type goAllocator struct {
	mu   sync.Mutex
	live map[uintptr][]byte
}

func newGoAllocator() *goAllocator {
	return &goAllocator{live: make(map[uintptr][]byte)}
}

func (a *goAllocator) Alloc(s string) uintptr {
	if s == "" {
		return 0
	}
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	a.mu.Lock()
	defer a.mu.Unlock()
	p := addressOf(buf)
	a.live[p] = buf
	return p
}

func (a *goAllocator) Free(p uintptr) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.live[p]; !ok {
		return false
	}
	delete(a.live, p)
	return true
}

func (a *goAllocator) String(p uintptr) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	buf, ok := a.live[p]
	if !ok {
		return "", false
	}
	return string(buf[:len(buf)-1]), true
}

func (a *goAllocator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}
