// Package arena provides a bump-pointer allocator backed by an anonymous
// memory mapping, for callers that want to hand a [Cache] iterator a
// scratch region to avoid small per-call allocations during a scan.
package arena

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Arena is a monotonic bump allocator over a single anonymous mmap region.
// Not safe for concurrent use; callers that shard work across goroutines
// should use one Arena per goroutine.
type Arena struct {
	mem    []byte
	offset int
}

// New maps size bytes of anonymous, private memory and returns an Arena
// bump-allocating out of it.
func New(size int) (*Arena, error) {
	if size <= 0 {
		return nil, fmt.Errorf("arena: invalid size %d", size)
	}

	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("arena: mmap: %w", err)
	}

	return &Arena{mem: mem}, nil
}

// Alloc returns an n-byte slice carved out of the arena's backing mapping.
// Reports ok=false if the arena has no room left, in which case the
// caller should fall back to a normal heap allocation.
func (a *Arena) Alloc(n int) (buf []byte, ok bool) {
	if n < 0 || a.offset+n > len(a.mem) {
		return nil, false
	}

	buf = a.mem[a.offset : a.offset+n : a.offset+n]
	a.offset += n

	return buf, true
}

// Reset rewinds the bump pointer to the start of the mapping, making the
// whole arena available for reuse without a new mmap call. Any slices
// previously handed out by Alloc must no longer be referenced by the
// caller after this.
func (a *Arena) Reset() { a.offset = 0 }

// Cap returns the arena's total capacity in bytes.
func (a *Arena) Cap() int { return len(a.mem) }

// Used returns the number of bytes currently allocated.
func (a *Arena) Used() int { return a.offset }

// Close unmaps the arena's backing memory. The Arena must not be used
// afterward.
func (a *Arena) Close() error {
	if a.mem == nil {
		return nil
	}

	err := unix.Munmap(a.mem)
	a.mem = nil

	if err != nil {
		return fmt.Errorf("arena: munmap: %w", err)
	}

	return nil
}
