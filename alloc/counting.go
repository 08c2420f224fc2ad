package alloc

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/wippyai/bitwire-runtime/errors"
)

// CountingResource wraps a Resource and counts allocations. With a positive
// limit it refuses to hold more than limit live allocations.
type CountingResource struct {
	next   Resource
	limit  int64
	live   atomic.Int64
	allocs atomic.Int64
	frees  atomic.Int64
	bytes  atomic.Int64
}

// NewCounting wraps next (Heap when nil). A limit of 0 means unlimited.
func NewCounting(next Resource, limit int) *CountingResource {
	if next == nil {
		next = Heap()
	}
	return &CountingResource{next: next, limit: int64(limit)}
}

func (c *CountingResource) Allocate(l Layout) (unsafe.Pointer, error) {
	for {
		cur := c.live.Load()
		if c.limit > 0 && cur >= c.limit {
			return nil, errors.AllocationFailed(typeString(l), l.Size, l.Align,
				fmt.Errorf("live allocation limit %d reached", c.limit))
		}
		if c.live.CompareAndSwap(cur, cur+1) {
			break
		}
	}

	p, err := c.next.Allocate(l)
	if err != nil {
		c.live.Add(-1)
		return nil, err
	}
	c.allocs.Add(1)
	c.bytes.Add(int64(l.Size))
	return p, nil
}

func (c *CountingResource) Deallocate(p unsafe.Pointer, l Layout) {
	c.next.Deallocate(p, l)
	c.live.Add(-1)
	c.frees.Add(1)
	c.bytes.Add(-int64(l.Size))
}

// Allocs returns the number of successful allocations.
func (c *CountingResource) Allocs() int64 { return c.allocs.Load() }

// Frees returns the number of deallocations.
func (c *CountingResource) Frees() int64 { return c.frees.Load() }

// Live returns the number of outstanding allocations.
func (c *CountingResource) Live() int64 { return c.live.Load() }

// Bytes returns the number of outstanding bytes.
func (c *CountingResource) Bytes() int64 { return c.bytes.Load() }

func typeString(l Layout) string {
	if l.Type == nil {
		return "nil"
	}
	return l.Type.String()
}
