package alloc

import (
	"unsafe"

	"github.com/wippyai/bitwire-runtime/errors"
)

// Provider allocates, constructs, destroys and releases values of type T.
type Provider[T any] interface {
	Allocate() (*T, error)
	Deallocate(p *T)
	Construct(p *T, init func(*T) error) error
	Destroy(p *T)
}

// Destroyer is implemented by values that hold resources of their own.
// Allocator.Destroy calls it before the storage is zeroed.
type Destroyer interface {
	Destroy()
}

// Allocator is the Provider for T over a Resource. The zero value uses Heap.
// Allocators are small values and are copied freely.
type Allocator[T any] struct {
	res Resource
}

var _ Provider[int] = Allocator[int]{}

// New returns an Allocator for T over res (Heap when nil).
func New[T any](res Resource) Allocator[T] {
	return Allocator[T]{res: res}
}

// Rebind returns the Allocator for T sharing a's Resource.
func Rebind[T, U any](a Allocator[U]) Allocator[T] {
	return Allocator[T]{res: a.res}
}

// Resource returns the underlying resource.
func (a Allocator[T]) Resource() Resource {
	if a.res == nil {
		return Heap()
	}
	return a.res
}

func (a Allocator[T]) Allocate() (*T, error) {
	l := LayoutOf[T]()
	p, err := a.Resource().Allocate(l)
	if err != nil {
		if errors.IsKind(err, errors.KindAllocation) {
			return nil, err
		}
		return nil, errors.AllocationFailed(typeString(l), l.Size, l.Align, err)
	}
	if p == nil {
		return nil, errors.AllocationFailed(typeString(l), l.Size, l.Align, nil)
	}
	return (*T)(p), nil
}

func (a Allocator[T]) Deallocate(p *T) {
	if p == nil {
		return
	}
	a.Resource().Deallocate(unsafe.Pointer(p), LayoutOf[T]())
}

// Construct zeroes *p and runs init on it.
func (a Allocator[T]) Construct(p *T, init func(*T) error) error {
	var zero T
	*p = zero
	if init == nil {
		return nil
	}
	return init(p)
}

// Destroy runs the value's Destroy method, if any, and zeroes *p.
func (a Allocator[T]) Destroy(p *T) {
	if d, ok := any(p).(Destroyer); ok {
		d.Destroy()
	}
	var zero T
	*p = zero
}
