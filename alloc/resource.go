package alloc

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/wippyai/bitwire-runtime/errors"
)

// Layout describes the storage one value needs.
type Layout struct {
	Type  reflect.Type
	Size  uintptr
	Align uintptr
}

// LayoutOf returns the layout of T.
func LayoutOf[T any]() Layout {
	t := reflect.TypeFor[T]()
	return Layout{Type: t, Size: t.Size(), Align: uintptr(t.Align())}
}

func (l Layout) String() string {
	return fmt.Sprintf("%s (size %d, align %d)", l.Type, l.Size, l.Align)
}

// Resource supplies raw storage. Implementations are shared by every
// allocator rebound from them and must be safe for concurrent use.
type Resource interface {
	Allocate(l Layout) (unsafe.Pointer, error)
	Deallocate(p unsafe.Pointer, l Layout)
}

type heapResource struct{}

var heap Resource = heapResource{}

// Heap returns the resource backed by the Go heap.
func Heap() Resource {
	return heap
}

func (heapResource) Allocate(l Layout) (unsafe.Pointer, error) {
	if l.Type == nil {
		return nil, errors.AllocationFailed("nil", l.Size, l.Align, nil)
	}
	return reflect.New(l.Type).UnsafePointer(), nil
}

// Deallocate leaves reclamation to the garbage collector.
func (heapResource) Deallocate(unsafe.Pointer, Layout) {}
