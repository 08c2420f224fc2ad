package alloc

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/bitwire-runtime/errors"
)

// noCopy lets go vet's copylocks check flag copied Owners.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Deleter destroys and deallocates values through the provider that created them.
type Deleter[T any] struct {
	prov Provider[T]
}

// NewDeleter returns a Deleter releasing through p.
func NewDeleter[T any](p Provider[T]) Deleter[T] {
	return Deleter[T]{prov: p}
}

// Provider returns the provider the deleter releases through.
func (d Deleter[T]) Provider() Provider[T] {
	return d.prov
}

// Delete destroys *p and returns its storage to the provider.
func (d Deleter[T]) Delete(p *T) {
	if p == nil || d.prov == nil {
		return
	}
	d.prov.Destroy(p)
	d.prov.Deallocate(p)
}

// DeleterFrom derives a Deleter for T from a Deleter for U. It succeeds only
// when d's provider is an Allocator, which rebinds over the same Resource.
func DeleterFrom[T, U any](d Deleter[U]) (Deleter[T], error) {
	if a, ok := d.prov.(Allocator[U]); ok {
		return Deleter[T]{prov: Rebind[T](a)}, nil
	}
	return Deleter[T]{}, errors.Rebind(fmt.Sprintf("%T", d.prov), typeName[T]())
}

// Owner exclusively owns one value of type T together with the provider
// that created it. The zero Owner is empty.
type Owner[T any] struct {
	_   noCopy
	ptr *T
	del Deleter[T]
}

// AllocateUnique allocates a T through p and constructs it with init.
// Storage is returned to p if init fails or panics.
func AllocateUnique[T any](p Provider[T], init func(*T) error) (*Owner[T], error) {
	ptr, err := p.Allocate()
	if err != nil {
		return nil, err
	}

	armed := true
	defer func() {
		if armed {
			p.Deallocate(ptr)
			Logger().Debug("construction rolled back", zap.String("type", typeName[T]()))
		}
	}()

	if err := p.Construct(ptr, init); err != nil {
		return nil, errors.ConstructionFailed(typeName[T](), err)
	}
	armed = false

	Logger().Debug("value constructed", zap.String("type", typeName[T]()))
	return &Owner[T]{ptr: ptr, del: Deleter[T]{prov: p}}, nil
}

// Adopt takes ownership of a constructed value; d must be able to release it.
func Adopt[T any](ptr *T, d Deleter[T]) *Owner[T] {
	return &Owner[T]{ptr: ptr, del: d}
}

// Valid reports whether the owner holds a value.
func (o *Owner[T]) Valid() bool {
	return o != nil && o.ptr != nil
}

// Value returns the owned value. It panics on an empty owner.
func (o *Owner[T]) Value() *T {
	if !o.Valid() {
		panic(errors.EmptyOwner(typeName[T]()))
	}
	return o.ptr
}

// Provider returns the provider that created the value.
func (o *Owner[T]) Provider() Provider[T] {
	if o == nil {
		return nil
	}
	return o.del.prov
}

// Move transfers the value and provider to a new Owner, leaving o empty.
func (o *Owner[T]) Move() *Owner[T] {
	n := &Owner[T]{ptr: o.ptr, del: o.del}
	o.ptr = nil
	o.del = Deleter[T]{}
	return n
}

// Close destroys and deallocates the value. Closing an empty owner is a no-op.
func (o *Owner[T]) Close() {
	if !o.Valid() {
		return
	}
	p, d := o.ptr, o.del
	o.ptr = nil
	o.del = Deleter[T]{}
	d.Delete(p)
}

// Release gives up ownership without destroying the value.
func (o *Owner[T]) Release() (*T, Deleter[T]) {
	if o == nil {
		return nil, Deleter[T]{}
	}
	p, d := o.ptr, o.del
	o.ptr = nil
	o.del = Deleter[T]{}
	return p, d
}

func (o *Owner[T]) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Owner[%s](empty)", typeName[T]())
	}
	return fmt.Sprintf("Owner[%s](%v)", typeName[T](), *o.ptr)
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
