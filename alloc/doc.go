// Package alloc provides allocator-aware exclusive ownership of heap values.
//
// A Resource is a shared, copyable memory capability. An Allocator[T] is the
// typed Provider view of a Resource for one value type; Rebind derives the
// Allocator for another type over the same Resource. An Owner holds exactly
// one value plus the provider that created it and releases it through that
// provider exactly once.
//
// # Construction
//
//	owner, err := alloc.AllocateUnique(alloc.New[Node](res), func(n *Node) error {
//	    return n.init(args)
//	})
//
// AllocateUnique arms a release guard right after allocation and disarms it
// only once construction succeeds. A failing init returns a KindConstruction
// error; a panicking init propagates the panic. In both cases the storage has
// already been handed back to the provider.
//
// # Ownership Transfer
//
// Owners must not be copied (go vet reports copies). Move transfers the value
// and the provider into a new Owner and leaves the source empty:
//
//	dst := owner.Move()
//	owner.Close() // no-op
//	dst.Close()   // destroy, then deallocate
//
// # Rebinding
//
// A Deleter[T] can be derived from a Deleter[U] only when the provider is an
// Allocator, whose rebound form for T is Allocator[T] over the same Resource.
// Custom providers have no rebound form and fail with KindRebind.
//
// # Resources
//
//	Heap()          Go heap, never fails
//	NewCounting()   counts allocations, optional live limit
//	linear.New()    WebAssembly linear memory (package alloc/linear)
package alloc
