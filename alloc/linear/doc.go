// Package linear provides an alloc.Resource that places values inside a
// WebAssembly linear memory hosted by wazero.
//
// The memory belongs to a one-memory module built at startup with a fixed
// page count. The memory never grows, so pointers handed out stay valid
// until the value is deallocated. Only pointer-free types may be placed
// here; the garbage collector does not scan linear memory.
//
//	res, err := linear.New(ctx, 1)
//	defer res.Close(ctx)
//	owner, err := alloc.AllocateUnique(alloc.New[int16](res), init)
//
// Hosts can read the stored bytes through Memory and Offset, and can
// reserve Canonical ABI slots for WIT types with AllocateCanonical.
package linear
