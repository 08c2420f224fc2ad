package linear

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/bitwire-runtime/alloc"
	"github.com/wippyai/bitwire-runtime/errors"
	"github.com/wippyai/bitwire-runtime/internal/layout"
)

// reserved keeps offset 0 unused so no slot aliases a null offset.
const reserved = 8

type slotKey struct {
	size  uintptr
	align uintptr
}

// Resource is an alloc.Resource over a fixed-size wazero linear memory.
type Resource struct {
	rt   wazero.Runtime
	mod  api.Module
	mem  api.Memory
	buf  []byte
	free map[slotKey][]uintptr
	next uintptr
	live int
	mu   sync.Mutex
}

var _ alloc.Resource = (*Resource)(nil)

// New instantiates a linear memory of pages pages.
func New(ctx context.Context, pages uint32) (*Resource, error) {
	if pages == 0 || pages > MaxPages {
		return nil, errors.New(errors.PhaseAlloc, errors.KindAllocation).
			Detail("page count %d outside 1..%d", pages, MaxPages).
			Build()
	}

	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithMemoryLimitPages(pages))

	mod, err := rt.Instantiate(ctx, memoryModule(pages))
	if err != nil {
		return nil, multierr.Append(
			errors.Wrap(errors.PhaseAlloc, errors.KindAllocation, err, "instantiate linear memory"),
			rt.Close(ctx),
		)
	}

	mem := mod.ExportedMemory(memoryExport)
	if mem == nil {
		return nil, multierr.Combine(
			errors.Wrap(errors.PhaseAlloc, errors.KindAllocation, nil, "memory export missing"),
			mod.Close(ctx),
			rt.Close(ctx),
		)
	}

	buf, ok := mem.Read(0, mem.Size())
	if !ok {
		return nil, multierr.Combine(
			errors.Wrap(errors.PhaseAlloc, errors.KindAllocation, nil, "memory view unavailable"),
			mod.Close(ctx),
			rt.Close(ctx),
		)
	}

	alloc.Logger().Debug("linear memory ready",
		zap.Uint32("pages", pages),
		zap.Int("bytes", len(buf)))

	return &Resource{
		rt:   rt,
		mod:  mod,
		mem:  mem,
		buf:  buf,
		free: make(map[slotKey][]uintptr),
		next: reserved,
	}, nil
}

func (r *Resource) Allocate(l alloc.Layout) (unsafe.Pointer, error) {
	if l.Type == nil {
		return nil, errors.AllocationFailed("nil", l.Size, l.Align, nil)
	}
	if hasPointers(l.Type) {
		return nil, errors.AllocationFailed(l.Type.String(), l.Size, l.Align,
			fmt.Errorf("type holds Go pointers, which linear memory cannot keep alive"))
	}

	_, p, err := r.take(slotKey{size: max(l.Size, 1), align: max(l.Align, 1)})
	if err != nil {
		return nil, errors.AllocationFailed(l.Type.String(), l.Size, l.Align, err)
	}
	return p, nil
}

func (r *Resource) Deallocate(p unsafe.Pointer, l alloc.Layout) {
	off, ok := r.Offset(p)
	if !ok {
		alloc.Logger().Warn("deallocate outside linear memory", zap.Stringer("layout", l))
		return
	}
	r.give(slotKey{size: max(l.Size, 1), align: max(l.Align, 1)}, uintptr(off))
}

// AllocateCanonical reserves a slot sized and aligned for t's Canonical ABI
// layout and returns its offset.
func (r *Resource) AllocateCanonical(t wit.Type) (uint32, layout.Info, error) {
	info := layout.NewCalculator().Calculate(t)
	key := slotKey{size: uintptr(max(info.Size, 1)), align: uintptr(max(info.Align, 1))}

	off, _, err := r.take(key)
	if err != nil {
		return 0, info, errors.AllocationFailed(fmt.Sprintf("wit %T", t), key.size, key.align, err)
	}
	return uint32(off), info, nil
}

// FreeCanonical releases a slot obtained from AllocateCanonical.
func (r *Resource) FreeCanonical(off uint32, info layout.Info) {
	r.give(slotKey{size: uintptr(max(info.Size, 1)), align: uintptr(max(info.Align, 1))}, uintptr(off))
}

func (r *Resource) take(key slotKey) (uintptr, unsafe.Pointer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.buf == nil {
		return 0, nil, fmt.Errorf("linear memory closed")
	}

	if list := r.free[key]; len(list) > 0 {
		off := list[len(list)-1]
		r.free[key] = list[:len(list)-1]
		r.live++
		return off, unsafe.Pointer(&r.buf[off]), nil
	}

	off := r.alignOffset(r.next, key.align)
	if off+key.size > uintptr(len(r.buf)) {
		return 0, nil, fmt.Errorf("linear memory exhausted: %d of %d bytes used", r.next, len(r.buf))
	}
	r.next = off + key.size
	r.live++
	return off, unsafe.Pointer(&r.buf[off]), nil
}

func (r *Resource) give(key slotKey, off uintptr) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.buf == nil || off < reserved || off+key.size > uintptr(len(r.buf)) {
		return
	}
	clear(r.buf[off : off+key.size])
	r.free[key] = append(r.free[key], off)
	r.live--
}

// alignOffset aligns the absolute address, not just the offset, since the
// Go slice backing the memory carries its own base alignment.
func (r *Resource) alignOffset(off, align uintptr) uintptr {
	base := uintptr(unsafe.Pointer(&r.buf[0]))
	addr := (base + off + align - 1) &^ (align - 1)
	return addr - base
}

// Offset returns p's offset in linear memory.
func (r *Resource) Offset(p unsafe.Pointer) (uint32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p == nil || len(r.buf) == 0 {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(&r.buf[0]))
	addr := uintptr(p)
	if addr < base || addr >= base+uintptr(len(r.buf)) {
		return 0, false
	}
	return uint32(addr - base), true
}

// Memory returns the underlying wazero memory.
func (r *Resource) Memory() api.Memory {
	return r.mem
}

// Used returns the bump offset, the high-water mark of allocated bytes.
func (r *Resource) Used() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return uint32(r.next)
}

// Live returns the number of outstanding slots.
func (r *Resource) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.live
}

// Close tears down the module and runtime. Values still allocated stay
// readable by Go but are no longer tracked.
func (r *Resource) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rt == nil {
		return nil
	}
	err := multierr.Combine(r.mod.Close(ctx), r.rt.Close(ctx))
	if r.live > 0 {
		alloc.Logger().Debug("linear memory closed with live slots", zap.Int("live", r.live))
	}
	r.rt, r.mod, r.buf, r.free = nil, nil, nil, nil
	return err
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Slice,
		reflect.String, reflect.Interface, reflect.Chan, reflect.Func:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
