// ring.go
//
// Bounded lock-free single-producer/single-consumer ring buffer.
//
// One contiguous mmap block holds a 32-byte header followed by fixed
// 16-byte cells, so a ring can be dropped into a shared mapping without
// relocation. Exactly one goroutine may push and exactly one may pull;
// within that contract every operation is wait-free and allocation-free.
//
// Indices are monotonic uint64 counters masked into the cell array on
// use. One slot is kept in reserve to distinguish full from empty, so a
// ring created with n slots stores at most n-1 items.

package ring

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Status surface. Hot-path failures (ErrFull, ErrEmpty) are returned as
// these exact sentinels so callers can compare without unwrapping;
// construction failures may arrive wrapped with platform detail and
// should be matched with errors.Is.
var (
	ErrInvalidCapacity = errors.New("ring: slots must be >0 and a power of two")
	ErrAllocTooLarge   = errors.New("ring: allocation exceeds ceiling")
	ErrAllocFailed     = errors.New("ring: allocation failed")
	ErrFull            = errors.New("ring: full")
	ErrEmpty           = errors.New("ring: empty")
	ErrInvalidArgument = errors.New("ring: invalid argument")
	ErrInternal        = errors.New("ring: internal error")
)

const (
	headerSize = 32 // capacity + ceiling + two indices
	cellSize   = 16 // fixed stride for both payload variants
)

// Blob is an out-of-line payload: a pointer to caller-owned bytes plus
// their length. The ring copies only this descriptor, never the bytes.
// The producer must keep the referent alive and unchanged until the
// consumer has pulled it; the mapping backing the ring is invisible to
// the garbage collector, so nothing here keeps Data's referent reachable.
type Blob struct {
	Size int32
	_    [4]byte
	Data unsafe.Pointer
}

// Item is the closed set of payload types a ring can carry. The variant
// is fixed at construction; both occupy one 16-byte cell.
type Item interface {
	int64 | Blob
}

// header sits at offset 0 of the mapping. capacity and maxAlloc are
// immutable after New; head is owned by the consumer, tail by the
// producer, and each side only loads the other's index.
type header struct {
	capacity uint64
	maxAlloc uint64
	head     atomic.Uint64
	tail     atomic.Uint64
}

// cell is one slot. Payloads are written through it at offset 0:
// int64 uses the first 8 bytes, Blob all 16 (size low, pointer high).
type cell struct {
	lo uint64
	hi uint64
}

// Ring is a handle onto the mapped block. The zero value is not usable;
// construct with New. A Ring must not be copied after first use.
//
// Go's sync/atomic operations are sequentially consistent, a conservative
// superset of the release/acquire pairing this layout needs: the payload
// store in Push happens-before the tail publish, and the head publish in
// Pull happens-before the producer's reuse of the slot.
type Ring[T Item] struct {
	hdr   *header
	cells []cell
	mem   []byte
}

// New maps and initializes a ring with numSlots cells carrying T.
// numSlots must be a power of two; usable capacity is numSlots-1.
// maxAllocSize is an admission ceiling on the total block size (header
// plus cells), checked once here and never on the push path.
//
// The block is touched twice end to end (fill then clear) so every page
// is faulted in and zeroed before first use, then advised sequential and
// resident. Advice failures are ignored; they are performance hints.
func New[T Item](numSlots, maxAllocSize int) (*Ring[T], error) {
	if numSlots < 1 || numSlots&(numSlots-1) != 0 {
		return nil, ErrInvalidCapacity
	}
	if numSlots > (math.MaxInt-headerSize)/cellSize {
		return nil, ErrAllocTooLarge
	}
	total := headerSize + numSlots*cellSize
	if maxAllocSize < 0 || total > maxAllocSize {
		return nil, ErrAllocTooLarge
	}

	mem, err := unix.Mmap(-1, 0, total, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %d bytes: %v", ErrAllocFailed, total, err)
	}

	for i := range mem {
		mem[i] = 1
	}
	for i := range mem {
		mem[i] = 0
	}
	_ = unix.Madvise(mem, unix.MADV_SEQUENTIAL)
	_ = unix.Madvise(mem, unix.MADV_WILLNEED)

	h := (*header)(unsafe.Pointer(&mem[0]))
	h.capacity = uint64(numSlots)
	h.maxAlloc = uint64(maxAllocSize)
	h.head.Store(0)
	h.tail.Store(0)

	return &Ring[T]{
		hdr:   h,
		cells: unsafe.Slice((*cell)(unsafe.Pointer(&mem[headerSize])), numSlots),
		mem:   mem,
	}, nil
}

// Push appends v and returns nil, or ErrFull when no slot is free.
// It never blocks and never inspects the payload; backoff behavior
// belongs to the caller.
//
//go:nosplit
func (r *Ring[T]) Push(v T) error {
	if r == nil {
		return ErrInvalidArgument
	}
	h := r.hdr
	mask := h.capacity - 1
	tail := h.tail.Load()
	if (tail+1)&mask == h.head.Load()&mask {
		return ErrFull
	}
	*(*T)(unsafe.Pointer(&r.cells[tail&mask])) = v
	h.tail.Store(tail + 1)
	return nil
}

// Pull removes and returns the oldest item, or the zero T and ErrEmpty
// when the ring holds nothing. Empty is detected on the unmasked
// indices, full on the masked ones; the two tests stay distinct even in
// the one-slot degenerate ring.
//
//go:nosplit
func (r *Ring[T]) Pull() (T, error) {
	var zero T
	if r == nil {
		return zero, ErrInvalidArgument
	}
	h := r.hdr
	head := h.head.Load()
	if head == h.tail.Load() {
		return zero, ErrEmpty
	}
	v := *(*T)(unsafe.Pointer(&r.cells[head&(h.capacity-1)]))
	h.head.Store(head + 1)
	return v, nil
}

// Close unmaps the block. The ring must be quiescent: closing while the
// peer is mid-operation is a caller bug. A second Close, or Close on a
// nil ring, returns ErrInvalidArgument.
func (r *Ring[T]) Close() error {
	if r == nil || r.mem == nil {
		return ErrInvalidArgument
	}
	mem := r.mem
	r.hdr = nil
	r.cells = nil
	r.mem = nil
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("%w: munmap: %v", ErrInternal, err)
	}
	return nil
}

// Cap returns the slot count the ring was created with. Usable capacity
// is one less.
func (r *Ring[T]) Cap() int {
	return int(r.hdr.capacity)
}

// MaxAlloc returns the allocation ceiling passed to New, stored verbatim.
func (r *Ring[T]) MaxAlloc() int {
	return int(r.hdr.maxAlloc)
}
