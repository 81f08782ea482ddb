// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: constants.go — Benchmark Tunables & Defaults
//
// Purpose:
//   - Defines the default ring geometry, workload size, and retry budget
//     shared by the harness flags, the worker loops, and the history store.
//
// ⚠️ No runtime logic here — all values must be compile-time resolvable
// ─────────────────────────────────────────────────────────────────────────────

package constants

// ───────────────────────────── Ring Geometry ───────────────────────────────

const (
	// DefaultRingSlots is the slot count used when -slots is not given.
	// Must be a power of two; usable capacity is one slot less.
	DefaultRingSlots = 8192

	// DefaultAllocCeiling bounds the ring's total allocation (header plus
	// cells) at creation. 1 MiB admits the default geometry with room to
	// spare; a 4096-slot int ring needs 65,568 bytes.
	DefaultAllocCeiling = 1 << 20
)

// ───────────────────────────── Workload Shape ──────────────────────────────

const (
	// DefaultMessageCount is the number of items streamed per run.
	DefaultMessageCount = 500_000_000

	// DefaultSpinBudget is how many failed push or pull attempts a worker
	// burns in place before it starts yielding the thread between retries.
	DefaultSpinBudget = 10_000

	// BlobPayloadBytes is the size of each arena entry in blob mode.
	BlobPayloadBytes = 64
)

// ───────────────────────────── Scheduling ──────────────────────────────────

const (
	// RealtimePriority is the SCHED_FIFO priority requested with -rt.
	// 99 is the highest userspace value; the request may fail without
	// privileges and the run continues unpinned from the scheduler class.
	RealtimePriority = 99

	// CoreSampleMillis is the /proc/stat observation window used to rank
	// cores by idle time when no explicit cores are given.
	CoreSampleMillis = 100
)

// ───────────────────────────── Persistence ─────────────────────────────────

const (
	// DefaultHistoryDB is the SQLite file that accumulates run results.
	DefaultHistoryDB = "ringbench.db"
)
