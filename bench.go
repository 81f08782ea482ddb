// ════════════════════════════════════════════════════════════════════════════════════════════════
// Ring Benchmark Engine - Worker Loops
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Producer/Consumer Workers & Retry Policy
//
// Description:
//   One pinned producer streams a numbered sequence through the ring to one pinned
//   consumer, which verifies every item in order. The ring itself never waits; all
//   spinning and yielding happens here. Each worker burns a bounded spin budget in
//   place on full/empty, then yields the thread between further attempts, counting
//   every failed post-yield attempt as a miss.
//
//   The abort flag is polled only on the yield path, so a healthy run pays nothing
//   for interruptibility.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"runtime"
	"sync/atomic"
	"time"
	"unsafe"

	"ringbench/constants"
	"ringbench/control"
	"ringbench/debug"
	"ringbench/ring"
	"ringbench/utils"

	"golang.org/x/sys/cpu"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// WORKER STATISTICS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// ProducerStats is the producer's private tally. Written by the producer
// goroutine only; read by the orchestrator after both workers have joined.
type ProducerStats struct {
	Pushed    int64 // items successfully pushed
	Misses    int64 // failed post-yield push attempts
	ElapsedNs int64
	Aborted   bool
}

// ConsumerStats mirrors ProducerStats for the pull side. BadIndex is -1
// while the delivered sequence matches; on the first mismatch it records
// the position and BadValue what arrived there.
type ConsumerStats struct {
	Pulled    int64
	Misses    int64
	ElapsedNs int64
	Aborted   bool
	BadIndex  int64
	BadValue  int64
}

// benchState keeps the two tallies on separate cache lines so the workers
// never dirty each other's counters mid-run.
type benchState struct {
	_    cpu.CacheLinePad
	prod ProducerStats
	_    cpu.CacheLinePad
	cons ConsumerStats
	_    cpu.CacheLinePad
}

func newBenchState() *benchState {
	st := &benchState{}
	st.cons.BadIndex = -1
	return st
}

// pinWorker locks the calling goroutine to its OS thread, binds that
// thread to core, and optionally promotes it to the realtime class.
// The thread dies with the goroutine, so the lock is never released.
func pinWorker(core int, realtime bool) {
	runtime.LockOSThread()
	pinThread(core)
	if realtime {
		if err := setRealtime(); err != nil {
			debug.DropError("SCHED", err)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// INT MODE WORKERS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// produceInts pushes the values 0..n-1 in order.
func produceInts(r *ring.Ring[int64], cfg *BenchConfig, core int, st *ProducerStats) {
	defer control.ShutdownWG.Done()
	pinWorker(core, cfg.Realtime)

	stop := control.StopFlag()
	spin := cfg.SpinBudget
	n := cfg.Messages
	var misses int64
	start := time.Now()

	for i := int64(0); i < n; i++ {
		if r.Push(i) == nil {
			continue
		}
		ok := false
		for a := 1; a < spin; a++ {
			if r.Push(i) == nil {
				ok = true
				break
			}
		}
		for !ok {
			if atomic.LoadUint32(stop) != 0 {
				finishProducer(st, i, misses, start, true)
				return
			}
			runtime.Gosched()
			if r.Push(i) == nil {
				break
			}
			misses++
		}
	}
	finishProducer(st, n, misses, start, false)
}

// consumeInts pulls n values and asserts strict sequence equality. A
// mismatch stops the whole run: the peer is signaled and the position
// recorded for the report.
func consumeInts(r *ring.Ring[int64], cfg *BenchConfig, core int, st *ConsumerStats) {
	defer control.ShutdownWG.Done()
	pinWorker(core, cfg.Realtime)

	stop := control.StopFlag()
	spin := cfg.SpinBudget
	n := cfg.Messages
	var misses int64
	start := time.Now()

	for i := int64(0); i < n; i++ {
		v, err := r.Pull()
		if err != nil {
			ok := false
			for a := 1; a < spin; a++ {
				if v, err = r.Pull(); err == nil {
					ok = true
					break
				}
			}
			for !ok {
				if atomic.LoadUint32(stop) != 0 {
					finishConsumer(st, i, misses, start, true)
					return
				}
				runtime.Gosched()
				if v, err = r.Pull(); err == nil {
					break
				}
				misses++
			}
		}
		if v != i {
			st.BadIndex = i
			st.BadValue = v
			debug.DropMessage("VERIFY", "sequence break at "+utils.Itoa(int(i))+": got "+utils.Itoa(int(v)))
			control.Shutdown()
			finishConsumer(st, i, misses, start, true)
			return
		}
	}
	finishConsumer(st, n, misses, start, false)
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// BLOB MODE WORKERS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// produceBlobs streams descriptors into the ring from a rotating arena.
// Each arena entry is stamped with its sequence number just before its
// descriptor is pushed; the arena holds more entries than the ring has
// slots, so no entry is restamped while its descriptor is in flight.
func produceBlobs(r *ring.Ring[ring.Blob], cfg *BenchConfig, core int, arena []byte, st *ProducerStats) {
	defer control.ShutdownWG.Done()
	pinWorker(core, cfg.Realtime)

	stop := control.StopFlag()
	spin := cfg.SpinBudget
	n := cfg.Messages
	entries := int64(len(arena) / constants.BlobPayloadBytes)
	var misses int64
	start := time.Now()

	for i := int64(0); i < n; i++ {
		p := unsafe.Pointer(&arena[(i%entries)*constants.BlobPayloadBytes])
		*(*int64)(p) = i
		b := ring.Blob{Size: constants.BlobPayloadBytes, Data: p}

		if r.Push(b) == nil {
			continue
		}
		ok := false
		for a := 1; a < spin; a++ {
			if r.Push(b) == nil {
				ok = true
				break
			}
		}
		for !ok {
			if atomic.LoadUint32(stop) != 0 {
				finishProducer(st, i, misses, start, true)
				return
			}
			runtime.Gosched()
			if r.Push(b) == nil {
				break
			}
			misses++
		}
	}
	finishProducer(st, n, misses, start, false)
}

// consumeBlobs pulls n descriptors and checks each one three ways:
// the pointer must be the arena slot the producer used for that sequence
// number, the size must be intact, and the stamped sequence number must
// match. Pointer identity proves the descriptor crossed untouched.
func consumeBlobs(r *ring.Ring[ring.Blob], cfg *BenchConfig, core int, arena []byte, st *ConsumerStats) {
	defer control.ShutdownWG.Done()
	pinWorker(core, cfg.Realtime)

	stop := control.StopFlag()
	spin := cfg.SpinBudget
	n := cfg.Messages
	entries := int64(len(arena) / constants.BlobPayloadBytes)
	var misses int64
	start := time.Now()

	for i := int64(0); i < n; i++ {
		b, err := r.Pull()
		if err != nil {
			ok := false
			for a := 1; a < spin; a++ {
				if b, err = r.Pull(); err == nil {
					ok = true
					break
				}
			}
			for !ok {
				if atomic.LoadUint32(stop) != 0 {
					finishConsumer(st, i, misses, start, true)
					return
				}
				runtime.Gosched()
				if b, err = r.Pull(); err == nil {
					break
				}
				misses++
			}
		}

		want := unsafe.Pointer(&arena[(i%entries)*constants.BlobPayloadBytes])
		if b.Data != want || b.Size != constants.BlobPayloadBytes {
			st.BadIndex = i
			debug.DropMessage("VERIFY", "descriptor mismatch at "+utils.Itoa(int(i)))
			control.Shutdown()
			finishConsumer(st, i, misses, start, true)
			return
		}
		if got := *(*int64)(b.Data); got != i {
			st.BadIndex = i
			st.BadValue = got
			debug.DropMessage("VERIFY", "stamp mismatch at "+utils.Itoa(int(i))+": got "+utils.Itoa(int(got)))
			control.Shutdown()
			finishConsumer(st, i, misses, start, true)
			return
		}
	}
	finishConsumer(st, n, misses, start, false)
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// RUN ENGINES
// ═══════════════════════════════════════════════════════════════════════════════════════════════

func finishProducer(st *ProducerStats, pushed, misses int64, start time.Time, aborted bool) {
	st.Pushed = pushed
	st.Misses = misses
	st.ElapsedNs = time.Since(start).Nanoseconds()
	st.Aborted = aborted
}

func finishConsumer(st *ConsumerStats, pulled, misses int64, start time.Time, aborted bool) {
	st.Pulled = pulled
	st.Misses = misses
	st.ElapsedNs = time.Since(start).Nanoseconds()
	st.Aborted = aborted
}

// runIntBench wires up an int64 ring and drives both workers to completion.
func runIntBench(cfg *BenchConfig, prodCore, consCore int) (*benchState, error) {
	r, err := ring.New[int64](cfg.Slots, cfg.MaxAlloc)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	st := newBenchState()
	control.ShutdownWG.Add(2)
	go consumeInts(r, cfg, consCore, &st.cons)
	go produceInts(r, cfg, prodCore, &st.prod)
	control.ShutdownWG.Wait()
	return st, nil
}

// runBlobBench is runIntBench with descriptor payloads and a shared
// payload arena twice as deep as the ring.
func runBlobBench(cfg *BenchConfig, prodCore, consCore int) (*benchState, error) {
	r, err := ring.New[ring.Blob](cfg.Slots, cfg.MaxAlloc)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	arena := make([]byte, 2*cfg.Slots*constants.BlobPayloadBytes)

	st := newBenchState()
	control.ShutdownWG.Add(2)
	go consumeBlobs(r, cfg, consCore, arena, &st.cons)
	go produceBlobs(r, cfg, prodCore, arena, &st.prod)
	control.ShutdownWG.Wait()
	runtime.KeepAlive(arena)
	return st, nil
}
