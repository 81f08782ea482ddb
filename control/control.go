// control.go — Global shutdown coordination for the benchmark workers
// ============================================================================
// RUN CONTROL ORCHESTRATION
// ============================================================================
//
// Control provides the one piece of global signaling the harness needs:
// an abort flag connecting the signal handler to the producer and consumer
// threads, plus the wait group the handler blocks on before exiting.
//
// Threading model:
//   • The signal handler calls Shutdown() on SIGINT/SIGTERM
//   • Workers poll the flag on their yield path, never inside the spin burst
//   • Each worker registers on ShutdownWG so termination waits for both
//     sides to unwind and record their partial counts

package control

import (
	"sync"
	"sync/atomic"
)

// ============================================================================
// GLOBAL STATE
// ============================================================================

var (
	// shutdownFlag is 1 once an abort has been requested.
	shutdownFlag uint32

	// ShutdownWG tracks live workers. The signal handler waits on it so a
	// run interrupted mid-stream still reports what both sides completed.
	ShutdownWG sync.WaitGroup
)

// ============================================================================
// SHUTDOWN SIGNALING
// ============================================================================

// Shutdown requests termination of the current run. Safe to call from any
// goroutine and more than once; the first call wins and the rest are no-ops.
//
//go:nosplit
//go:inline
//go:registerparams
func Shutdown() {
	atomic.StoreUint32(&shutdownFlag, 1)
}

// IsShuttingDown reports whether an abort has been requested.
//
//go:nosplit
//go:inline
//go:registerparams
func IsShuttingDown() bool {
	return atomic.LoadUint32(&shutdownFlag) == 1
}

// ============================================================================
// FLAG ACCESS
// ============================================================================

// StopFlag returns a pointer to the abort flag so worker loops can poll it
// with a single atomic load instead of a cross-package call. The pointer
// stays valid for the life of the process; read it with atomic.LoadUint32.
//
//go:nosplit
//go:inline
//go:registerparams
func StopFlag() *uint32 {
	return &shutdownFlag
}
