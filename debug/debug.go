// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go — cold-path diagnostics (zero-alloc)
//
// Purpose:
//   - Reports setup failures, phase transitions, and run summaries without
//     touching the logger ecosystem or the heap beyond string concatenation.
//   - Stays off the measured path: the benchmark loops never call in here.
//
// Notes:
//   - Avoids fmt to keep the binary's hot sections free of interface traffic.
//   - Output goes straight to stderr via a single write(2) per drop.
//
// ⚠️ Never invoke between the timer start and timer stop of a measured run.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "ringbench/utils"

// DropError reports a failure as "prefix: error" on stderr. A nil error
// drops the bare prefix, which is how phase tags are emitted.
//
//go:nosplit
//go:inline
//go:registerparams
func DropError(prefix string, err error) {
	if err != nil {
		utils.PrintWarning(prefix + ": " + err.Error() + "\n")
	} else {
		utils.PrintWarning(prefix + "\n")
	}
}

// DropMessage reports a tagged status line on stderr. Used for setup
// progress, core selection, and per-side run summaries.
//
//go:nosplit
//go:inline
//go:registerparams
func DropMessage(prefix, message string) {
	utils.PrintWarning(prefix + ": " + message + "\n")
}
