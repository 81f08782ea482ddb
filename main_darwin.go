//go:build darwin
// +build darwin

// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: main_darwin.go — Darwin thread placement stubs
//
// Purpose:
//   - Keeps the harness buildable on macOS for correctness runs
//   - Mirrors the Linux variant's surface with no-op placement
//
// Notes:
//   - macOS exposes no public thread-to-core binding, so pinning is a no-op
//     and core numbers in reports are nominal
//   - Realtime promotion is declined explicitly so -rt produces a visible
//     diagnostic instead of silently doing nothing
// ─────────────────────────────────────────────────────────────────────────────

package main

import (
	"errors"

	"ringbench/debug"
	"ringbench/utils"
)

// pinThread only reports the nominal placement: the XNU scheduler does
// not honor userspace core-binding requests.
func pinThread(core int) {
	debug.DropMessage("AFFINITY", "core "+utils.Itoa(core)+" requested, pinning unavailable on darwin")
}

// setRealtime reports that the fixed-priority class is unavailable here.
func setRealtime() error {
	return errors.New("SCHED_FIFO not available on darwin")
}

// autoCores returns a fixed pair; per-core idle accounting is not
// exposed in a /proc-like form on this platform.
func autoCores() (prodCore, consCore int) {
	return 0, 1
}
