// ════════════════════════════════════════════════════════════════════════════════════════════════
// Run Reporting
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Summary Output, JSON Reports & History
//
// Description:
//   Turns the raw worker tallies into the three output surfaces: tagged stderr
//   summary lines, an optional JSON report file, and a row in the history store.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"os"
	"time"

	"ringbench/benchstore"
	"ringbench/control"
	"ringbench/debug"
	"ringbench/utils"

	"github.com/sugawarayuuta/sonnet"
)

// RunReport is the complete outcome of one run, shaped for JSON output.
// Delivered can fall short of Messages only on an aborted run.
type RunReport struct {
	Started    time.Time `json:"started"`
	Mode       string    `json:"mode"`
	Slots      int       `json:"slots"`
	MaxAlloc   int       `json:"max_alloc"`
	Messages   int64     `json:"messages"`
	Delivered  int64     `json:"delivered"`
	ProdCore   int       `json:"producer_core"`
	ConsCore   int       `json:"consumer_core"`
	Realtime   bool      `json:"realtime"`
	Verified   bool      `json:"verified"`
	Aborted    bool      `json:"aborted"`
	ProdNanos  int64     `json:"producer_ns"`
	ConsNanos  int64     `json:"consumer_ns"`
	ProdMisses int64     `json:"producer_misses"`
	ConsMisses int64     `json:"consumer_misses"`
	MsgsPerSec float64   `json:"msgs_per_sec"`
}

// buildReport folds the two worker tallies into a report. The headline
// rate comes from the consumer, the side that observes completed
// deliveries.
func buildReport(cfg *BenchConfig, prodCore, consCore int, started time.Time, st *benchState) *RunReport {
	rate := 0.0
	if st.cons.ElapsedNs > 0 {
		rate = float64(st.cons.Pulled) / (float64(st.cons.ElapsedNs) / 1e9)
	}
	return &RunReport{
		Started:    started,
		Mode:       cfg.Mode,
		Slots:      cfg.Slots,
		MaxAlloc:   cfg.MaxAlloc,
		Messages:   cfg.Messages,
		Delivered:  st.cons.Pulled,
		ProdCore:   prodCore,
		ConsCore:   consCore,
		Realtime:   cfg.Realtime,
		Verified:   st.cons.BadIndex < 0,
		Aborted:    st.prod.Aborted || st.cons.Aborted || control.IsShuttingDown(),
		ProdNanos:  st.prod.ElapsedNs,
		ConsNanos:  st.cons.ElapsedNs,
		ProdMisses: st.prod.Misses,
		ConsMisses: st.cons.Misses,
		MsgsPerSec: rate,
	}
}

// printSummary emits the per-side and headline figures as tagged lines.
func printSummary(rep *RunReport) {
	debug.DropMessage("PROD", "core "+utils.Itoa(rep.ProdCore)+", "+
		utils.FormatSeconds(rep.ProdNanos)+" s, "+
		utils.UtoaComma(uint64(rep.ProdMisses))+" misses")
	debug.DropMessage("CONS", "core "+utils.Itoa(rep.ConsCore)+", "+
		utils.FormatSeconds(rep.ConsNanos)+" s, "+
		utils.UtoaComma(uint64(rep.ConsMisses))+" misses")
	debug.DropMessage("RATE", utils.UtoaComma(uint64(rep.MsgsPerSec))+" msgs/sec")

	switch {
	case !rep.Verified:
		debug.DropMessage("RESULT", "FAILED sequence verification")
	case rep.Aborted:
		debug.DropMessage("RESULT", "aborted after "+utils.UtoaComma(uint64(rep.Delivered))+
			" of "+utils.UtoaComma(uint64(rep.Messages))+" messages")
	default:
		debug.DropMessage("RESULT", "verified "+utils.UtoaComma(uint64(rep.Delivered))+" messages in order")
	}
}

// persistRun appends the report to the history database. Persistence is
// best-effort: a failure is reported and the run's exit code is untouched.
func persistRun(path string, rep *RunReport) {
	if path == "" {
		return
	}
	s, err := benchstore.Open(path)
	if err != nil {
		debug.DropError("HISTORY", err)
		return
	}
	defer s.Close()

	run := &benchstore.Run{
		Started:    rep.Started,
		Mode:       rep.Mode,
		Slots:      rep.Slots,
		Messages:   rep.Messages,
		ProdCore:   rep.ProdCore,
		ConsCore:   rep.ConsCore,
		ProdNanos:  rep.ProdNanos,
		ConsNanos:  rep.ConsNanos,
		ProdMisses: rep.ProdMisses,
		ConsMisses: rep.ConsMisses,
		MsgsPerSec: rep.MsgsPerSec,
	}
	if err := s.RecordRun(run); err != nil {
		debug.DropError("HISTORY", err)
		return
	}
	debug.DropMessage("HISTORY", "recorded run #"+utils.Itoa(int(run.ID)))
}

// printHistory lists the most recent persisted runs, newest first.
func printHistory(path string, n int) {
	s, err := benchstore.Open(path)
	if err != nil {
		debug.DropError("HISTORY", err)
		os.Exit(1)
	}
	defer s.Close()

	runs, err := s.RecentRuns(n)
	if err != nil {
		debug.DropError("HISTORY", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		debug.DropMessage("HISTORY", "no recorded runs in "+path)
		return
	}
	for _, r := range runs {
		debug.DropMessage("RUN", "#"+utils.Itoa(int(r.ID))+" "+
			r.Started.Format(time.RFC3339)+" "+r.Mode+", "+
			utils.Itoa(r.Slots)+" slots, "+
			utils.UtoaComma(uint64(r.Messages))+" msgs, "+
			utils.UtoaComma(uint64(r.MsgsPerSec))+" msgs/sec, cores "+
			utils.Itoa(r.ProdCore)+"/"+utils.Itoa(r.ConsCore))
	}
}

// writeReport marshals the report to path.
func writeReport(path string, rep *RunReport) {
	data, err := sonnet.Marshal(rep)
	if err != nil {
		debug.DropError("REPORT", err)
		return
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		debug.DropError("REPORT", err)
		return
	}
	debug.DropMessage("REPORT", "wrote "+path)
}
