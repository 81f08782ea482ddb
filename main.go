// ════════════════════════════════════════════════════════════════════════════════════════════════
// SPSC Ring Benchmark - Main Entry Point
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Main Entry Point & Run Orchestration
//
// Description:
//   Drives a single-producer/single-consumer throughput run over the ring package.
//   Configure → Pin Cores → Quiesce Runtime → Measure → Verify → Report → Persist
//
// Architecture:
//   - Phase 0: Flag and config-file resolution, history queries
//   - Phase 1: Core selection and signal wiring
//   - Phase 2: Runtime quiesce (GC off) and the measured run
//   - Phase 3: Verification, summary, JSON report, history row
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"flag"
	"os"
	"os/signal"
	"runtime"
	rtdebug "runtime/debug"
	"syscall"
	"time"

	"ringbench/constants"
	"ringbench/control"
	"ringbench/debug"
	"ringbench/utils"

	"github.com/sugawarayuuta/sonnet"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// BenchConfig carries every tunable of a run. Field names double as the
// -config file format; explicitly set flags override file values.
type BenchConfig struct {
	Mode       string `json:"mode"`
	Slots      int    `json:"slots"`
	MaxAlloc   int    `json:"max_alloc"`
	Messages   int64  `json:"messages"`
	SpinBudget int    `json:"spin_budget"`
	ProdCore   int    `json:"producer_core"`
	ConsCore   int    `json:"consumer_core"`
	Realtime   bool   `json:"realtime"`
	HistoryDB  string `json:"history_db"`
	ReportPath string `json:"report_path"`
}

// defaultConfig is the baseline every run starts from before the config
// file and flags are applied. Realtime promotion is attempted by default
// and declined gracefully at run time when the kernel refuses it.
func defaultConfig() *BenchConfig {
	return &BenchConfig{
		Mode:       "int",
		Slots:      constants.DefaultRingSlots,
		MaxAlloc:   constants.DefaultAllocCeiling,
		Messages:   constants.DefaultMessageCount,
		SpinBudget: constants.DefaultSpinBudget,
		ProdCore:   -1,
		ConsCore:   -1,
		Realtime:   true,
		HistoryDB:  constants.DefaultHistoryDB,
	}
}

// parseConfig resolves the run configuration in three layers: built-in
// defaults, then the -config file, then explicitly passed flags. The
// second return is the -history count, which is a query, not a tunable.
func parseConfig() (*BenchConfig, int) {
	cfg := defaultConfig()

	mode := flag.String("mode", cfg.Mode, "payload mode: int or blob")
	slots := flag.Int("slots", cfg.Slots, "ring slots, must be a power of two")
	maxAlloc := flag.Int("maxalloc", cfg.MaxAlloc, "ring allocation ceiling in bytes")
	messages := flag.Int64("n", cfg.Messages, "messages to stream through the ring")
	spin := flag.Int("spin", cfg.SpinBudget, "failed attempts to spin in place before yielding")
	prodCore := flag.Int("prod-core", cfg.ProdCore, "producer core, -1 selects automatically")
	consCore := flag.Int("cons-core", cfg.ConsCore, "consumer core, -1 selects automatically")
	rt := flag.Bool("rt", cfg.Realtime, "attempt SCHED_FIFO for both workers, -rt=false opts out")
	db := flag.String("db", cfg.HistoryDB, "history database path, empty disables persistence")
	reportPath := flag.String("json", cfg.ReportPath, "write the run report to this JSON file")
	configPath := flag.String("config", "", "JSON config file applied before flags")
	history := flag.Int("history", 0, "print the N most recent runs and exit")
	flag.Parse()

	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			debug.DropError("CONFIG", err)
			os.Exit(2)
		}
		if err := sonnet.Unmarshal(data, cfg); err != nil {
			debug.DropError("CONFIG", err)
			os.Exit(2)
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = *mode
		case "slots":
			cfg.Slots = *slots
		case "maxalloc":
			cfg.MaxAlloc = *maxAlloc
		case "n":
			cfg.Messages = *messages
		case "spin":
			cfg.SpinBudget = *spin
		case "prod-core":
			cfg.ProdCore = *prodCore
		case "cons-core":
			cfg.ConsCore = *consCore
		case "rt":
			cfg.Realtime = *rt
		case "db":
			cfg.HistoryDB = *db
		case "json":
			cfg.ReportPath = *reportPath
		}
	})

	return cfg, *history
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// MAIN ORCHESTRATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// main runs one benchmark from configuration to persisted report.
func main() {
	// PHASE 0: Configuration and query modes
	cfg, history := parseConfig()

	if history > 0 {
		printHistory(cfg.HistoryDB, history)
		return
	}

	if cfg.Mode != "int" && cfg.Mode != "blob" {
		debug.DropMessage("CONFIG", "unknown mode "+cfg.Mode+", want int or blob")
		os.Exit(2)
	}
	if cfg.Messages <= 0 {
		debug.DropMessage("CONFIG", "message count must be positive")
		os.Exit(2)
	}
	if cfg.SpinBudget < 1 {
		debug.DropMessage("CONFIG", "spin budget must be at least 1")
		os.Exit(2)
	}

	debug.DropMessage("INIT", cfg.Mode+" mode, "+utils.Itoa(cfg.Slots)+" slots, "+
		utils.UtoaComma(uint64(cfg.Messages))+" messages")

	// PHASE 1: Core placement and signal wiring
	prodCore, consCore := cfg.ProdCore, cfg.ConsCore
	if prodCore < 0 || consCore < 0 {
		prodCore, consCore = autoCores()
	}
	debug.DropMessage("CORES", "producer "+utils.Itoa(prodCore)+", consumer "+utils.Itoa(consCore))

	setupSignalHandling()

	// PHASE 2: Quiesce the runtime, then measure. Two collections plus a
	// release drain the heap; with GC off the workers run undisturbed.
	runtime.GC()
	runtime.GC()
	rtdebug.FreeOSMemory()
	rtdebug.SetGCPercent(-1)

	started := time.Now()
	var st *benchState
	var err error
	switch cfg.Mode {
	case "int":
		st, err = runIntBench(cfg, prodCore, consCore)
	case "blob":
		st, err = runBlobBench(cfg, prodCore, consCore)
	}

	rtdebug.SetGCPercent(100)

	if err != nil {
		debug.DropError("SETUP", err)
		os.Exit(1)
	}

	// PHASE 3: Verification and reporting
	rep := buildReport(cfg, prodCore, consCore, started, st)
	printSummary(rep)
	persistRun(cfg.HistoryDB, rep)
	if cfg.ReportPath != "" {
		writeReport(cfg.ReportPath, rep)
	}

	if rep.Aborted || !rep.Verified {
		os.Exit(1)
	}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// SYSTEM LIFECYCLE MANAGEMENT
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// setupSignalHandling wires SIGINT/SIGTERM to a run abort. The workers
// notice the flag on their yield path and record partial counts, so an
// interrupted run still produces a report. A second signal exits hard.
func setupSignalHandling() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		debug.DropMessage("SIGNAL", "interrupt received, stopping run...")
		control.Shutdown()

		<-sigChan
		debug.DropMessage("SIGNAL", "second interrupt, exiting now")
		os.Exit(130)
	}()
}
