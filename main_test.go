package main

import (
	"testing"

	"ringbench/constants"
)

// TestDefaultConfig confirms the baseline a run starts from when no
// config file or flags are given. Realtime promotion is requested by
// default and merely warned about when the kernel declines, so an
// unprivileged run still completes; -rt=false is the explicit opt-out.
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Mode != "int" {
		t.Errorf("Mode = %q, want \"int\"", cfg.Mode)
	}
	if cfg.Slots != constants.DefaultRingSlots {
		t.Errorf("Slots = %d, want %d", cfg.Slots, constants.DefaultRingSlots)
	}
	if cfg.MaxAlloc != constants.DefaultAllocCeiling {
		t.Errorf("MaxAlloc = %d, want %d", cfg.MaxAlloc, constants.DefaultAllocCeiling)
	}
	if cfg.Messages != constants.DefaultMessageCount {
		t.Errorf("Messages = %d, want %d", cfg.Messages, constants.DefaultMessageCount)
	}
	if cfg.SpinBudget != constants.DefaultSpinBudget {
		t.Errorf("SpinBudget = %d, want %d", cfg.SpinBudget, constants.DefaultSpinBudget)
	}
	if cfg.ProdCore != -1 || cfg.ConsCore != -1 {
		t.Errorf("cores = %d, %d, want -1, -1 for automatic placement", cfg.ProdCore, cfg.ConsCore)
	}
	if !cfg.Realtime {
		t.Error("Realtime = false, want the promotion attempted by default")
	}
	if cfg.HistoryDB != constants.DefaultHistoryDB {
		t.Errorf("HistoryDB = %q, want %q", cfg.HistoryDB, constants.DefaultHistoryDB)
	}
	if cfg.ReportPath != "" {
		t.Errorf("ReportPath = %q, want unset", cfg.ReportPath)
	}
}
