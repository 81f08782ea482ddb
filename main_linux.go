//go:build linux
// +build linux

// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: main_linux.go — Linux thread placement (sched syscalls)
//
// Purpose:
//   - Pins worker threads to explicit cores via sched_setaffinity(2)
//   - Optionally promotes workers to SCHED_FIFO via sched_setscheduler(2)
//   - Ranks cores by /proc/stat idle share when no placement is given
//
// Notes:
//   - Affinity masks for CPUs 0-63 are precomputed in read-only data;
//     cores ≥ 64 are left to the scheduler
//   - Pin failures are reported and the run continues unpinned
//
// ⚠️ Realtime promotion needs CAP_SYS_NICE; without it the request fails
//   and the workers stay in the normal class.
// ─────────────────────────────────────────────────────────────────────────────

package main

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"
	"unsafe"

	"ringbench/constants"
	"ringbench/debug"
)

const schedFIFO = 1

// schedParam mirrors struct sched_param for sched_setscheduler(2).
type schedParam struct {
	priority int32
}

// Pre-computed one-word affinity masks for logical CPUs 0-63.
var cpuMasks = [...][1]uintptr{
	{1 << 0}, {1 << 1}, {1 << 2}, {1 << 3}, {1 << 4}, {1 << 5}, {1 << 6}, {1 << 7},
	{1 << 8}, {1 << 9}, {1 << 10}, {1 << 11}, {1 << 12}, {1 << 13}, {1 << 14}, {1 << 15},
	{1 << 16}, {1 << 17}, {1 << 18}, {1 << 19}, {1 << 20}, {1 << 21}, {1 << 22}, {1 << 23},
	{1 << 24}, {1 << 25}, {1 << 26}, {1 << 27}, {1 << 28}, {1 << 29}, {1 << 30}, {1 << 31},
	{1 << 32}, {1 << 33}, {1 << 34}, {1 << 35}, {1 << 36}, {1 << 37}, {1 << 38}, {1 << 39},
	{1 << 40}, {1 << 41}, {1 << 42}, {1 << 43}, {1 << 44}, {1 << 45}, {1 << 46}, {1 << 47},
	{1 << 48}, {1 << 49}, {1 << 50}, {1 << 51}, {1 << 52}, {1 << 53}, {1 << 54}, {1 << 55},
	{1 << 56}, {1 << 57}, {1 << 58}, {1 << 59}, {1 << 60}, {1 << 61}, {1 << 62}, {1 << 63},
}

// pinThread binds the current OS thread to a single logical CPU. The
// caller must have locked the goroutine to its thread first.
func pinThread(core int) {
	if core < 0 || core >= len(cpuMasks) {
		return
	}
	mask := &cpuMasks[core]
	_, _, errno := syscall.RawSyscall(
		syscall.SYS_SCHED_SETAFFINITY,
		0, // pid 0 → current thread
		uintptr(unsafe.Sizeof(mask[0])),
		uintptr(unsafe.Pointer(mask)),
	)
	if errno != 0 {
		debug.DropError("AFFINITY", errno)
	}
}

// setRealtime moves the current thread into SCHED_FIFO at the configured
// priority. Returns the errno as an error when the kernel declines.
func setRealtime() error {
	param := schedParam{priority: constants.RealtimePriority}
	_, _, errno := syscall.RawSyscall(
		syscall.SYS_SCHED_SETSCHEDULER,
		0, // pid 0 → current thread
		schedFIFO,
		uintptr(unsafe.Pointer(&param)),
	)
	if errno != 0 {
		return errno
	}
	return nil
}

// cpuSample is one core's cumulative jiffy counters from /proc/stat.
type cpuSample struct {
	idle  uint64
	total uint64
}

// parseCPUSamples extracts the per-core counters from a /proc/stat
// snapshot. Line position gives the core number; the aggregate "cpu "
// line and every non-cpu line are skipped.
func parseCPUSamples(data []byte) []cpuSample {
	var samples []cpuSample
	for _, line := range strings.Split(string(data), "\n") {
		if len(line) < 4 || !strings.HasPrefix(line, "cpu") || line[3] == ' ' {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		var s cpuSample
		for i := 1; i < len(fields); i++ {
			v, err := strconv.ParseUint(fields[i], 10, 64)
			if err != nil {
				continue
			}
			s.total += v
			if i == 4 { // idle column
				s.idle = v
			}
		}
		samples = append(samples, s)
	}
	return samples
}

// readCPUSamples snapshots the per-core counters of /proc/stat.
func readCPUSamples() ([]cpuSample, error) {
	data, err := os.ReadFile("/proc/stat")
	if err != nil {
		return nil, err
	}
	return parseCPUSamples(data), nil
}

// pickIdlePair ranks every core by its idle share across two snapshots
// and returns the two most idle, best first. Cores whose counters did
// not advance between the snapshots are unrankable and skipped; -1
// marks a slot that could not be filled.
func pickIdlePair(before, after []cpuSample) (best, second int) {
	best, second = -1, -1
	n := len(after)
	if len(before) < n {
		n = len(before)
	}
	var bestRatio, secondRatio float64
	for i := 0; i < n; i++ {
		dTotal := after[i].total - before[i].total
		if dTotal == 0 {
			continue
		}
		ratio := float64(after[i].idle-before[i].idle) / float64(dTotal)
		switch {
		case best < 0 || ratio > bestRatio:
			second, secondRatio = best, bestRatio
			best, bestRatio = i, ratio
		case second < 0 || ratio > secondRatio:
			second, secondRatio = i, ratio
		}
	}
	return best, second
}

// autoCores observes every core's idle share over a short window and
// returns the two least busy. The consumer gets the most idle core; it
// is the side that must never fall behind.
func autoCores() (prodCore, consCore int) {
	prodCore, consCore = 0, 1
	if runtime.NumCPU() < 2 {
		return 0, 0
	}

	before, err := readCPUSamples()
	if err != nil {
		debug.DropError("CORESCAN", err)
		return
	}
	time.Sleep(constants.CoreSampleMillis * time.Millisecond)
	after, err := readCPUSamples()
	if err != nil {
		debug.DropError("CORESCAN", err)
		return
	}

	best, second := pickIdlePair(before, after)
	if best < 0 || second < 0 {
		return
	}
	return second, best
}
