package utils

import (
	"syscall"
	"unsafe"
)

///////////////////////////////////////////////////////////////////////////////
// Raw Output — Direct write(2), No fmt
///////////////////////////////////////////////////////////////////////////////

// PrintWarning writes msg to stderr in a single write(2) call.
// The string's bytes are handed to the kernel without copying.
// ⚠️ Short messages only; partial writes are not retried.
//
//go:nosplit
//go:inline
func PrintWarning(msg string) {
	if len(msg) == 0 {
		return
	}
	_, _ = syscall.Write(2, unsafe.Slice(unsafe.StringData(msg), len(msg)))
}

///////////////////////////////////////////////////////////////////////////////
// Number Formatters — Manual Digit Loops, No strconv
///////////////////////////////////////////////////////////////////////////////

// Itoa renders a signed integer in decimal.
//
//go:nosplit
//go:inline
func Itoa(v int) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	neg := v < 0
	u := uint64(v)
	if neg {
		u = uint64(-v) // MinInt wraps in place; the cast keeps the magnitude
	}
	for u > 0 {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// UtoaComma renders an unsigned integer with thousands separators,
// e.g. 500000000 -> "500,000,000". Used for message counts and
// throughput figures in reports.
//
//go:nosplit
//go:inline
func UtoaComma(v uint64) string {
	var buf [27]byte // 20 digits + 6 separators
	i := len(buf)
	n := 0
	for {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
		n++
		if v == 0 {
			break
		}
		if n%3 == 0 {
			i--
			buf[i] = ','
		}
	}
	return string(buf[i:])
}

// FormatSeconds renders a nanosecond count as seconds with microsecond
// precision, e.g. 1500000 -> "0.001500". Negative inputs clamp to zero.
func FormatSeconds(ns int64) string {
	if ns < 0 {
		ns = 0
	}
	whole := uint64(ns) / 1_000_000_000
	micros := (uint64(ns) % 1_000_000_000) / 1_000
	var frac [6]byte
	for i := 5; i >= 0; i-- {
		frac[i] = byte('0' + micros%10)
		micros /= 10
	}
	return Itoa(int(whole)) + "." + string(frac[:])
}
