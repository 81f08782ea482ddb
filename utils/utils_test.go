package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"
)

func TestItoa(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected string
	}{
		{
			name:     "Zero",
			input:    0,
			expected: "0",
		},
		{
			name:     "Single digit",
			input:    5,
			expected: "5",
		},
		{
			name:     "Two digits",
			input:    42,
			expected: "42",
		},
		{
			name:     "Negative",
			input:    -42,
			expected: "-42",
		},
		{
			name:     "Large number",
			input:    987654321,
			expected: "987654321",
		},
		{
			name:     "Maximum int64",
			input:    math.MaxInt64,
			expected: "9223372036854775807",
		},
		{
			name:     "Minimum int64",
			input:    math.MinInt64,
			expected: "-9223372036854775808",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Itoa(tt.input)
			if result != tt.expected {
				t.Errorf("Itoa(%d) = %q, expected %q", tt.input, result, tt.expected)
			}

			// Cross-verify with standard library
			stdResult := strconv.Itoa(tt.input)
			if result != stdResult {
				t.Errorf("Itoa(%d) = %q, strconv.Itoa = %q", tt.input, result, stdResult)
			}
		})
	}
}

func TestItoa_EdgeCases(t *testing.T) {
	// Digit-count boundaries on both sides of zero
	testCases := []int{1, 9, 10, 99, 100, 999, 1000, 9999, 10000, -1, -9, -10, -99, -100}

	for _, n := range testCases {
		t.Run(fmt.Sprintf("boundary_%d", n), func(t *testing.T) {
			result := Itoa(n)
			expected := strconv.Itoa(n)
			if result != expected {
				t.Errorf("Itoa(%d) = %q, expected %q", n, result, expected)
			}
		})
	}
}

func TestItoa_ZeroAllocation(t *testing.T) {
	allocs := testing.AllocsPerRun(1000, func() {
		_ = Itoa(12345)
	})

	if allocs > 1 { // Allow one allocation for string creation
		t.Errorf("Itoa() should minimize allocations: %f allocs/op", allocs)
	}
}

func TestUtoaComma(t *testing.T) {
	tests := []struct {
		name     string
		input    uint64
		expected string
	}{
		{
			name:     "Zero",
			input:    0,
			expected: "0",
		},
		{
			name:     "Below first separator",
			input:    999,
			expected: "999",
		},
		{
			name:     "First separator",
			input:    1000,
			expected: "1,000",
		},
		{
			name:     "Five digits",
			input:    12345,
			expected: "12,345",
		},
		{
			name:     "Six digits",
			input:    999999,
			expected: "999,999",
		},
		{
			name:     "Seven digits",
			input:    1000000,
			expected: "1,000,000",
		},
		{
			name:     "Default message count",
			input:    500000000,
			expected: "500,000,000",
		},
		{
			name:     "Maximum uint64",
			input:    math.MaxUint64,
			expected: "18,446,744,073,709,551,615",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := UtoaComma(tt.input)
			if result != tt.expected {
				t.Errorf("UtoaComma(%d) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestUtoaComma_MatchesUngrouped(t *testing.T) {
	// Stripping separators must recover the plain decimal rendering
	testCases := []uint64{1, 12, 123, 1234, 12345, 123456, 1234567, 98765432109876}

	for _, n := range testCases {
		t.Run(fmt.Sprintf("value_%d", n), func(t *testing.T) {
			plain := strings.ReplaceAll(UtoaComma(n), ",", "")
			expected := strconv.FormatUint(n, 10)
			if plain != expected {
				t.Errorf("UtoaComma(%d) stripped = %q, expected %q", n, plain, expected)
			}
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{
			name:     "Zero",
			input:    0,
			expected: "0.000000",
		},
		{
			name:     "Below a microsecond",
			input:    999,
			expected: "0.000000",
		},
		{
			name:     "One microsecond",
			input:    1000,
			expected: "0.000001",
		},
		{
			name:     "Fractional",
			input:    1500000,
			expected: "0.001500",
		},
		{
			name:     "Truncates sub-microsecond",
			input:    123456789,
			expected: "0.123456",
		},
		{
			name:     "Whole second",
			input:    1000000000,
			expected: "1.000000",
		},
		{
			name:     "Seconds and fraction",
			input:    2500000000,
			expected: "2.500000",
		},
		{
			name:     "Negative clamps to zero",
			input:    -5,
			expected: "0.000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatSeconds(tt.input)
			if result != tt.expected {
				t.Errorf("FormatSeconds(%d) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestPrintWarning(t *testing.T) {
	// Note: This test doesn't capture stderr output but verifies the function doesn't panic
	testCases := []string{
		"",
		"Warning: test message",
		"Message with unicode: 测试警告消息",
		strings.Repeat("Long message ", 100),
	}

	for _, msg := range testCases {
		PrintWarning(msg)
	}
}
