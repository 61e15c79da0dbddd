package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"₹1,23,456.78", 123456.78},
		{"(1,234.00)", 1234.00},
		{"0.00 CR", 0},
		{"₹0", 0},
		{"Rs. 5,000.50 DR", 5000.50},
		{"1,234,567.89", 1234567.89},
		{"12,345.00", 12345.00},
		{"INR 250", 250},
		{"12345", 12345},
		{"`1,500.00", 1500},
		{"0.5", 0.5},
		{"₹ 9,999.9,", 9999.9},
	}

	for _, tt := range tests {
		got, ok := ParseAmount(tt.in)
		assert.True(t, ok, tt.in)
		assert.InDelta(t, tt.want, got, 0.0001, tt.in)
	}
}

func TestParseAmountRejectsIDs(t *testing.T) {
	_, ok := ParseAmount("123456789012")
	assert.False(t, ok, "12-digit customer id must not become an amount")

	_, ok = ParseAmount("₹123456789012")
	assert.False(t, ok, "values above the ceiling are rejected")

	_, ok = ParseAmount("")
	assert.False(t, ok)

	_, ok = ParseAmount("Rs.")
	assert.False(t, ok)
}

func TestAmountPatternFindsTokenInWindow(t *testing.T) {
	assert.Equal(t, "₹12,345.00", AmountPattern.FindString(" ₹12,345.00\nMinimum Amount Due ₹500.00"))
	assert.Equal(t, "(1,234.00)", AmountPattern.FindString(": (1,234.00)"))
	assert.Equal(t, "0.00 CR", AmountPattern.FindString(" 0.00 CR as of"))
}
