package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastTail(t *testing.T) {
	tests := []struct {
		in     string
		digits string
		length int
	}{
		{"XXXX XXXX XXXX 1234", "1234", 4},
		{"**56", "56", 2},
		{"4111 1111 1111 1234", "1234", 4},
		{"Card ending XX12", "12", 2},
		{"card ****9876 primary", "9876", 4},
		{"nothing to see", "", 0},
	}

	for _, tt := range tests {
		digits, n := LastTail(tt.in)
		assert.Equal(t, tt.digits, digits, tt.in)
		assert.Equal(t, tt.length, n, tt.in)
	}
}

func TestCardMask(t *testing.T) {
	assert.Equal(t, "XXXX 1234", CardMask("1234", 4))
	assert.Equal(t, "XXXX XX12", CardMask("12", 2))
}
