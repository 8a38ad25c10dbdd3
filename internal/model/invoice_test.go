package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFitsMoneyScale(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"100", true},
		{"100.5", true},
		{"100.55", true},
		{"100.550", true},
		{"-3.10", true},
		{"99.999", false},
		{"0.001", false},
		{"100.005", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FitsMoneyScale(decimal.RequireFromString(tt.in)), tt.in)
	}
}
