package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		numbers []int32
		want    string
	}{
		{
			name:    "full ticket",
			numbers: []int32{1, 2, 3, 4, 5, 6, 7},
			want:    "1-2-3-4-5-6-7",
		},
		{
			name:    "two digit numbers",
			numbers: []int32{10, 20, 30, 40, 41, 42, 49},
			want:    "10-20-30-40-41-42-49",
		},
		{
			name:    "empty",
			numbers: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, FormatNumbers(tt.numbers))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount int64
		want   string
	}{
		{name: "zero", amount: 0, want: "0"},
		{name: "under a thousand", amount: 999, want: "999"},
		{name: "thousands", amount: 30000, want: "30,000"},
		{name: "millions", amount: 9000000, want: "9,000,000"},
		{name: "negative", amount: -1234567, want: "-1,234,567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, FormatAmount(tt.amount))
		})
	}
}

func TestFormatBasisPoints(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "5%", FormatBasisPoints(500))
	assert.Equal(t, "30%", FormatBasisPoints(3000))
	assert.Equal(t, "12.50%", FormatBasisPoints(1250))
}
