package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanReadableSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{10 << 20, "10.00 MB"},
		{1 << 30, "1.00 GB"},
		{1 << 50, "1024.00 TB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, HumanReadableSize(tt.bytes))
		})
	}
}
