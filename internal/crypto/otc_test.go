package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTC(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code, err := GenerateOTC()
		require.NoError(t, err)
		assert.Len(t, code, OTCDigits)
		assert.True(t, IsOTC(code), "code %q must be 6 digits", code)
		seen[code] = struct{}{}
	}
	// 200 кодов из 10^6 практически никогда не совпадают все
	assert.Greater(t, len(seen), 150)
}

func TestIsOTC(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"000000", true},
		{"123456", true},
		{"999999", true},
		{"12345", false},
		{"1234567", false},
		{"12a456", false},
		{"", false},
		{"١٢٣٤٥٦", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsOTC(tt.code), tt.code)
	}
}
