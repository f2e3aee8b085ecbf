package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOriginFilter_Allowed(t *testing.T) {
	filter, err := NewOriginFilter([]string{
		"203.0.113.0/24",
		"198.51.100.0/24",
		"127.0.0.0/8",
		"::1/128",
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		ip      string
		allowed bool
	}{
		{"production range", "203.0.113.42", true},
		{"production range edge", "203.0.113.255", true},
		{"sandbox range", "198.51.100.1", true},
		{"ipv4 loopback", "127.0.0.1", true},
		{"ipv4 loopback high", "127.255.255.254", true},
		{"ipv6 loopback", "::1", true},
		{"ipv4-mapped ipv6 loopback", "::ffff:127.0.0.1", true},
		{"outside all ranges", "203.0.114.1", false},
		{"public internet", "8.8.8.8", false},
		{"other ipv6", "2001:db8::1", false},
		{"garbage", "not-an-ip", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, filter.Allowed(tt.ip))
		})
	}
}

func TestOriginFilter_EmptyListDeniesAll(t *testing.T) {
	filter, err := NewOriginFilter(nil)
	require.NoError(t, err)

	assert.False(t, filter.Allowed("127.0.0.1"))
	assert.False(t, filter.Allowed("203.0.113.1"))
}

func TestNewOriginFilter_InvalidCIDR(t *testing.T) {
	_, err := NewOriginFilter([]string{"203.0.113.0/24", "nonsense"})
	assert.Error(t, err)
}

func TestNewOriginFilter_SkipsBlankEntries(t *testing.T) {
	filter, err := NewOriginFilter([]string{" 127.0.0.0/8 ", "", "  "})
	require.NoError(t, err)

	assert.True(t, filter.Allowed("127.0.0.1"))
}
