package security

import (
	"fmt"
	"net/netip"
	"strings"
)

// OriginFilter checks inbound webhook source addresses against the payment
// gateway's published CIDR ranges. Matching is pure: no side effects, no
// lookups outside the configured list.
type OriginFilter struct {
	prefixes []netip.Prefix
}

func NewOriginFilter(cidrs []string) (*OriginFilter, error) {
	prefixes := make([]netip.Prefix, 0, len(cidrs))
	for _, cidr := range cidrs {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(cidr)
		if err != nil {
			return nil, fmt.Errorf("origin filter: invalid cidr %q: %w", cidr, err)
		}
		prefixes = append(prefixes, prefix.Masked())
	}
	return &OriginFilter{prefixes: prefixes}, nil
}

// Allowed reports whether ip falls inside any allowlisted range. IPv4
// addresses reported in IPv6-mapped form (::ffff:127.0.0.1) are unmapped
// before matching so both loopback representations behave the same.
func (f *OriginFilter) Allowed(ip string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}
	addr = addr.Unmap()

	for _, prefix := range f.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
