// Package safeurl rejects caller-supplied fetch targets that could reach
// internal infrastructure.
package safeurl

import (
	"errors"
	"net/netip"
	"net/url"
	"strings"
)

var (
	ErrNotHTTPS       = errors.New("url must use https")
	ErrHostDisallowed = errors.New("url host is not allowed")
)

// Check parses raw and rejects anything that is not a public HTTPS URL.
// Loopback, RFC1918, link-local, unique-local and unspecified addresses are
// refused, as is localhost by name.
func Check(raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ErrHostDisallowed
	}
	if !strings.EqualFold(parsed.Scheme, "https") {
		return ErrNotHTTPS
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return ErrHostDisallowed
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return ErrHostDisallowed
	}

	addr, err := netip.ParseAddr(strings.Trim(host, "[]"))
	if err != nil {
		// Not an address literal; name resolution happens at fetch time
		// against a host that already passed the name checks above.
		return nil
	}

	if addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() || addr.IsUnspecified() {
		return ErrHostDisallowed
	}
	if addr.Is6() && isUniqueLocal(addr) {
		return ErrHostDisallowed
	}

	return nil
}

// isUniqueLocal reports whether addr sits in fc00::/7.
func isUniqueLocal(addr netip.Addr) bool {
	b := addr.As16()
	return b[0]&0xfe == 0xfc
}
