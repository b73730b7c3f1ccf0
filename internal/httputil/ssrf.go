package httputil

import (
	"fmt"
	"net"
)

// blockedRanges lists the address classes a redirect may not land on, in
// the order they are checked.
var blockedRanges = []struct {
	name    string
	matches func(net.IP) bool
}{
	{"private IP", net.IP.IsPrivate},
	{"loopback IP", net.IP.IsLoopback},
	// includes cloud metadata endpoints such as 169.254.169.254
	{"link-local IP", net.IP.IsLinkLocalUnicast},
	{"link-local multicast", net.IP.IsLinkLocalMulticast},
	{"multicast IP", net.IP.IsMulticast},
	{"unspecified IP", net.IP.IsUnspecified},
}

// ValidateIP returns an error if ip is private (RFC 1918 / RFC 4193),
// loopback, link-local, multicast or unspecified. host is only used in the
// error message.
func ValidateIP(ip net.IP, host string) error {
	for _, r := range blockedRanges {
		if r.matches(ip) {
			return fmt.Errorf("refusing redirect to %s: %s (%s)", r.name, host, ip)
		}
	}
	return nil
}
