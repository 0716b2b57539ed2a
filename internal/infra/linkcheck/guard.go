package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"maroc-actualites/internal/domain/entity"
)

// ErrPrivateAddress is returned when a link (or one of its redirect targets) resolves
// to a loopback, private or link-local address.
var ErrPrivateAddress = errors.New("host resolves to private address")

// ErrTooManyRedirects is returned when a redirect chain exceeds Config.MaxRedirects.
var ErrTooManyRedirects = errors.New("too many redirects")

// Resolver is the subset of *net.Resolver used for the private-address guard.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// checkHost resolves hostname and fails with ErrPrivateAddress when any resolved
// address is private. A resolution failure is returned as is: callers treat it as a
// transport error.
func checkHost(ctx context.Context, r Resolver, hostname string) error {
	if ip := net.ParseIP(hostname); ip != nil {
		if entity.IsPrivateIP(ip) {
			return fmt.Errorf("%w: %s", ErrPrivateAddress, hostname)
		}
		return nil
	}

	addrs, err := r.LookupIPAddr(ctx, hostname)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", hostname, err)
	}
	for _, a := range addrs {
		if entity.IsPrivateIP(a.IP) {
			return fmt.Errorf("%w: %s resolves to %s", ErrPrivateAddress, hostname, a.IP)
		}
	}
	return nil
}

// dialControl runs on every outgoing connection, after DNS resolution, so a host that
// resolved publicly for checkHost and privately at dial time is still refused.
func dialControl(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("dial %s: %w", address, err)
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return fmt.Errorf("dial %s: not an IP address", address)
	}
	if entity.IsPrivateIP(ip) {
		return fmt.Errorf("%w: dial %s", ErrPrivateAddress, address)
	}
	return nil
}
