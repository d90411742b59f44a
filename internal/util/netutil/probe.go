// Package netutil provides single-shot network probes used by readiness gates.
package netutil

import (
	"context"
	"net"
	"time"
)

// dialTimeout bounds a single TCP connect attempt so a silently dropped
// SYN does not stall the caller's budget accounting for long.
const dialTimeout = 2 * time.Second

// PortOpen reports whether a TCP connection to host:port can be
// established. The connection is closed immediately on success.
func PortOpen(host string, port string) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port), dialTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Resolves reports whether name resolves to at least one address.
func Resolves(ctx context.Context, name string) bool {
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	addrs, err := net.DefaultResolver.LookupHost(ctx, name)
	return err == nil && len(addrs) > 0
}
