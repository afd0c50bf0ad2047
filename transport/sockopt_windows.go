//go:build windows

package transport

import "net"

// applySocketOptions only sets TCP_NODELAY on windows; the raw SO_KEEPALIVE
// option is not applied here, golang.org/x/sys/unix covering POSIX platforms only.
func applySocketOptions(tc *net.TCPConn) {
	_ = tc.SetNoDelay(true)
}
