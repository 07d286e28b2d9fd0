package apiutil

import (
	"net"
	"net/http"
)

// ClientIP returns the peer address of the request. Forwarding headers are
// ignored because the service is not configured to trust a proxy.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
