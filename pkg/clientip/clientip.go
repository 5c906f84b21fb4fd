package clientip

import (
	"net"
	"net/http"
)

// FromRequest returns the requester's address. It expects chi's RealIP
// middleware to have rewritten RemoteAddr from the forwarded-for headers
// when they are present, which keeps the original trust model: the header
// wins over the connection address and is not verified.
func FromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
