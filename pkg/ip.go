package pkg

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP resolves the address of the calling client, preferring the
// headers set by the reverse proxy. Empty when nothing usable is found.
func ClientIP(r *http.Request) string {
	if ip := parseIP(r.Header.Get("X-Real-Ip")); ip != "" {
		return ip
	}

	// the first entry is the original client
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := parseIP(first); ip != "" {
			return ip
		}
	}

	return parseIP(r.RemoteAddr)
}

func parseIP(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	ip := net.ParseIP(addr)
	if ip == nil {
		return ""
	}
	return ip.String()
}
