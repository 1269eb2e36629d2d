package pkg

import (
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
)

var (
	localDockerIpRegex = regexp.MustCompile(`^172\.\d{1,3}\.0\.1:\d{1,5}`)
)

func IPIsLocal(ipAddr string) bool {
	// used in local development ?
	if strings.HasPrefix(ipAddr, "127.0.0.1:") || strings.HasPrefix(ipAddr, "[::1]:") {
		return true
	}

	// user within docker container ?
	return localDockerIpRegex.MatchString(ipAddr)
}

// ReadUserIP returns the client IP used to key per-client limits.
// Proxy headers are honored only when the direct peer is a loopback or
// private address (the reverse proxy); then X-Real-Ip wins, else the
// right-most X-Forwarded-For hop, the one our proxy appended. Anything a
// client writes into those headers is ignored when it connects directly.
// Local addresses are reported as "localhost".
func ReadUserIP(r *http.Request) (string, error) {
	ipAddr := r.RemoteAddr
	if fromTrustedProxy(r.RemoteAddr) {
		if realIP := strings.TrimSpace(r.Header.Get("X-Real-Ip")); realIP != "" {
			ipAddr = realIP
		} else if hop := lastForwardedHop(r.Header.Values("X-Forwarded-For")); hop != "" {
			ipAddr = hop
		}
	}

	if IPIsLocal(ipAddr) {
		return "localhost", nil
	}

	if host, _, err := net.SplitHostPort(ipAddr); err == nil {
		ipAddr = host
	}

	if ip := net.ParseIP(ipAddr); ip == nil {
		return "", fmt.Errorf("ip addr %s is invalid", ipAddr)
	}

	return ipAddr, nil
}

func fromTrustedProxy(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
}

// lastForwardedHop returns the right-most entry over all X-Forwarded-For lines.
func lastForwardedHop(values []string) string {
	for i := len(values) - 1; i >= 0; i-- {
		hops := strings.Split(values[i], ",")
		for j := len(hops) - 1; j >= 0; j-- {
			if hop := strings.TrimSpace(hops[j]); hop != "" {
				return hop
			}
		}
	}
	return ""
}
