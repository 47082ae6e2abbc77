// internal/app/system/clientinfo/clientinfo.go
package clientinfo

import (
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

// ClientIP extracts the client IP from the request, respecting common
// proxy headers (X-Forwarded-For, then X-Real-IP) before falling back to
// RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// XFF may contain a list; first is the original client
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xr := r.Header.Get("X-Real-IP"); xr != "" {
		return strings.TrimSpace(xr)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// DeviceSummary renders a short human-readable label ("Chrome on Linux",
// "Safari on iOS (mobile)") from a raw User-Agent string. It is used only
// for display alongside recent activity; session derivation never
// interprets the User-Agent.
func DeviceSummary(userAgentString string) string {
	if userAgentString == "" {
		return ""
	}

	ua := useragent.New(userAgentString)
	browser, _ := ua.Browser()
	browser = strings.TrimSpace(browser)
	if browser == "" {
		browser = "Unknown browser"
	}

	os := strings.TrimSpace(ua.OS())
	if os == "" {
		os = "unknown OS"
	}

	label := browser + " on " + os
	if ua.Mobile() {
		label += " (mobile)"
	}
	if ua.Bot() {
		label += " (bot)"
	}
	return label
}
