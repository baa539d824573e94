package controllers

import (
	"net"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// publicBaseURL returns the externally reachable base of this service. The configured value
// may list several candidates; the first public one wins. Without configuration the
// request's own scheme and host are used.
func publicBaseURL(c *gin.Context, configured string) string {
	if base := chooseBaseURL(configured, true); base != "" {
		return base
	}
	return requestBaseURL(c)
}

func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := strings.TrimSpace(strings.Split(c.GetHeader("X-Forwarded-Proto"), ",")[0]); proto == "http" || proto == "https" {
		scheme = proto
	}
	host := c.Request.Host
	if fwd := strings.TrimSpace(c.GetHeader("X-Forwarded-Host")); fwd != "" {
		host = fwd
	}
	return normalizeBaseURL(scheme + "://" + host)
}

func normalizeBaseURL(candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if !strings.HasSuffix(trimmed, "/") {
		trimmed += "/"
	}
	return trimmed
}

func chooseBaseURL(raw string, preferPublic bool) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	candidates := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' })

	var fallback string
	for _, candidate := range candidates {
		normalized := normalizeBaseURL(candidate)
		if normalized == "" {
			continue
		}
		if fallback == "" {
			fallback = normalized
		}
		if !preferPublic || isPublicBaseURL(normalized) {
			return normalized
		}
	}

	return fallback
}

func isPublicBaseURL(candidate string) bool {
	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	if strings.EqualFold(host, "localhost") {
		return false
	}
	if ip := net.ParseIP(host); ip != nil {
		return !ip.IsLoopback()
	}
	return true
}
