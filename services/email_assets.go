package services

import (
	"fmt"
	"html/template"
	"strings"
)

// renderLogos turns a comma/semicolon separated list of image URLs into a centred logo row.
func renderLogos(raw, alt string) string {
	urls := parseLogoList(raw)
	if len(urls) == 0 {
		return ""
	}

	snippets := make([]string, 0, len(urls))
	for _, url := range urls {
		if snippet := renderLogoURL(url, alt); snippet != "" {
			snippets = append(snippets, snippet)
		}
	}
	if len(snippets) == 0 {
		return ""
	}

	return fmt.Sprintf(`<div style="text-align:center;margin:0 auto 18px auto;">%s</div>`, strings.Join(snippets, ""))
}

func renderLogoURL(url, alt string) string {
	escaped := template.HTMLEscapeString(strings.TrimSpace(url))
	if escaped == "" {
		return ""
	}
	return fmt.Sprintf(`<span style="display:inline-block;margin:0 12px;"><img src="%s" alt="%s" style="display:block;height:64px;width:auto;max-width:100%%;" /></span>`,
		escaped, template.HTMLEscapeString(alt))
}

func parseLogoList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case ',', ';', '\n', '\r':
			return true
		}
		return false
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
