package models

import (
	"net/url"
	"strings"
)

// ApprovalAction is reconstructed from query parameters on every approval link visit.
// Nothing about it is stored; two visits of the same link are indistinguishable.
type ApprovalAction struct {
	Email     string `form:"email"`
	Token     string `form:"token"`
	Name      string `form:"name"`
	Interest  string `form:"interest"`
	DisplayID string `form:"-"`
}

// IDCard is the data shown on the printable card.
type IDCard struct {
	Email    string `form:"email"`
	ID       string `form:"id"`
	Name     string `form:"name"`
	Interest string `form:"interest"`
}

// ApprovalURL builds <base>/approve?email=..&token=..[&name=..][&interest=..].
func ApprovalURL(base, email, token, name, interest string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)
	if name != "" {
		q.Set("name", name)
	}
	if interest != "" {
		q.Set("interest", interest)
	}
	return joinURL(base, "approve") + "?" + q.Encode()
}

// CardURL builds <base>/download-id?email=..&id=..[&name=..][&interest=..].
func CardURL(base string, card IDCard) string {
	q := url.Values{}
	q.Set("email", card.Email)
	q.Set("id", card.ID)
	if card.Name != "" {
		q.Set("name", card.Name)
	}
	if card.Interest != "" {
		q.Set("interest", card.Interest)
	}
	return joinURL(base, "download-id") + "?" + q.Encode()
}

func joinURL(base, path string) string {
	base = strings.TrimSpace(base)
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + path
}
