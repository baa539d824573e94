package services

import "crypto/subtle"

// VerifyApprovalToken reports whether provided equals the configured secret. An empty secret
// never matches.
func VerifyApprovalToken(secret, provided string) error {
	if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(provided)) != 1 {
		return &AuthorizationError{Code: ErrCodeTokenInvalid, Message: "invalid approval token"}
	}
	return nil
}
