package services

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// DisplayIDFunc produces a cosmetic card identifier such as "OEF-4821". Values are not
// unique, not stored and not verifiable.
type DisplayIDFunc func() string

func NewDisplayIDFunc(prefix string) DisplayIDFunc {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "OEF"
	}
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, 1000+rand.IntN(9000))
	}
}
