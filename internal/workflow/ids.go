package workflow

import (
	"fmt"
	"strings"
	"time"
)

// RequestID formats the human-facing request identifier {admissionNo}_{seq:03d}_{MMDD},
// where seq is one more than the number of requests the admission number already owns.
func RequestID(admissionNo string, priorCount int, now time.Time) string {
	if priorCount < 0 {
		priorCount = 0
	}
	return fmt.Sprintf("%s_%03d_%02d%02d", strings.TrimSpace(admissionNo), priorCount+1, int(now.Month()), now.Day())
}
