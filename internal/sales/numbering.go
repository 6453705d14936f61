package sales

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const saleNumberPrefix = "SL"

// nextSaleNumber derives the next human-readable sale number from the
// globally last-inserted one. Format: SL<YYYYMMDD><4-digit sequence>,
// restarting at 0001 on the first sale of each calendar day. The sequence
// past 9999 within one day is deliberately left unguarded; the formatted
// suffix simply grows.
//
// The read-then-increment is racy by construction: two concurrent sales can
// derive the same number. The unique constraint on sale_number turns that
// race into an insert conflict the caller retries.
func nextSaleNumber(last string, now time.Time) string {
	prefix := saleNumberPrefix + now.Format("20060102")
	sequence := 1
	if strings.HasPrefix(last, prefix) {
		if n, err := strconv.Atoi(last[len(prefix):]); err == nil {
			sequence = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, sequence)
}
