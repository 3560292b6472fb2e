package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateOrderCode produces a human-readable receipt code of the form
// YYYYMMDD-HHMMSS-NNNN. Two calls within the same second have a 1-in-10000
// collision chance, which is acceptable for receipts but makes the code
// unusable as an idempotency key.
func GenerateOrderCode() string {
	return orderCodeAt(time.Now(), rand.Intn(10000))
}

func orderCodeAt(t time.Time, suffix int) string {
	return fmt.Sprintf("%s-%04d", t.Format("20060102-150405"), suffix)
}
