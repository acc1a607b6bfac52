package orders

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const orderNumberPrefix = "ORD"

// newOrderNumber returns a number like ORD20260830A1B2C3: a date component
// for humans plus a random suffix. Uniqueness is still enforced by the
// database index.
func newOrderNumber(now time.Time) (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate order number: %w", err)
	}
	suffix := strings.ToUpper(hex.EncodeToString(buf))
	return orderNumberPrefix + now.Format("20060102") + suffix, nil
}
