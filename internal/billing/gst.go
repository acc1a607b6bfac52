package billing

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/premiumretail/retailer-platform-backend/pkg/errors"
)

const billNumberPrefix = "BILL"

var oneHundred = decimal.NewFromInt(100)

// splitGST decomposes a tax-inclusive total into subtotal and GST at the
// given percent rate. The subtotal is rounded half-up to two places and the
// GST amount is the exact remainder, so the two parts always recompose the
// total to the paisa.
func splitGST(total decimal.Decimal, ratePercent decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if total.IsNegative() {
		return decimal.Zero, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "total must not be negative")
	}
	if ratePercent.IsNegative() {
		return decimal.Zero, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "gst rate must not be negative")
	}

	divisor := decimal.NewFromInt(1).Add(ratePercent.Div(oneHundred))
	subtotal := total.DivRound(divisor, 2)
	gst := total.Sub(subtotal)
	return subtotal, gst, nil
}

// newBillNumber returns a number like BILL20260830A1B2C3D4. Uniqueness is
// still enforced by the database index.
func newBillNumber(now time.Time) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate bill number: %w", err)
	}
	suffix := strings.ToUpper(hex.EncodeToString(buf))
	return billNumberPrefix + now.Format("20060102") + suffix, nil
}
