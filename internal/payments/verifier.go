package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier checks Razorpay payment signatures: the gateway signs
// "<order_id>|<payment_id>" with the key secret using HMAC-SHA256 and sends
// the hex digest back with the payment.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify fails closed: any empty input or missing secret reports false
// rather than erroring.
func (v *Verifier) Verify(gatewayOrderID, gatewayPaymentID, signature string) bool {
	if len(v.secret) == 0 || gatewayOrderID == "" || gatewayPaymentID == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign produces the signature the gateway would send for the given pair.
// Used by tests and local tooling.
func (v *Verifier) Sign(gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
