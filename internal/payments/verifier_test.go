package payments

import "testing"

func TestVerifier_Verify(t *testing.T) {
	verifier := NewVerifier("test-secret")

	t.Run("accepts a signature produced with the shared secret", func(t *testing.T) {
		signature := verifier.Sign("order_abc", "pay_xyz")
		if !verifier.Verify("order_abc", "pay_xyz", signature) {
			t.Error("expected valid signature to verify")
		}
	})

	t.Run("rejects a signature over different identifiers", func(t *testing.T) {
		signature := verifier.Sign("order_abc", "pay_xyz")
		if verifier.Verify("order_abc", "pay_other", signature) {
			t.Error("expected mismatched payment id to fail")
		}
		if verifier.Verify("order_other", "pay_xyz", signature) {
			t.Error("expected mismatched order id to fail")
		}
	})

	t.Run("rejects a signature produced with another secret", func(t *testing.T) {
		other := NewVerifier("other-secret")
		signature := other.Sign("order_abc", "pay_xyz")
		if verifier.Verify("order_abc", "pay_xyz", signature) {
			t.Error("expected foreign signature to fail")
		}
	})

	t.Run("fails closed on malformed input", func(t *testing.T) {
		signature := verifier.Sign("order_abc", "pay_xyz")

		if verifier.Verify("", "pay_xyz", signature) {
			t.Error("expected empty order id to fail")
		}
		if verifier.Verify("order_abc", "", signature) {
			t.Error("expected empty payment id to fail")
		}
		if verifier.Verify("order_abc", "pay_xyz", "") {
			t.Error("expected empty signature to fail")
		}
		if verifier.Verify("order_abc", "pay_xyz", "not-hex-not-right-length") {
			t.Error("expected garbage signature to fail")
		}
	})

	t.Run("fails closed without a configured secret", func(t *testing.T) {
		unconfigured := NewVerifier("")
		if unconfigured.Verify("order_abc", "pay_xyz", "anything") {
			t.Error("expected missing secret to fail")
		}
	})
}
