package domain

import "errors"

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrVerificationFailed   = errors.New("payment verification failed")
)
