package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Hmac256 is a function to generate HMAC256 hash.
func Hmac256(body, key []byte) string {
	hash := hmac.New(sha256.New, key)
	hash.Write(body)
	return hex.EncodeToString(hash.Sum(nil))
}

// VerifySignature checks the callback signature Razorpay computes over
// "orderID|paymentID" with the key secret.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	expected := Hmac256([]byte(orderID+"|"+paymentID), []byte(secret))
	return hmac.Equal([]byte(signature), []byte(expected))
}
