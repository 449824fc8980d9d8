package redisx

import "fmt"

const (
	// One-time codes: otp:{purpose}:{phone} -> code
	KeyOTP = "otp:%s:%s"

	// Wrong guesses against the live code: otp_attempts:{purpose}:{phone} -> count
	KeyOTPAttempts = "otp_attempts:%s:%s"

	// Revoked access tokens: revoked:jti:{jti} -> "1", expires with the token
	KeyRevokedToken = "revoked:jti:%s"
)

func OTPKey(purpose, phone string) string {
	return fmt.Sprintf(KeyOTP, purpose, phone)
}

func OTPAttemptsKey(purpose, phone string) string {
	return fmt.Sprintf(KeyOTPAttempts, purpose, phone)
}

func RevokedTokenKey(jti string) string {
	return fmt.Sprintf(KeyRevokedToken, jti)
}
