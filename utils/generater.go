package utils

import (
	"crypto/rand"
	"fmt"
)

// GenerateOTP returns a 6-digit verification code for campus email checks.
func GenerateOTP() string {
	var buf [3]byte
	rand.Read(buf[:])
	n := int(buf[0])<<16 | int(buf[1])<<8 | int(buf[2])
	return fmt.Sprintf("%06d", n%1000000)
}
