package mailer

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const otpDigits = 6

// GenerateOTP returns a fixed-width numeric code, each digit drawn uniformly
// from crypto/rand.
func GenerateOTP() (string, error) {
	var b strings.Builder
	b.Grow(otpDigits)

	max := big.NewInt(10)
	for i := 0; i < otpDigits; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	return b.String(), nil
}
