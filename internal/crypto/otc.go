package crypto

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// OTCDigits количество цифр в одноразовом коде
const OTCDigits = 6

var otcSpace = big.NewInt(1_000_000)

// GenerateOTC возвращает равномерно распределенный код из 000000–999999
func GenerateOTC() (string, error) {
	n, err := rand.Int(rand.Reader, otcSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate one-time code: %w", err)
	}

	return fmt.Sprintf("%0*d", OTCDigits, n.Int64()), nil
}

// IsOTC reports whether s has the shape of a one-time code.
func IsOTC(s string) bool {
	if len(s) != OTCDigits {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
