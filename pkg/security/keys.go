package security

import (
	"crypto/rand"
	"math/big"
)

// keyLength matches the 20-digit activation and reset keys issued to users.
const keyLength = 20

const digits = "0123456789"

// RandomKey generates a random numeric key suitable for account
// activation and password reset links.
func RandomKey() string {
	result := make([]byte, keyLength)
	for i := range result {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			panic(err)
		}
		result[i] = digits[num.Int64()]
	}
	return string(result)
}
