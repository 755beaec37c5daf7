// Package security provides credential hashing, token issuance and
// random key generation for the account service.
package security

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 10

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(plain, hashed string) error
}

type bcryptHasher struct{}

var _ PasswordHasher = (*bcryptHasher)(nil)

// NewPasswordHasher instantiates a bcrypt-based hasher implementation.
func NewPasswordHasher() PasswordHasher {
	return &bcryptHasher{}
}

func (bh *bcryptHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (bh *bcryptHasher) Compare(plain, hashed string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
