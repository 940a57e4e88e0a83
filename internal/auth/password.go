package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when a login names an unknown user, so that path costs
// the same bcrypt work as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("visco-dummy-password"), bcrypt.DefaultCost)

// HashPassword returns a bcrypt hash with a fresh random salt.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// VerifyPassword reports whether password matches stored. Malformed hashes yield false.
func VerifyPassword(password string, stored []byte) bool {
	if len(stored) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(stored, []byte(password)) == nil
}

// BurnVerify spends one bcrypt comparison and always reports false.
func BurnVerify(password string) bool {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return false
}
