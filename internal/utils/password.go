package utils

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash using the given cost. Used by the
// initdb -hashpw helper to produce ADMIN_PASSWORD_HASH values.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash and a plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// VerifyAdminCredential checks the submitted password against the
// configured admin credential. The bcrypt hash is preferred; the plain
// env pair is compared in constant time for deployments that have not
// set a hash yet.
func VerifyAdminCredential(hash, plain, submitted string) bool {
	if hash != "" {
		return VerifyPassword(hash, submitted)
	}
	if plain == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(plain), []byte(submitted)) == 1
}
