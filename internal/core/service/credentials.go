package service

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// isHashed reports whether stored is a bcrypt hash. Directories written by
// older versions of the site keep plaintext credentials.
func isHashed(stored string) bool {
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}

func verifyPassword(stored, password string) bool {
	if stored == "" || password == "" {
		return false
	}
	if isHashed(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}
