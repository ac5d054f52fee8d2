package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost 10 keeps verification around tens of milliseconds while making
// offline brute force impractical.
const bcryptCost = 10

// HashPassword returns a one-way salted hash of the password. A fresh random
// salt is generated on every call.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the password matches the stored hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
