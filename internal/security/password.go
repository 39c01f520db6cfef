package security

import "golang.org/x/crypto/bcrypt"

// Cost 12 keeps a login around tens of milliseconds while staying expensive
// for offline brute force.
const bcryptCost = 12

// HashPassword hashes a plain text password with bcrypt. Each call salts
// fresh, so hashing the same password twice yields different strings.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// Malformed hashes fail closed: the answer is false, never a panic or error.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
