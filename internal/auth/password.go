package auth

import "golang.org/x/crypto/bcrypt"

// GeneratePasswordHash hashes a seeded user's password for the users table.
func GeneratePasswordHash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}

// ComparePasswordHash returns nil when password matches the stored hash.
func ComparePasswordHash(hashedPassword []byte, password string) error {
	return bcrypt.CompareHashAndPassword(hashedPassword, []byte(password))
}
