package security

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"agencydesk-backend/internal/domain"
)

const minPasswordLength = 8

// ValidatePasswordStrength enforces the credential policy: minimum length
// plus at least one letter and one digit.
func ValidatePasswordStrength(password string) error {
	if len(password) < minPasswordLength {
		return domain.Validationf("password must be at least %d characters", minPasswordLength)
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return domain.Validationf("password must contain at least one letter and one digit")
	}
	return nil
}

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password with a stored hash.
func VerifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
