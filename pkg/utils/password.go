package utils

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var errWeakPassword = errors.New("password must be at least 10 characters and contain uppercase, " +
	"lowercase and a number")

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// ValidatePassword enforces the minimum strength for operator passwords
// created through the admin API.
func ValidatePassword(password string) error {
	if len(password) < 10 {
		return errWeakPassword
	}

	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper || !hasLower || !hasNumber {
		return errWeakPassword
	}

	return nil
}
