package utils

import (
	"errors"
	"strings"
	"unicode"
)

const MinPasswordLength = 8

var commonPasswords = map[string]struct{}{
	"password1": {}, "password123": {}, "12345678a": {}, "qwerty123": {},
	"iloveyou1": {}, "welcome123": {}, "abc12345": {}, "passw0rd": {},
}

// ValidatePasswordStrength checks an artist account password before it is
// hashed.
func ValidatePasswordStrength(password string) error {
	if len(password) < MinPasswordLength {
		return errors.New("password must be at least 8 characters long")
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}
	if !hasLetter {
		return errors.New("password must contain at least one letter")
	}
	if !hasNumber {
		return errors.New("password must contain at least one number")
	}

	if _, common := commonPasswords[strings.ToLower(password)]; common {
		return errors.New("password is too common, please choose a different one")
	}

	runes := []rune(password)
	for i := 0; i+3 < len(runes); i++ {
		if runes[i] == runes[i+1] && runes[i] == runes[i+2] && runes[i] == runes[i+3] {
			return errors.New("password cannot contain more than 3 consecutive repeating characters")
		}
	}
	return nil
}
