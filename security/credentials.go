package security

import (
	"golang.org/x/crypto/bcrypt"
)

// CompareOperatorToken checks a presented operator token against its stored
// bcrypt hash.
func CompareOperatorToken(hash, token string) bool {
	if hash == "" || token == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}

// HashOperatorToken produces the bcrypt hash an operator stores in config.
func HashOperatorToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
