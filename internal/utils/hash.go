package utils

import "golang.org/x/crypto/bcrypt"

// HashOTP returns a bcrypt hash of a one-time code. Cost below bcrypt.MinCost
// falls back to bcrypt.DefaultCost.
func HashOTP(code string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	return string(bytes), err
}

// CheckOTP compares a bcrypt hashed code with its possible plaintext equivalent.
func CheckOTP(hashedCode, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedCode), []byte(code)) == nil
}
