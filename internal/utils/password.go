package utils

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when the user lookup misses, so login
// does roughly the same amount of work for unknown and known emails.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// BurnPasswordCheck runs a bcrypt comparison against a fixed hash and
// always fails. Call it on the unknown-email path of login.
func BurnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
