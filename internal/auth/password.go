package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password with bcrypt. A cost outside
// bcrypt's supported range falls back to the library default. bcrypt embeds
// a fresh random salt per call, so two hashes of the same plaintext always
// differ.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(hashed), err
}

// ComparePassword verifies a plaintext password against a stored hash,
// returning bcrypt.ErrMismatchedHashAndPassword on a mismatch.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
