package hasher

import "golang.org/x/crypto/bcrypt"

// Hasher hashes and verifies passwords with bcrypt. bcrypt embeds a random
// per-call salt and its cost factor in the hash itself, so two hashes of the
// same password are never equal and verification needs no extra state.
type Hasher struct {
	cost int
}

// New returns a Hasher with the given cost. Costs below bcrypt.DefaultCost
// are raised to it; a cheap work factor would defeat the point of an
// adaptive hash.
func New(cost int) *Hasher {
	if cost < bcrypt.DefaultCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash generates a salted hash from a plaintext password.
func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Check compares a plaintext password with a hash. It returns false for a
// wrong password and for a malformed hash alike; callers must not be able to
// tell the two apart.
func (h *Hasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
