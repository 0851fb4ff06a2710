package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func ComparePasswords(hashedPassword string, plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
}

func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid token length")
	}

	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return hex.EncodeToString(bytes), nil
}

const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateReference returns a booking reference such as "CB-7KQ2MX".
// Ambiguous characters (0/O, 1/I) are left out so it can be read over the phone.
func GenerateReference(prefix string, length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid reference length")
	}

	out := make([]byte, length)
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = referenceAlphabet[n.Int64()]
	}

	return prefix + "-" + string(out), nil
}

// ContentHash returns the hex SHA-256 of v's JSON encoding.
// encoding/json writes struct fields in declaration order and map keys sorted,
// so equal values always hash the same.
func ContentHash(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
