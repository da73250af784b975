package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_SaltedOutputsDiffer(t *testing.T) {
	first, err := HashPassword("Str0ng!Pass", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("Str0ng!Pass", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "per-call salt must make hashes differ")
	assert.NoError(t, ComparePassword(first, "Str0ng!Pass"))
	assert.NoError(t, ComparePassword(second, "Str0ng!Pass"))
}

func TestHashPassword_NeverStoresPlaintext(t *testing.T) {
	hash, err := HashPassword("Str0ng!Pass", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotContains(t, hash, "Str0ng!Pass")
}

func TestComparePassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng!Pass", bcrypt.MinCost)
	require.NoError(t, err)
	assert.Error(t, ComparePassword(hash, "wrong-password"))
}
