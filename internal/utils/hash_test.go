package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test constants
const (
	testPassword      = "SecurePassword123!"
	testWrongPassword = "WrongPassword456!"
)

func TestHashPassword_Success(t *testing.T) {
	// Act
	hash, err := HashPassword(testPassword)

	// Assert
	require.NoError(t, err, "HashPassword should not return error for valid password")
	assert.NotEmpty(t, hash, "Hash should not be empty")
	assert.NotEqual(t, testPassword, hash, "Hash should be different from password")
	assert.Contains(t, hash, "$argon2id$", "Hash should contain Argon2id identifier")
}

func TestVerifyPassword_Correct(t *testing.T) {
	// Arrange
	hash, err := HashPassword(testPassword)
	require.NoError(t, err, "Setup: HashPassword should not fail")

	// Act
	match, err := VerifyPassword(testPassword, hash)

	// Assert
	require.NoError(t, err, "VerifyPassword should not return error")
	assert.True(t, match, "Password should match its hash")
}

func TestVerifyPassword_Incorrect(t *testing.T) {
	// Arrange
	hash, err := HashPassword(testPassword)
	require.NoError(t, err, "Setup: HashPassword should not fail")

	// Act
	match, err := VerifyPassword(testWrongPassword, hash)

	// Assert
	require.NoError(t, err, "VerifyPassword should not return error")
	assert.False(t, match, "Wrong password should not match hash")
}

func TestHashPassword_UniqueHashes(t *testing.T) {
	// Act
	hash1, err1 := HashPassword(testPassword)
	hash2, err2 := HashPassword(testPassword)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEqual(t, hash1, hash2, "Same password should produce different hashes due to unique salt")
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	// Act
	match, err := VerifyPassword(testPassword, "not-a-real-hash")

	// Assert
	assert.ErrorIs(t, err, ErrInvalidHash)
	assert.False(t, match)
}

func TestVerifyPassword_TamperedHash(t *testing.T) {
	// Arrange
	hash, err := HashPassword(testPassword)
	require.NoError(t, err)

	// Flip the last character of the encoded hash
	tampered := hash[:len(hash)-1]
	if strings.HasSuffix(hash, "A") {
		tampered += "B"
	} else {
		tampered += "A"
	}

	// Act
	match, err := VerifyPassword(testPassword, tampered)

	// Assert
	require.NoError(t, err, "A decodable but wrong hash should not be an error")
	assert.False(t, match, "Tampered hash should not verify")
}
