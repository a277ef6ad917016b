package testutil

import (
	"testing"

	"github.com/google/uuid"
)

// ParseUUID parses a UUID string and fails the test if invalid. Useful for
// converting TestUser.ID (string) to uuid.UUID.
func ParseUUID(t *testing.T, uuidStr string) uuid.UUID {
	id, err := uuid.Parse(uuidStr)
	if err != nil {
		t.Fatalf("Invalid UUID string: %s, error: %v", uuidStr, err)
	}
	return id
}

// MustParseUUID parses a UUID string and panics if invalid. Use for test
// setup where the UUID is known to be valid.
func MustParseUUID(uuidStr string) uuid.UUID {
	id, err := uuid.Parse(uuidStr)
	if err != nil {
		panic("Invalid UUID: " + uuidStr)
	}
	return id
}
