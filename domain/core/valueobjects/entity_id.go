package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidID is returned when a string is not a well-formed entity identifier.
var ErrInvalidID = errors.New("entity ID must be a valid UUID")

// EntityID identifies a journey, chapter, note or user. Identifiers are
// opaque to callers; the store only accepts canonical UUIDs.
type EntityID struct {
	value string
}

// NewEntityID creates a new random EntityID
func NewEntityID() EntityID {
	return EntityID{value: uuid.New().String()}
}

// ParseEntityID parses an identifier received from a caller.
func ParseEntityID(id string) (EntityID, error) {
	if id == "" {
		return EntityID{}, ErrInvalidID
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return EntityID{}, ErrInvalidID
	}
	return EntityID{value: parsed.String()}, nil
}

// IsValidID reports whether id would be accepted by ParseEntityID.
func IsValidID(id string) bool {
	_, err := ParseEntityID(id)
	return err == nil
}

// String returns the string representation of the EntityID
func (id EntityID) String() string {
	return id.value
}

// IsZero checks if the EntityID is the zero value
func (id EntityID) IsZero() bool {
	return id.value == ""
}
