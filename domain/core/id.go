package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	DecisionID ID
	IncidentID ID
	ModelID    ID
)

// String conversions for domain IDs
func (id DecisionID) String() string { return ID(id).String() }
func (id IncidentID) String() string { return ID(id).String() }
func (id ModelID) String() string    { return ID(id).String() }

// NewDecisionID creates a new decision identifier
func NewDecisionID() DecisionID {
	return DecisionID(NewID())
}

// NewIncidentID creates a new incident identifier
func NewIncidentID() IncidentID {
	return IncidentID(NewID())
}

// ParseModelID parses a string into ModelID
func ParseModelID(s string) (ModelID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("model ID cannot be empty")
	}
	return ModelID(s), nil
}
