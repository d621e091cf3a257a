package models

import (
	"fmt"
	"strings"
	"time"
)

// DefaultSpaceName is the name given to the space created alongside a new user.
const DefaultSpaceName = "默认空间"

// Space is a top-level grouping container owned by exactly one user.
// Deleting a space cascades to its boxes.
type Space struct {
	id        string
	sequence  int
	userID    string
	name      string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewSpace creates a space owned by the given user.
func NewSpace(sequence int, userID, name string) *Space {
	now := time.Now()
	return &Space{
		sequence:  sequence,
		userID:    userID,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}
}

func (s *Space) ID() string            { return s.id }
func (s *Space) Sequence() int         { return s.sequence }
func (s *Space) UserID() string        { return s.userID }
func (s *Space) Name() string          { return s.name }
func (s *Space) CreatedAt() time.Time  { return s.createdAt }
func (s *Space) UpdatedAt() time.Time  { return s.updatedAt }
func (s *Space) DeletedAt() *time.Time { return s.deletedAt }

func (s *Space) SetID(id string)           { s.id = id }
func (s *Space) SetSequence(seq int)       { s.sequence = seq }
func (s *Space) SetCreatedAt(t time.Time)  { s.createdAt = t }
func (s *Space) SetUpdatedAt(t time.Time)  { s.updatedAt = t }
func (s *Space) SetDeletedAt(t *time.Time) { s.deletedAt = t }

// Rename updates the name together with the update timestamp.
func (s *Space) Rename(name string) {
	s.name = name
	s.updatedAt = time.Now()
}

// Validate checks required fields.
func (s *Space) Validate() error {
	if strings.TrimSpace(s.name) == "" {
		return fmt.Errorf("space name is required")
	}
	if s.userID == "" {
		return fmt.Errorf("space must belong to a user")
	}
	return nil
}
