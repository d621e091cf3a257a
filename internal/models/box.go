package models

import (
	"fmt"
	"strings"
	"time"
)

// Box is a named sub-collection within a space. It holds album memberships
// rather than albums: the same album may live in any number of boxes, and
// removing it from a box leaves the album record untouched.
type Box struct {
	id        string
	sequence  int
	spaceID   string
	name      string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewBox creates a box under the given space.
func NewBox(sequence int, spaceID, name string) *Box {
	now := time.Now()
	return &Box{
		sequence:  sequence,
		spaceID:   spaceID,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}
}

func (b *Box) ID() string            { return b.id }
func (b *Box) Sequence() int         { return b.sequence }
func (b *Box) SpaceID() string       { return b.spaceID }
func (b *Box) Name() string          { return b.name }
func (b *Box) CreatedAt() time.Time  { return b.createdAt }
func (b *Box) UpdatedAt() time.Time  { return b.updatedAt }
func (b *Box) DeletedAt() *time.Time { return b.deletedAt }

func (b *Box) SetID(id string)           { b.id = id }
func (b *Box) SetSequence(seq int)       { b.sequence = seq }
func (b *Box) SetCreatedAt(t time.Time)  { b.createdAt = t }
func (b *Box) SetUpdatedAt(t time.Time)  { b.updatedAt = t }
func (b *Box) SetDeletedAt(t *time.Time) { b.deletedAt = t }

// Rename updates the name together with the update timestamp.
func (b *Box) Rename(name string) {
	b.name = name
	b.updatedAt = time.Now()
}

// Validate checks required fields.
func (b *Box) Validate() error {
	if strings.TrimSpace(b.name) == "" {
		return fmt.Errorf("box name is required")
	}
	if b.spaceID == "" {
		return fmt.Errorf("box must belong to a space")
	}
	return nil
}
