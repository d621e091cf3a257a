package models

import (
	"fmt"
	"strings"
	"time"
)

// User is the top-level entity of the catalog. Every Space and Album is
// owned by exactly one User, resolved by an external account identifier.
type User struct {
	id                   string
	sequence             int
	accountID            string
	name                 string
	spotifyAuthorized    bool
	appleMusicAuthorized bool
	createdAt            time.Time
	updatedAt            time.Time
	deletedAt            *time.Time
}

// NewUser creates a user with the given sequence, external account identifier, and display name.
func NewUser(sequence int, accountID, name string) *User {
	now := time.Now()
	return &User{
		sequence:  sequence,
		accountID: accountID,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}
}

func (u *User) ID() string            { return u.id }
func (u *User) Sequence() int         { return u.sequence }
func (u *User) AccountID() string     { return u.accountID }
func (u *User) Name() string          { return u.name }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }
func (u *User) DeletedAt() *time.Time { return u.deletedAt }

// SpotifyAuthorized reports whether the user has a live Spotify authorization.
func (u *User) SpotifyAuthorized() bool { return u.spotifyAuthorized }

// AppleMusicAuthorized reports whether the user has a live Apple Music authorization.
func (u *User) AppleMusicAuthorized() bool { return u.appleMusicAuthorized }

func (u *User) SetID(id string)                { u.id = id }
func (u *User) SetSequence(s int)              { u.sequence = s }
func (u *User) SetCreatedAt(t time.Time)       { u.createdAt = t }
func (u *User) SetUpdatedAt(t time.Time)       { u.updatedAt = t }
func (u *User) SetDeletedAt(t *time.Time)      { u.deletedAt = t }
func (u *User) SetSpotifyAuthorized(v bool)    { u.spotifyAuthorized = v }
func (u *User) SetAppleMusicAuthorized(v bool) { u.appleMusicAuthorized = v }

// Rename updates the display name together with the update timestamp.
func (u *User) Rename(name string) {
	u.name = name
	u.updatedAt = time.Now()
}

// Validate checks required fields.
func (u *User) Validate() error {
	if strings.TrimSpace(u.accountID) == "" {
		return fmt.Errorf("user account id is required")
	}
	if strings.TrimSpace(u.name) == "" {
		return fmt.Errorf("user name is required")
	}
	return nil
}
