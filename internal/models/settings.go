package models

import (
	"fmt"
	"time"
)

// Display modes accepted by [UserSettings].
const (
	DisplayModeLight  = "light"
	DisplayModeDark   = "dark"
	DisplayModeSystem = "system"
)

// UserSettings is the one-to-one preference companion to a user. It is
// created alongside the user and lives as long as the user does.
type UserSettings struct {
	id               string
	sequence         int
	userID           string
	cloudSyncEnabled bool
	displayMode      string
	showAlbumDetails bool
	createdAt        time.Time
	updatedAt        time.Time
	deletedAt        *time.Time
}

// NewUserSettings creates default settings for the given user.
func NewUserSettings(sequence int, userID string) *UserSettings {
	now := time.Now()
	return &UserSettings{
		sequence:         sequence,
		userID:           userID,
		cloudSyncEnabled: true,
		displayMode:      DisplayModeSystem,
		showAlbumDetails: true,
		createdAt:        now,
		updatedAt:        now,
	}
}

func (s *UserSettings) ID() string             { return s.id }
func (s *UserSettings) Sequence() int          { return s.sequence }
func (s *UserSettings) UserID() string         { return s.userID }
func (s *UserSettings) CloudSyncEnabled() bool { return s.cloudSyncEnabled }
func (s *UserSettings) DisplayMode() string    { return s.displayMode }
func (s *UserSettings) ShowAlbumDetails() bool { return s.showAlbumDetails }
func (s *UserSettings) CreatedAt() time.Time   { return s.createdAt }
func (s *UserSettings) UpdatedAt() time.Time   { return s.updatedAt }
func (s *UserSettings) DeletedAt() *time.Time  { return s.deletedAt }

func (s *UserSettings) SetID(id string)           { s.id = id }
func (s *UserSettings) SetSequence(seq int)       { s.sequence = seq }
func (s *UserSettings) SetCreatedAt(t time.Time)  { s.createdAt = t }
func (s *UserSettings) SetUpdatedAt(t time.Time)  { s.updatedAt = t }
func (s *UserSettings) SetDeletedAt(t *time.Time) { s.deletedAt = t }

// SetCloudSync updates the cloud sync preference together with the update timestamp.
func (s *UserSettings) SetCloudSync(enabled bool) {
	s.cloudSyncEnabled = enabled
	s.updatedAt = time.Now()
}

// SetDisplayMode updates the display mode together with the update timestamp.
func (s *UserSettings) SetDisplayMode(mode string) error {
	switch mode {
	case DisplayModeLight, DisplayModeDark, DisplayModeSystem:
	default:
		return fmt.Errorf("invalid display mode: %s", mode)
	}
	s.displayMode = mode
	s.updatedAt = time.Now()
	return nil
}

// SetShowAlbumDetails updates the album detail preference together with the update timestamp.
func (s *UserSettings) SetShowAlbumDetails(show bool) {
	s.showAlbumDetails = show
	s.updatedAt = time.Now()
}

// Validate checks required fields.
func (s *UserSettings) Validate() error {
	if s.userID == "" {
		return fmt.Errorf("settings must belong to a user")
	}
	switch s.displayMode {
	case DisplayModeLight, DisplayModeDark, DisplayModeSystem:
		return nil
	default:
		return fmt.Errorf("invalid display mode: %s", s.displayMode)
	}
}
