package models

import (
	"fmt"
	"strings"
	"time"
)

// AlbumMetadata carries the denormalized fields mirrored from an external
// catalog when creating or refreshing an album record.
type AlbumMetadata struct {
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	ImageURL    string   `json:"image_url,omitempty"`
	ReleaseDate string   `json:"release_date"`
	AlbumType   string   `json:"album_type"`
	TotalTracks int      `json:"total_tracks"`
	Popularity  *int     `json:"popularity,omitempty"`
	Source      string   `json:"source"`
	SourceID    string   `json:"source_id"`
}

// Album is a denormalized record of a music release owned by a user.
// Records are matched against their external source by (source, sourceID).
type Album struct {
	id        string
	sequence  int
	userID    string
	meta      AlbumMetadata
	addedAt   time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewAlbum creates an album owned by the given user from external metadata.
func NewAlbum(sequence int, userID string, meta AlbumMetadata) *Album {
	now := time.Now()
	return &Album{
		sequence:  sequence,
		userID:    userID,
		meta:      meta,
		addedAt:   now,
		updatedAt: now,
	}
}

func (a *Album) ID() string              { return a.id }
func (a *Album) Sequence() int           { return a.sequence }
func (a *Album) UserID() string          { return a.userID }
func (a *Album) Name() string            { return a.meta.Name }
func (a *Album) Artists() []string       { return a.meta.Artists }
func (a *Album) ImageURL() string        { return a.meta.ImageURL }
func (a *Album) ReleaseDate() string     { return a.meta.ReleaseDate }
func (a *Album) AlbumType() string       { return a.meta.AlbumType }
func (a *Album) TotalTracks() int        { return a.meta.TotalTracks }
func (a *Album) Popularity() *int        { return a.meta.Popularity }
func (a *Album) Source() string          { return a.meta.Source }
func (a *Album) SourceID() string        { return a.meta.SourceID }
func (a *Album) Metadata() AlbumMetadata { return a.meta }
func (a *Album) AddedAt() time.Time      { return a.addedAt }
func (a *Album) CreatedAt() time.Time    { return a.addedAt }
func (a *Album) UpdatedAt() time.Time    { return a.updatedAt }
func (a *Album) DeletedAt() *time.Time   { return a.deletedAt }

func (a *Album) SetID(id string)           { a.id = id }
func (a *Album) SetSequence(seq int)       { a.sequence = seq }
func (a *Album) SetAddedAt(t time.Time)    { a.addedAt = t }
func (a *Album) SetUpdatedAt(t time.Time)  { a.updatedAt = t }
func (a *Album) SetDeletedAt(t *time.Time) { a.deletedAt = t }

// Refresh replaces the denormalized metadata with a fresh copy from the
// external source and bumps the update timestamp.
func (a *Album) Refresh(meta AlbumMetadata) {
	a.meta = meta
	a.updatedAt = time.Now()
}

// PrimaryArtist returns the first listed artist, or a placeholder when none exist.
func (a *Album) PrimaryArtist() string {
	if len(a.meta.Artists) == 0 {
		return "未知艺术家"
	}
	return a.meta.Artists[0]
}

// ArtistsString returns all artists joined with commas.
func (a *Album) ArtistsString() string {
	return strings.Join(a.meta.Artists, ", ")
}

// Validate checks required fields.
func (a *Album) Validate() error {
	if strings.TrimSpace(a.meta.Name) == "" {
		return fmt.Errorf("album name is required")
	}
	if a.userID == "" {
		return fmt.Errorf("album must belong to a user")
	}
	if a.meta.Source == "" || a.meta.SourceID == "" {
		return fmt.Errorf("album source and source id are required")
	}
	return nil
}
