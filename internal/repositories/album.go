package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/peaceding/recordium/internal/models"
	"github.com/peaceding/recordium/internal/shared"
)

// AlbumRepository implements [models.Repository] for [models.Album] persistence.
//
// Albums carry denormalized metadata from an external catalog; the artist
// list is stored as a JSON array in a single column.
type AlbumRepository struct {
	db *sql.DB
}

// NewAlbumRepository creates a new [AlbumRepository] with the given database connection
func NewAlbumRepository(db *sql.DB) *AlbumRepository {
	return &AlbumRepository{db: db}
}

const albumColumns = "id, sequence, user_id, name, artists, image_url, release_date, album_type, total_tracks, popularity, source, source_id, added_at, updated_at, deleted_at"

// Create inserts a new album into the database with generated ID and sequence
func (r *AlbumRepository) Create(album *models.Album) error {
	sequence, err := NextSequence(r.db, "albums")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if album.ID() == "" {
		album.SetID(shared.GenerateID())
	}
	album.SetSequence(sequence)

	if err := album.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	artists, err := json.Marshal(album.Artists())
	if err != nil {
		return fmt.Errorf("failed to encode artists: %w", err)
	}

	query := `
		INSERT INTO albums (id, sequence, user_id, name, artists, image_url, release_date, album_type, total_tracks, popularity, source, source_id, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		album.ID(),
		sequence,
		album.UserID(),
		album.Name(),
		string(artists),
		nullString(album.ImageURL()),
		album.ReleaseDate(),
		album.AlbumType(),
		album.TotalTracks(),
		nullInt(album.Popularity()),
		album.Source(),
		album.SourceID(),
		album.AddedAt(),
		album.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert album: %w", err)
	}

	return nil
}

// Get retrieves an album by ID, excluding soft-deleted albums
func (r *AlbumRepository) Get(id string) (*models.Album, error) {
	query := fmt.Sprintf("SELECT %s FROM albums WHERE id = ? AND deleted_at IS NULL", albumColumns)
	return scanAlbum(r.db.QueryRow(query, id))
}

// GetBySourceID retrieves a user's album by its (source, source_id) pair
func (r *AlbumRepository) GetBySourceID(userID, source, sourceID string) (*models.Album, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM albums WHERE user_id = ? AND source = ? AND source_id = ? AND deleted_at IS NULL",
		albumColumns,
	)
	return scanAlbum(r.db.QueryRow(query, userID, source, sourceID))
}

// Update modifies an existing album in the database
func (r *AlbumRepository) Update(album *models.Album) error {
	if err := album.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	now := time.Now()
	album.SetUpdatedAt(now)

	artists, err := json.Marshal(album.Artists())
	if err != nil {
		return fmt.Errorf("failed to encode artists: %w", err)
	}

	query := `
		UPDATE albums
		SET name = ?, artists = ?, image_url = ?, release_date = ?, album_type = ?, total_tracks = ?, popularity = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		album.Name(),
		string(artists),
		nullString(album.ImageURL()),
		album.ReleaseDate(),
		album.AlbumType(),
		album.TotalTracks(),
		nullInt(album.Popularity()),
		now,
		album.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update album: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: album %s", shared.ErrNotFound, album.ID())
	}

	return nil
}

// Delete soft-deletes an album by ID
func (r *AlbumRepository) Delete(id string) error {
	now := time.Now()

	result, err := r.db.Exec("UPDATE albums SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", now, id)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: album %s", shared.ErrNotFound, id)
	}

	return nil
}

// List retrieves all albums matching the given criteria, excluding soft-deleted albums
func (r *AlbumRepository) List(criteria map[string]any) ([]*models.Album, error) {
	query := fmt.Sprintf("SELECT %s FROM albums WHERE deleted_at IS NULL", albumColumns)

	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}
	if source, ok := criteria["source"].(string); ok && source != "" {
		query += " AND source = ?"
		args = append(args, source)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	defer rows.Close()

	var albums []*models.Album
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return albums, nil
}

// ListByIDs retrieves the albums with the given identifiers, preserving the
// input order. Missing or deleted albums are skipped.
func (r *AlbumRepository) ListByIDs(ids []string) ([]*models.Album, error) {
	byID := make(map[string]*models.Album, len(ids))
	for _, id := range ids {
		album, err := r.Get(id)
		if err != nil {
			continue
		}
		byID[id] = album
	}

	albums := make([]*models.Album, 0, len(byID))
	for _, id := range ids {
		if album, ok := byID[id]; ok {
			albums = append(albums, album)
		}
	}

	return albums, nil
}

// scanner abstracts *sql.Row and *sql.Rows for album scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanAlbum(row scanner) (*models.Album, error) {
	var (
		albumID     string
		sequence    int
		userID      string
		name        string
		artistsJSON string
		imageURL    sql.NullString
		releaseDate string
		albumType   string
		totalTracks int
		popularity  sql.NullInt64
		source      string
		sourceID    string
		addedAt     time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&albumID, &sequence, &userID, &name, &artistsJSON, &imageURL, &releaseDate,
		&albumType, &totalTracks, &popularity, &source, &sourceID, &addedAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: album", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan album: %w", err)
	}

	var artists []string
	if err := json.Unmarshal([]byte(artistsJSON), &artists); err != nil {
		return nil, fmt.Errorf("failed to decode artists: %w", err)
	}

	meta := models.AlbumMetadata{
		Name:        name,
		Artists:     artists,
		ImageURL:    imageURL.String,
		ReleaseDate: releaseDate,
		AlbumType:   albumType,
		TotalTracks: totalTracks,
		Source:      source,
		SourceID:    sourceID,
	}
	if popularity.Valid {
		pop := int(popularity.Int64)
		meta.Popularity = &pop
	}

	album := models.NewAlbum(sequence, userID, meta)
	album.SetID(albumID)
	album.SetAddedAt(addedAt)
	album.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		album.SetDeletedAt(&deletedAt.Time)
	}

	return album, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}
