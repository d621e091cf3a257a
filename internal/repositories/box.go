package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/peaceding/recordium/internal/models"
	"github.com/peaceding/recordium/internal/shared"
)

// BoxRepository implements [models.Repository] for [models.Box] persistence.
//
// Besides box CRUD it owns the box_albums junction table realizing the
// non-owning Box↔Album membership link.
type BoxRepository struct {
	db *sql.DB
}

// NewBoxRepository creates a new [BoxRepository] with the given database connection
func NewBoxRepository(db *sql.DB) *BoxRepository {
	return &BoxRepository{db: db}
}

// Create inserts a new box into the database with generated ID and sequence
func (r *BoxRepository) Create(box *models.Box) error {
	sequence, err := NextSequence(r.db, "boxes")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if box.ID() == "" {
		box.SetID(shared.GenerateID())
	}
	box.SetSequence(sequence)

	if err := box.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	query := `
		INSERT INTO boxes (id, sequence, space_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, box.ID(), sequence, box.SpaceID(), box.Name(), box.CreatedAt(), box.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert box: %w", err)
	}

	return nil
}

// Get retrieves a box by ID, excluding soft-deleted boxes
func (r *BoxRepository) Get(id string) (*models.Box, error) {
	query := `
		SELECT id, sequence, space_id, name, created_at, updated_at, deleted_at
		FROM boxes
		WHERE id = ? AND deleted_at IS NULL
	`

	var (
		boxID     string
		sequence  int
		spaceID   string
		name      string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := r.db.QueryRow(query, id).Scan(&boxID, &sequence, &spaceID, &name, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: box %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query box: %w", err)
	}

	box := models.NewBox(sequence, spaceID, name)
	box.SetID(boxID)
	box.SetCreatedAt(createdAt)
	box.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		box.SetDeletedAt(&deletedAt.Time)
	}

	return box, nil
}

// Update modifies an existing box in the database
func (r *BoxRepository) Update(box *models.Box) error {
	if err := box.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	now := time.Now()
	box.SetUpdatedAt(now)

	query := `
		UPDATE boxes
		SET name = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, box.Name(), now, box.ID())
	if err != nil {
		return fmt.Errorf("failed to update box: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: box %s", shared.ErrNotFound, box.ID())
	}

	return nil
}

// Delete soft-deletes a box and hard-deletes its album membership rows.
// The albums themselves are untouched.
func (r *BoxRepository) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec("UPDATE boxes SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete box: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: box %s", shared.ErrNotFound, id)
	}

	if _, err := tx.Exec("DELETE FROM box_albums WHERE box_id = ?", id); err != nil {
		return fmt.Errorf("failed to drop album memberships: %w", err)
	}

	return tx.Commit()
}

// List retrieves all boxes matching the given criteria, excluding soft-deleted boxes
func (r *BoxRepository) List(criteria map[string]any) ([]*models.Box, error) {
	query := `
		SELECT id, sequence, space_id, name, created_at, updated_at, deleted_at
		FROM boxes
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if spaceID, ok := criteria["space_id"].(string); ok && spaceID != "" {
		query += " AND space_id = ?"
		args = append(args, spaceID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query boxes: %w", err)
	}
	defer rows.Close()

	var boxes []*models.Box
	for rows.Next() {
		var (
			boxID     string
			sequence  int
			spaceID   string
			name      string
			createdAt time.Time
			updatedAt time.Time
			deletedAt sql.NullTime
		)

		if err := rows.Scan(&boxID, &sequence, &spaceID, &name, &createdAt, &updatedAt, &deletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan box: %w", err)
		}

		box := models.NewBox(sequence, spaceID, name)
		box.SetID(boxID)
		box.SetCreatedAt(createdAt)
		box.SetUpdatedAt(updatedAt)
		if deletedAt.Valid {
			box.SetDeletedAt(&deletedAt.Time)
		}

		boxes = append(boxes, box)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return boxes, nil
}

// AddAlbum inserts an album membership row and bumps the box's update
// timestamp in the same transaction. Inserting an existing membership is a
// no-op that still leaves a single row (idempotent insert).
func (r *BoxRepository) AddAlbum(boxID, albumID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT OR IGNORE INTO box_albums (box_id, album_id, added_at) VALUES (?, ?, ?)",
		boxID, albumID, time.Now(),
	); err != nil {
		return fmt.Errorf("failed to insert membership: %w", err)
	}

	if _, err := tx.Exec(
		"UPDATE boxes SET updated_at = ? WHERE id = ? AND deleted_at IS NULL",
		time.Now(), boxID,
	); err != nil {
		return fmt.Errorf("failed to touch box: %w", err)
	}

	return tx.Commit()
}

// RemoveAlbum deletes an album membership row and bumps the box's update
// timestamp in the same transaction. Removing an absent membership is a no-op.
func (r *BoxRepository) RemoveAlbum(boxID, albumID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"DELETE FROM box_albums WHERE box_id = ? AND album_id = ?",
		boxID, albumID,
	); err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}

	if _, err := tx.Exec(
		"UPDATE boxes SET updated_at = ? WHERE id = ? AND deleted_at IS NULL",
		time.Now(), boxID,
	); err != nil {
		return fmt.Errorf("failed to touch box: %w", err)
	}

	return tx.Commit()
}

// AlbumIDs returns the identifiers of all albums currently in the box,
// ordered by when they were added.
func (r *BoxRepository) AlbumIDs(boxID string) ([]string, error) {
	rows, err := r.db.Query(
		"SELECT album_id FROM box_albums WHERE box_id = ? ORDER BY added_at ASC",
		boxID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// RemoveAlbumEverywhere drops all membership rows for an album across all boxes.
func (r *BoxRepository) RemoveAlbumEverywhere(albumID string) error {
	if _, err := r.db.Exec("DELETE FROM box_albums WHERE album_id = ?", albumID); err != nil {
		return fmt.Errorf("failed to drop memberships: %w", err)
	}
	return nil
}
