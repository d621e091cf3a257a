package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/peaceding/recordium/internal/models"
	"github.com/peaceding/recordium/internal/shared"
)

// SpaceRepository implements [models.Repository] for [models.Space] persistence.
type SpaceRepository struct {
	db *sql.DB
}

// NewSpaceRepository creates a new [SpaceRepository] with the given database connection
func NewSpaceRepository(db *sql.DB) *SpaceRepository {
	return &SpaceRepository{db: db}
}

// Create inserts a new space into the database with generated ID and sequence
func (r *SpaceRepository) Create(space *models.Space) error {
	sequence, err := NextSequence(r.db, "spaces")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if space.ID() == "" {
		space.SetID(shared.GenerateID())
	}
	space.SetSequence(sequence)

	if err := space.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	query := `
		INSERT INTO spaces (id, sequence, user_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, space.ID(), sequence, space.UserID(), space.Name(), space.CreatedAt(), space.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert space: %w", err)
	}

	return nil
}

// Get retrieves a space by ID, excluding soft-deleted spaces
func (r *SpaceRepository) Get(id string) (*models.Space, error) {
	query := `
		SELECT id, sequence, user_id, name, created_at, updated_at, deleted_at
		FROM spaces
		WHERE id = ? AND deleted_at IS NULL
	`

	var (
		spaceID   string
		sequence  int
		userID    string
		name      string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := r.db.QueryRow(query, id).Scan(&spaceID, &sequence, &userID, &name, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: space %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query space: %w", err)
	}

	space := models.NewSpace(sequence, userID, name)
	space.SetID(spaceID)
	space.SetCreatedAt(createdAt)
	space.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		space.SetDeletedAt(&deletedAt.Time)
	}

	return space, nil
}

// Update modifies an existing space in the database
func (r *SpaceRepository) Update(space *models.Space) error {
	if err := space.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	now := time.Now()
	space.SetUpdatedAt(now)

	query := `
		UPDATE spaces
		SET name = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, space.Name(), now, space.ID())
	if err != nil {
		return fmt.Errorf("failed to update space: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: space %s", shared.ErrNotFound, space.ID())
	}

	return nil
}

// Delete soft-deletes a space by ID
func (r *SpaceRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE spaces
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete space: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: space %s", shared.ErrNotFound, id)
	}

	return nil
}

// List retrieves all spaces matching the given criteria, excluding soft-deleted spaces.
// Spaces are ordered by sequence, preserving creation order within a user.
func (r *SpaceRepository) List(criteria map[string]any) ([]*models.Space, error) {
	query := `
		SELECT id, sequence, user_id, name, created_at, updated_at, deleted_at
		FROM spaces
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query spaces: %w", err)
	}
	defer rows.Close()

	var spaces []*models.Space
	for rows.Next() {
		var (
			spaceID   string
			sequence  int
			userID    string
			name      string
			createdAt time.Time
			updatedAt time.Time
			deletedAt sql.NullTime
		)

		if err := rows.Scan(&spaceID, &sequence, &userID, &name, &createdAt, &updatedAt, &deletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan space: %w", err)
		}

		space := models.NewSpace(sequence, userID, name)
		space.SetID(spaceID)
		space.SetCreatedAt(createdAt)
		space.SetUpdatedAt(updatedAt)
		if deletedAt.Valid {
			space.SetDeletedAt(&deletedAt.Time)
		}

		spaces = append(spaces, space)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return spaces, nil
}
