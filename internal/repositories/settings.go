package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/peaceding/recordium/internal/models"
	"github.com/peaceding/recordium/internal/shared"
)

// SettingsRepository implements [models.Repository] for [models.UserSettings] persistence.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new [SettingsRepository] with the given database connection
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Create inserts a new settings record into the database with generated ID and sequence
func (r *SettingsRepository) Create(settings *models.UserSettings) error {
	sequence, err := NextSequence(r.db, "user_settings")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if settings.ID() == "" {
		settings.SetID(shared.GenerateID())
	}
	settings.SetSequence(sequence)

	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	query := `
		INSERT INTO user_settings (id, sequence, user_id, cloud_sync_enabled, display_mode, show_album_details, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		settings.ID(),
		sequence,
		settings.UserID(),
		settings.CloudSyncEnabled(),
		settings.DisplayMode(),
		settings.ShowAlbumDetails(),
		settings.CreatedAt(),
		settings.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert settings: %w", err)
	}

	return nil
}

// Get retrieves a settings record by ID, excluding soft-deleted records
func (r *SettingsRepository) Get(id string) (*models.UserSettings, error) {
	query := `
		SELECT id, sequence, user_id, cloud_sync_enabled, display_mode, show_album_details, created_at, updated_at, deleted_at
		FROM user_settings
		WHERE id = ? AND deleted_at IS NULL
	`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByUserID retrieves the settings record belonging to a user
func (r *SettingsRepository) GetByUserID(userID string) (*models.UserSettings, error) {
	query := `
		SELECT id, sequence, user_id, cloud_sync_enabled, display_mode, show_album_details, created_at, updated_at, deleted_at
		FROM user_settings
		WHERE user_id = ? AND deleted_at IS NULL
	`
	return r.scanOne(r.db.QueryRow(query, userID))
}

// Update modifies an existing settings record in the database
func (r *SettingsRepository) Update(settings *models.UserSettings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	now := time.Now()
	settings.SetUpdatedAt(now)

	query := `
		UPDATE user_settings
		SET cloud_sync_enabled = ?, display_mode = ?, show_album_details = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		settings.CloudSyncEnabled(),
		settings.DisplayMode(),
		settings.ShowAlbumDetails(),
		now,
		settings.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: settings %s", shared.ErrNotFound, settings.ID())
	}

	return nil
}

// Delete soft-deletes a settings record by ID
func (r *SettingsRepository) Delete(id string) error {
	result, err := r.db.Exec("UPDATE user_settings SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: settings %s", shared.ErrNotFound, id)
	}

	return nil
}

// List retrieves all settings records matching the given criteria
func (r *SettingsRepository) List(criteria map[string]any) ([]*models.UserSettings, error) {
	query := `
		SELECT id, sequence, user_id, cloud_sync_enabled, display_mode, show_album_details, created_at, updated_at, deleted_at
		FROM user_settings
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
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	var all []*models.UserSettings
	for rows.Next() {
		var (
			id          string
			sequence    int
			userID      string
			cloudSync   bool
			displayMode string
			showDetails bool
			createdAt   time.Time
			updatedAt   time.Time
			deletedAt   sql.NullTime
		)

		if err := rows.Scan(&id, &sequence, &userID, &cloudSync, &displayMode, &showDetails, &createdAt, &updatedAt, &deletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settings: %w", err)
		}

		settings := models.NewUserSettings(sequence, userID)
		settings.SetID(id)
		settings.SetCloudSync(cloudSync)
		if err := settings.SetDisplayMode(displayMode); err != nil {
			return nil, fmt.Errorf("stored settings invalid: %w", err)
		}
		settings.SetShowAlbumDetails(showDetails)
		settings.SetCreatedAt(createdAt)
		settings.SetUpdatedAt(updatedAt)
		if deletedAt.Valid {
			settings.SetDeletedAt(&deletedAt.Time)
		}

		all = append(all, settings)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return all, nil
}

func (r *SettingsRepository) scanOne(row *sql.Row) (*models.UserSettings, error) {
	var (
		id          string
		sequence    int
		userID      string
		cloudSync   bool
		displayMode string
		showDetails bool
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &userID, &cloudSync, &displayMode, &showDetails, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: settings", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}

	settings := models.NewUserSettings(sequence, userID)
	settings.SetID(id)
	settings.SetCloudSync(cloudSync)
	if err := settings.SetDisplayMode(displayMode); err != nil {
		return nil, fmt.Errorf("stored settings invalid: %w", err)
	}
	settings.SetShowAlbumDetails(showDetails)
	settings.SetCreatedAt(createdAt)
	settings.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		settings.SetDeletedAt(&deletedAt.Time)
	}

	return settings, nil
}
