// package catalog implements the entity store for the record collection.
//
// Catalog is the single mutation surface over the five entity types. Every
// operation keeps both sides of the owned relationships consistent
// (User→Space→Box plus the Box↔Album membership link) and is durable when
// it returns: there is no separate commit step for callers to remember.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/peaceding/recordium/internal/models"
	"github.com/peaceding/recordium/internal/repositories"
	"github.com/peaceding/recordium/internal/shared"
)

// Service identifiers for per-service authorization flags on [models.User].
const (
	ServiceSpotify    = "spotify"
	ServiceAppleMusic = "apple_music"
)

// Catalog owns the canonical representation of users, spaces, boxes,
// albums, and settings, and exposes relationship-preserving mutations.
type Catalog struct {
	db       *sql.DB
	users    *repositories.UserRepository
	spaces   *repositories.SpaceRepository
	boxes    *repositories.BoxRepository
	albums   *repositories.AlbumRepository
	settings *repositories.SettingsRepository
	logger   *log.Logger

	// initMu serializes the check-then-create sequence in FindOrCreateUser.
	// Two concurrent startup paths must never both observe "no user" and
	// create duplicate records for one account.
	initMu sync.Mutex
}

// New creates a Catalog over an open database connection.
func New(db *sql.DB, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Catalog{
		db:       db,
		users:    repositories.NewUserRepository(db),
		spaces:   repositories.NewSpaceRepository(db),
		boxes:    repositories.NewBoxRepository(db),
		albums:   repositories.NewAlbumRepository(db),
		settings: repositories.NewSettingsRepository(db),
		logger:   logger,
	}
}

// FindOrCreateUser looks up a user by external account identifier, creating
// the user together with a default space and default settings when absent.
func (c *Catalog) FindOrCreateUser(accountID, defaultName string) (*models.User, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, fmt.Errorf("%w: account id is required", shared.ErrValidation)
	}

	c.initMu.Lock()
	defer c.initMu.Unlock()

	user, err := c.users.GetByAccountID(accountID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	name := defaultName
	if strings.TrimSpace(name) == "" {
		name = accountID
	}

	user = models.NewUser(0, accountID, name)
	if err := c.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	space := models.NewSpace(0, user.ID(), models.DefaultSpaceName)
	if err := c.spaces.Create(space); err != nil {
		return nil, fmt.Errorf("failed to create default space: %w", err)
	}

	settings := models.NewUserSettings(0, user.ID())
	if err := c.settings.Create(settings); err != nil {
		return nil, fmt.Errorf("failed to create settings: %w", err)
	}

	c.logger.Info("created user", "account", accountID, "id", user.ID())

	return user, nil
}

// GetUser retrieves a user by ID.
func (c *Catalog) GetUser(userID string) (*models.User, error) {
	return c.users.Get(userID)
}

// GetUserByAccount retrieves a user by external account identifier.
func (c *Catalog) GetUserByAccount(accountID string) (*models.User, error) {
	return c.users.GetByAccountID(accountID)
}

// RenameUser updates the user's display name.
func (c *Catalog) RenameUser(userID, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", shared.ErrValidation)
	}

	user, err := c.users.Get(userID)
	if err != nil {
		return err
	}

	user.Rename(name)
	return c.users.Update(user)
}

// SetServiceAuthorized updates one of the per-service authorization flags.
func (c *Catalog) SetServiceAuthorized(userID, service string, authorized bool) error {
	user, err := c.users.Get(userID)
	if err != nil {
		return err
	}

	switch service {
	case ServiceSpotify:
		user.SetSpotifyAuthorized(authorized)
	case ServiceAppleMusic:
		user.SetAppleMusicAuthorized(authorized)
	default:
		return fmt.Errorf("%w: unknown service %s", shared.ErrInvalidArgument, service)
	}

	return c.users.Update(user)
}

// DeleteUser cascades deletion of all owned spaces (and transitively their
// boxes and memberships), all owned albums, and the user's settings.
func (c *Catalog) DeleteUser(userID string) error {
	spaces, err := c.spaces.List(map[string]any{"user_id": userID})
	if err != nil {
		return err
	}
	for _, space := range spaces {
		if err := c.DeleteSpace(userID, space.ID()); err != nil {
			return err
		}
	}

	albums, err := c.albums.List(map[string]any{"user_id": userID})
	if err != nil {
		return err
	}
	for _, album := range albums {
		if err := c.boxes.RemoveAlbumEverywhere(album.ID()); err != nil {
			return err
		}
		if err := c.albums.Delete(album.ID()); err != nil {
			return err
		}
	}

	if settings, err := c.settings.GetByUserID(userID); err == nil {
		if err := c.settings.Delete(settings.ID()); err != nil {
			return err
		}
	}

	if err := c.users.Delete(userID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			c.logger.Debug("delete user: not found", "id", userID)
			return nil
		}
		return err
	}

	return nil
}

// CreateSpace constructs a space under the user. Both sides of the
// relationship are consistent on return: the space carries the user's ID
// and shows up in ListSpaces for that user.
func (c *Catalog) CreateSpace(userID, name string) (*models.Space, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: space name is required", shared.ErrValidation)
	}

	if _, err := c.users.Get(userID); err != nil {
		return nil, err
	}

	space := models.NewSpace(0, userID, name)
	if err := c.spaces.Create(space); err != nil {
		return nil, err
	}

	return space, nil
}

// RenameSpace updates a space's name.
func (c *Catalog) RenameSpace(spaceID, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: space name is required", shared.ErrValidation)
	}

	space, err := c.spaces.Get(spaceID)
	if err != nil {
		return err
	}

	space.Rename(name)
	return c.spaces.Update(space)
}

// DeleteSpace removes the space from the user's collection and cascades
// deletion of all contained boxes. Album membership rows are dropped with
// the boxes; the albums themselves are untouched. A missing space is a
// no-op rather than an error.
func (c *Catalog) DeleteSpace(userID, spaceID string) error {
	space, err := c.spaces.Get(spaceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			c.logger.Debug("delete space: not found", "id", spaceID)
			return nil
		}
		return err
	}

	if space.UserID() != userID {
		c.logger.Debug("delete space: not owned by user", "space", spaceID, "user", userID)
		return nil
	}

	boxes, err := c.boxes.List(map[string]any{"space_id": spaceID})
	if err != nil {
		return err
	}
	for _, box := range boxes {
		if err := c.boxes.Delete(box.ID()); err != nil {
			return err
		}
	}

	return c.spaces.Delete(spaceID)
}

// ListSpaces returns the user's spaces in creation order.
func (c *Catalog) ListSpaces(userID string) ([]*models.Space, error) {
	return c.spaces.List(map[string]any{"user_id": userID})
}

// GetSpace retrieves a space by ID.
func (c *Catalog) GetSpace(spaceID string) (*models.Space, error) {
	return c.spaces.Get(spaceID)
}

// CreateBox constructs a box under the space with the back-reference set
// as part of the same insert.
func (c *Catalog) CreateBox(spaceID, name string) (*models.Box, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: box name is required", shared.ErrValidation)
	}

	if _, err := c.spaces.Get(spaceID); err != nil {
		return nil, err
	}

	box := models.NewBox(0, spaceID, name)
	if err := c.boxes.Create(box); err != nil {
		return nil, err
	}

	return box, nil
}

// RenameBox updates a box's name.
func (c *Catalog) RenameBox(boxID, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: box name is required", shared.ErrValidation)
	}

	box, err := c.boxes.Get(boxID)
	if err != nil {
		return err
	}

	box.Rename(name)
	return c.boxes.Update(box)
}

// DeleteBox removes a box from its space, dropping its album memberships.
// Albums are untouched. A missing box is a no-op rather than an error.
func (c *Catalog) DeleteBox(spaceID, boxID string) error {
	box, err := c.boxes.Get(boxID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			c.logger.Debug("delete box: not found", "id", boxID)
			return nil
		}
		return err
	}

	if box.SpaceID() != spaceID {
		c.logger.Debug("delete box: not in space", "box", boxID, "space", spaceID)
		return nil
	}

	return c.boxes.Delete(boxID)
}

// ListBoxes returns the space's boxes in creation order.
func (c *Catalog) ListBoxes(spaceID string) ([]*models.Box, error) {
	return c.boxes.List(map[string]any{"space_id": spaceID})
}

// GetBox retrieves a box by ID.
func (c *Catalog) GetBox(boxID string) (*models.Box, error) {
	return c.boxes.Get(boxID)
}

// AddAlbumToBox inserts an album membership. Adding an album already in the
// box is a no-op; the box's update timestamp is bumped either way as part
// of the membership transaction.
func (c *Catalog) AddAlbumToBox(boxID, albumID string) error {
	if _, err := c.boxes.Get(boxID); err != nil {
		return err
	}
	if _, err := c.albums.Get(albumID); err != nil {
		return err
	}

	return c.boxes.AddAlbum(boxID, albumID)
}

// RemoveAlbumFromBox removes an album membership. Removing an absent album
// is a no-op; the album record itself is never deleted here.
func (c *Catalog) RemoveAlbumFromBox(boxID, albumID string) error {
	if _, err := c.boxes.Get(boxID); err != nil {
		return err
	}

	return c.boxes.RemoveAlbum(boxID, albumID)
}

// ListBoxAlbums returns the albums currently in a box, ordered by when they
// were added.
func (c *Catalog) ListBoxAlbums(boxID string) ([]*models.Album, error) {
	ids, err := c.boxes.AlbumIDs(boxID)
	if err != nil {
		return nil, err
	}
	return c.albums.ListByIDs(ids)
}

// UpsertAlbum creates or refreshes an album owned by the user, matched by
// its (source, sourceID) pair. On match the denormalized fields and update
// timestamp are replaced; the added timestamp is preserved.
func (c *Catalog) UpsertAlbum(userID string, meta models.AlbumMetadata) (*models.Album, error) {
	if meta.Source == "" || meta.SourceID == "" {
		return nil, fmt.Errorf("%w: album source and source id are required", shared.ErrValidation)
	}

	if _, err := c.users.Get(userID); err != nil {
		return nil, err
	}

	existing, err := c.albums.GetBySourceID(userID, meta.Source, meta.SourceID)
	if err == nil {
		existing.Refresh(meta)
		if err := c.albums.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	album := models.NewAlbum(0, userID, meta)
	if err := c.albums.Create(album); err != nil {
		return nil, err
	}

	return album, nil
}

// DeleteAlbum removes an album record entirely, dropping its memberships
// in every box first. A missing album is a no-op.
func (c *Catalog) DeleteAlbum(userID, albumID string) error {
	album, err := c.albums.Get(albumID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			c.logger.Debug("delete album: not found", "id", albumID)
			return nil
		}
		return err
	}

	if album.UserID() != userID {
		c.logger.Debug("delete album: not owned by user", "album", albumID, "user", userID)
		return nil
	}

	if err := c.boxes.RemoveAlbumEverywhere(albumID); err != nil {
		return err
	}

	return c.albums.Delete(albumID)
}

// ListAlbums returns all albums owned by the user, independent of box
// membership.
func (c *Catalog) ListAlbums(userID string) ([]*models.Album, error) {
	return c.albums.List(map[string]any{"user_id": userID})
}

// GetAlbum retrieves an album by ID.
func (c *Catalog) GetAlbum(albumID string) (*models.Album, error) {
	return c.albums.Get(albumID)
}

// Settings returns the settings record for a user.
func (c *Catalog) Settings(userID string) (*models.UserSettings, error) {
	return c.settings.GetByUserID(userID)
}

// SetCloudSync updates the user's cloud sync preference.
func (c *Catalog) SetCloudSync(userID string, enabled bool) error {
	settings, err := c.settings.GetByUserID(userID)
	if err != nil {
		return err
	}

	settings.SetCloudSync(enabled)
	return c.settings.Update(settings)
}

// SetDisplayMode updates the user's display mode preference.
func (c *Catalog) SetDisplayMode(userID, mode string) error {
	settings, err := c.settings.GetByUserID(userID)
	if err != nil {
		return err
	}

	if err := settings.SetDisplayMode(mode); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return c.settings.Update(settings)
}

// SetShowAlbumDetails updates the user's album detail preference.
func (c *Catalog) SetShowAlbumDetails(userID string, show bool) error {
	settings, err := c.settings.GetByUserID(userID)
	if err != nil {
		return err
	}

	settings.SetShowAlbumDetails(show)
	return c.settings.Update(settings)
}
