// package tasks implements long-running catalog operations against the streaming service.
//
// The core abstraction is CollectionEngine, which orchestrates bulk metadata refreshes and library imports.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"

	"github.com/peaceding/recordium/internal/catalog"
	"github.com/peaceding/recordium/internal/models"
	"github.com/peaceding/recordium/internal/services"
)

// AlbumRefreshResult represents the outcome of refreshing a single album.
type AlbumRefreshResult struct {
	AlbumID  string // Catalog record identifier
	SourceID string // Service-side identifier
	Name     string // Album name at time of refresh
	Success  bool
	Error    error
}

// RefreshResult contains all data from a bulk metadata refresh.
type RefreshResult struct {
	TotalAlbums int                  // Albums considered
	Refreshed   int                  // Albums successfully re-fetched and upserted
	Failed      int                  // Albums whose fetch or upsert failed
	Results     []AlbumRefreshResult // Per-album outcomes
}

// ImportResult contains all data from a saved-library import.
type ImportResult struct {
	TotalFetched int             // Albums fetched from the service library
	Imported     int             // Albums upserted into the catalog
	AddedToBox   int             // Memberships created (when a target box is set)
	Albums       []*models.Album // Upserted catalog records
}

// Engine defines bulk operations over a user's album collection.
type Engine interface {
	// Refresh re-fetches metadata for every album in the user's collection and upserts the results.
	Refresh(ctx context.Context, progress chan<- ProgressUpdate, userID string, opts RefreshOpts) (*RefreshResult, error)

	// ImportLibrary pulls the user's saved albums from the service into the catalog, optionally filing them into a box.
	ImportLibrary(ctx context.Context, progress chan<- ProgressUpdate, userID, boxID string, opts ImportOpts) (*ImportResult, error)
}

// CollectionEngine implements Engine against a catalog and one streaming service.
type CollectionEngine struct {
	catalog *catalog.Catalog
	service services.Service
}

// NewCollectionEngine creates a new CollectionEngine with the provided dependencies.
func NewCollectionEngine(cat *catalog.Catalog, svc services.Service) *CollectionEngine {
	return &CollectionEngine{
		catalog: cat,
		service: svc,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *CollectionEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}
