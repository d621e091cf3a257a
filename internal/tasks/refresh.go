package tasks

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/peaceding/recordium/internal/models"
	"github.com/peaceding/recordium/internal/shared"
)

// RefreshOpts contains configuration for bulk metadata refreshes.
type RefreshOpts struct {
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
}

// ImportOpts contains configuration for saved-library imports.
type ImportOpts struct {
	PageSize  int     // Albums per library page (default: 50)
	MaxAlbums int     // Stop after this many albums (0: no limit)
	RateLimit float64 // Requests per second (default: 5)
}

type refreshJob struct {
	album *models.Album
}

// Refresh re-fetches metadata for every album in the user's collection.
//
// This method implements a worker pool pattern with a shared rate limiter so
// concurrent fetches stay inside the service's request budget. Partial
// failures are recorded per album and do not abort the run.
func (e *CollectionEngine) Refresh(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	userID string,
	opts RefreshOpts,
) (*RefreshResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	albums, err := e.catalog.ListAlbums(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection: %w", err)
	}

	result := &RefreshResult{
		TotalAlbums: len(albums),
		Results:     make([]AlbumRefreshResult, 0, len(albums)),
	}

	e.sendProgress(prog, listCollectionUpdate(len(albums)))
	if len(albums) == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan refreshJob, len(albums))
	results := make(chan AlbumRefreshResult, len(albums))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.refreshWorker(ctx, &wg, limiter, userID, jobs, results)
	}

	for i, album := range albums {
		e.sendProgress(prog, refreshingAlbumUpdate(i+1, len(albums), album.Name()))
		jobs <- refreshJob{album: album}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.Refreshed++
			e.sendProgress(prog, refreshCompletedUpdate(completed, len(albums), res.Name))
		} else {
			result.Failed++
			e.sendProgress(prog, refreshFailedUpdate(completed, len(albums), res.Name, res.Error))
		}
	}

	return result, nil
}

// refreshWorker is a worker goroutine that refreshes albums from the jobs channel.
func (e *CollectionEngine) refreshWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	userID string,
	jobs <-chan refreshJob,
	results chan<- AlbumRefreshResult,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.refreshSingleAlbum(ctx, limiter, userID, job.album)
	}
}

// refreshSingleAlbum re-fetches one album's metadata and upserts it.
func (e *CollectionEngine) refreshSingleAlbum(
	ctx context.Context,
	limiter *rate.Limiter,
	userID string,
	album *models.Album,
) AlbumRefreshResult {
	result := AlbumRefreshResult{
		AlbumID:  album.ID(),
		SourceID: album.SourceID(),
		Name:     album.Name(),
	}

	if err := limiter.Wait(ctx); err != nil {
		result.Error = err
		return result
	}

	meta, err := e.service.GetAlbum(ctx, album.SourceID())
	if err != nil {
		result.Error = fmt.Errorf("failed to fetch metadata: %w", err)
		return result
	}

	if _, err := e.catalog.UpsertAlbum(userID, *meta); err != nil {
		result.Error = fmt.Errorf("failed to upsert album: %w", err)
		return result
	}

	result.Success = true
	return result
}

// ImportLibrary pages through the user's saved albums on the service and
// upserts each into the catalog. With a non-empty boxID every imported album
// is also filed into that box.
func (e *CollectionEngine) ImportLibrary(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	userID, boxID string,
	opts ImportOpts,
) (*ImportResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.PageSize <= 0 || opts.PageSize > 50 {
		opts.PageSize = 50
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	result := &ImportResult{}

	offset := 0
	for {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			return result, err
		}

		e.sendProgress(prog, fetchLibraryUpdate(offset))
		metas, err := e.service.SavedAlbums(ctx, opts.PageSize, offset)
		if err != nil {
			return result, fmt.Errorf("%w: failed to fetch saved albums: %v", shared.ErrAPIRequest, err)
		}
		if len(metas) == 0 {
			break
		}

		for _, meta := range metas {
			result.TotalFetched++

			album, err := e.catalog.UpsertAlbum(userID, meta)
			if err != nil {
				continue
			}

			result.Imported++
			result.Albums = append(result.Albums, album)
			e.sendProgress(prog, importAlbumUpdate(result.Imported, 0, album.Name()))

			if boxID != "" {
				if err := e.catalog.AddAlbumToBox(boxID, album.ID()); err == nil {
					result.AddedToBox++
				}
			}

			if opts.MaxAlbums > 0 && result.TotalFetched >= opts.MaxAlbums {
				return result, nil
			}
		}

		if len(metas) < opts.PageSize {
			break
		}
		offset += opts.PageSize
	}

	return result, nil
}
