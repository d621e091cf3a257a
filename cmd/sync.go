package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/peaceding/recordium/internal/tasks"
	"github.com/urfave/cli/v3"
)

// drainProgress prints engine progress updates until the channel closes.
func (r *Runner) drainProgress(wg *sync.WaitGroup, prog <-chan tasks.ProgressUpdate) {
	defer wg.Done()
	for update := range prog {
		if update.Total > 0 {
			r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
		} else {
			r.writePlain("%s\n", update.Message)
		}
	}
}

// SyncRefresh re-fetches metadata for every album in the catalog.
func (r *Runner) SyncRefresh(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSpotify(); err != nil {
		return err
	}

	cat, closer, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closer()

	userID, err := r.resolveUser(cat, cmd)
	if err != nil {
		return err
	}

	engine := tasks.NewCollectionEngine(cat, r.spotify)
	prog := make(chan tasks.ProgressUpdate, 64)

	var wg sync.WaitGroup
	wg.Add(1)
	go r.drainProgress(&wg, prog)

	result, err := engine.Refresh(ctx, prog, userID, tasks.RefreshOpts{
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(prog)
	wg.Wait()

	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	r.writePlainln("✓ Refreshed %d of %d albums (%d failed)", result.Refreshed, result.TotalAlbums, result.Failed)
	for _, item := range result.Results {
		if !item.Success {
			r.writePlain("  ✗ %s: %s\n", item.Name, item.Error)
		}
	}
	return nil
}

// SyncImport pulls saved albums from the Spotify library into the catalog.
func (r *Runner) SyncImport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSpotify(); err != nil {
		return err
	}

	cat, closer, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closer()

	userID, err := r.resolveUser(cat, cmd)
	if err != nil {
		return err
	}

	engine := tasks.NewCollectionEngine(cat, r.spotify)
	prog := make(chan tasks.ProgressUpdate, 64)

	var wg sync.WaitGroup
	wg.Add(1)
	go r.drainProgress(&wg, prog)

	result, err := engine.ImportLibrary(ctx, prog, userID, cmd.String("box"), tasks.ImportOpts{
		PageSize:  cmd.Int("page-size"),
		MaxAlbums: cmd.Int("limit"),
	})
	close(prog)
	wg.Wait()

	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	r.writePlainln("✓ Imported %d of %d saved albums", result.Imported, result.TotalFetched)
	if result.AddedToBox > 0 {
		r.writePlain("  Filed %d albums into box %s\n", result.AddedToBox, cmd.String("box"))
	}
	return nil
}
