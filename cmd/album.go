package main

import (
	"context"
	"fmt"

	"github.com/peaceding/recordium/internal/shared"
	"github.com/urfave/cli/v3"
)

// requireSpotify returns the Spotify service once it is ready for API calls.
func (r *Runner) requireSpotify() error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not configured, add credentials to config.toml", shared.ErrServiceUnavailable)
	}
	if r.auth == nil || !r.auth.Authorized() {
		return fmt.Errorf("%w: run 'recordium spotify auth' first", shared.ErrNotAuthenticated)
	}
	return nil
}

// AlbumAdd fetches an album from Spotify and records it in the catalog.
// Adding an album that is already catalogued refreshes its metadata instead.
func (r *Runner) AlbumAdd(ctx context.Context, cmd *cli.Command) error {
	sourceID := cmd.StringArg("id")
	if sourceID == "" {
		return fmt.Errorf("%w: Spotify album ID", shared.ErrMissingArgument)
	}

	if err := r.requireSpotify(); err != nil {
		return err
	}

	meta, err := r.spotify.GetAlbum(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("failed to fetch album: %w", err)
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

	album, err := cat.UpsertAlbum(userID, *meta)
	if err != nil {
		return fmt.Errorf("failed to record album: %w", err)
	}

	if boxID := cmd.String("box"); boxID != "" {
		if err := cat.AddAlbumToBox(boxID, album.ID()); err != nil {
			return fmt.Errorf("failed to file album into box: %w", err)
		}
	}

	r.logger.Infof("catalogued album %s (%s)", album.Name(), album.ID())
	return r.writePlain("✓ Catalogued %s - %s (%s)\n", album.PrimaryArtist(), album.Name(), album.ID())
}

// AlbumList prints every album the user has catalogued.
func (r *Runner) AlbumList(ctx context.Context, cmd *cli.Command) error {
	cat, closer, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closer()

	userID, err := r.resolveUser(cat, cmd)
	if err != nil {
		return err
	}

	albums, err := cat.ListAlbums(userID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		data := make([]map[string]any, 0, len(albums))
		for _, album := range albums {
			data = append(data, albumMap(album))
		}
		return r.writeJSON(data, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Albums (%d)", len(albums)))
	for i, album := range albums {
		r.writePlain("%d. %s - %s (%d tracks)\n   ID: %s\n", i+1, album.PrimaryArtist(), album.Name(), album.TotalTracks(), album.ID())
	}
	return nil
}

// AlbumDelete removes an album from the catalog along with its box memberships.
func (r *Runner) AlbumDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: album ID", shared.ErrMissingArgument)
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

	if err := cat.DeleteAlbum(userID, id); err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}

	r.logger.Infof("deleted album %s", id)
	return r.writePlain("✓ Deleted album %s\n", id)
}

// AlbumSearch searches Spotify for albums matching a query.
func (r *Runner) AlbumSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	if err := r.requireSpotify(); err != nil {
		return err
	}

	results, err := r.spotify.SearchAlbums(ctx, query, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q (%d)", query, len(results)))
	for i, meta := range results {
		artist := "未知艺术家"
		if len(meta.Artists) > 0 {
			artist = meta.Artists[0]
		}
		r.writePlain("%d. %s - %s (%s)\n   Spotify ID: %s\n", i+1, artist, meta.Name, meta.ReleaseDate, meta.SourceID)
	}
	return nil
}
