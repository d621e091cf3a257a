package main

import (
	"context"
	"fmt"
	"time"

	"github.com/peaceding/recordium/internal/formatter"
	"github.com/peaceding/recordium/internal/models"
	"github.com/peaceding/recordium/internal/shared"
	"github.com/urfave/cli/v3"
)

func albumMap(a *models.Album) map[string]any {
	data := map[string]any{
		"id":           a.ID(),
		"name":         a.Name(),
		"artists":      a.Artists(),
		"release_date": a.ReleaseDate(),
		"album_type":   a.AlbumType(),
		"total_tracks": a.TotalTracks(),
		"source":       a.Source(),
		"source_id":    a.SourceID(),
	}
	if p := a.Popularity(); p != nil {
		data["popularity"] = *p
	}
	return data
}

// BoxCreate creates a box inside a space.
func (r *Runner) BoxCreate(ctx context.Context, cmd *cli.Command) error {
	spaceID := cmd.StringArg("space")
	name := cmd.StringArg("name")
	if spaceID == "" || name == "" {
		return fmt.Errorf("%w: space ID and box name", shared.ErrMissingArgument)
	}

	cat, closer, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closer()

	box, err := cat.CreateBox(spaceID, name)
	if err != nil {
		return fmt.Errorf("failed to create box: %w", err)
	}

	r.logger.Infof("created box %s (%s)", box.Name(), box.ID())
	return r.writePlain("✓ Created box %q (%s)\n", box.Name(), box.ID())
}

// BoxRename renames a box.
func (r *Runner) BoxRename(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	name := cmd.StringArg("name")
	if id == "" || name == "" {
		return fmt.Errorf("%w: box ID and new name", shared.ErrMissingArgument)
	}

	cat, closer, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closer()

	if err := cat.RenameBox(id, name); err != nil {
		return fmt.Errorf("failed to rename box: %w", err)
	}

	return r.writePlain("✓ Renamed box %s to %q\n", id, name)
}

// BoxDelete removes a box and its memberships. The albums themselves survive.
func (r *Runner) BoxDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: box ID", shared.ErrMissingArgument)
	}

	cat, closer, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closer()

	box, err := cat.GetBox(id)
	if err != nil {
		return err
	}

	if err := cat.DeleteBox(box.SpaceID(), id); err != nil {
		return fmt.Errorf("failed to delete box: %w", err)
	}

	r.logger.Infof("deleted box %s", id)
	return r.writePlain("✓ Deleted box %s, its albums remain in the catalog\n", id)
}

// BoxAdd files an album into a box. Filing the same album twice is a no-op.
func (r *Runner) BoxAdd(ctx context.Context, cmd *cli.Command) error {
	boxID := cmd.StringArg("box")
	albumID := cmd.StringArg("album")
	if boxID == "" || albumID == "" {
		return fmt.Errorf("%w: box ID and album ID", shared.ErrMissingArgument)
	}

	cat, closer, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closer()

	if err := cat.AddAlbumToBox(boxID, albumID); err != nil {
		return fmt.Errorf("failed to add album to box: %w", err)
	}

	return r.writePlain("✓ Filed album %s into box %s\n", albumID, boxID)
}

// BoxRemove takes an album out of a box. Removing an absent album is a no-op.
func (r *Runner) BoxRemove(ctx context.Context, cmd *cli.Command) error {
	boxID := cmd.StringArg("box")
	albumID := cmd.StringArg("album")
	if boxID == "" || albumID == "" {
		return fmt.Errorf("%w: box ID and album ID", shared.ErrMissingArgument)
	}

	cat, closer, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closer()

	if err := cat.RemoveAlbumFromBox(boxID, albumID); err != nil {
		return fmt.Errorf("failed to remove album from box: %w", err)
	}

	return r.writePlain("✓ Removed album %s from box %s\n", albumID, boxID)
}

// BoxShow prints a box and the albums filed in it, in filing order.
func (r *Runner) BoxShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: box ID", shared.ErrMissingArgument)
	}

	cat, closer, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closer()

	box, err := cat.GetBox(id)
	if err != nil {
		return err
	}

	albums, err := cat.ListBoxAlbums(id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		data := map[string]any{
			"id":         box.ID(),
			"name":       box.Name(),
			"space_id":   box.SpaceID(),
			"created_at": box.CreatedAt().Format(time.RFC3339),
		}
		albumData := make([]map[string]any, 0, len(albums))
		for _, album := range albums {
			albumData = append(albumData, albumMap(album))
		}
		data["albums"] = albumData
		return r.writeJSON(data, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Box: %s (%d albums)", box.Name(), len(albums)))
	for i, album := range albums {
		r.writePlain("%d. %s - %s\n   ID: %s\n", i+1, album.PrimaryArtist(), album.Name(), album.ID())
	}
	return nil
}

// BoxExport writes a box to disk in the requested format.
func (r *Runner) BoxExport(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: box ID", shared.ErrMissingArgument)
	}

	cat, closer, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closer()

	box, err := cat.GetBox(id)
	if err != nil {
		return err
	}

	albums, err := cat.ListBoxAlbums(id)
	if err != nil {
		return err
	}

	export := &formatter.BoxExport{Box: box, Albums: albums}
	output := cmd.String("output")

	switch format := cmd.String("format"); format {
	case "csv":
		result, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return fmt.Errorf("failed to export box: %w", err)
		}
		r.writePlain("✓ Exported %d albums\n", len(albums))
		r.writePlain("  %s\n  %s\n", result.AlbumsFile, result.MetadataFile)
	case "markdown", "md":
		var imageURL string
		for _, album := range albums {
			if album.ImageURL() != "" {
				imageURL = album.ImageURL()
				break
			}
		}
		result, err := formatter.WriteMarkdownExport(export, output, imageURL)
		if err != nil {
			return fmt.Errorf("failed to export box: %w", err)
		}
		r.writePlain("✓ Exported %d albums to %s\n", len(albums), result.Directory)
	case "text", "txt":
		path, err := formatter.WriteTextExport(export, output)
		if err != nil {
			return fmt.Errorf("failed to export box: %w", err)
		}
		r.writePlain("✓ Exported %d albums to %s\n", len(albums), path)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}

	return nil
}
